package engine

import (
	"context"
	"fmt"
	"time"

	"godesign/domain/constraint"
	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/internal"
	"godesign/internal/registry"
	"godesign/ports"
)

// Options configure one explorer instance. Immutable for the duration of a
// Solve call; runtime change goes through registry substitution or a fresh
// Solve, never live mutation.
type Options struct {
	Strategy           Strategy
	AssignmentStrategy ports.AssignmentStrategy
	Limits             Limits
	FingerprintScope   FingerprintScope
	Heuristic          Heuristic
	Seed               int64
	SeedCandidates     int // roots pushed before the loop; 0 derives from MaxSolutions
	StructureBranch    int // structural variants per expansion
	VariableBranch     int // variable-modified children per expansion

	// Shape gates candidates for this run only, taking precedence over any
	// registered shape validator. Nil falls back to the registry.
	Shape ports.ShapeValidatorPort
}

// DefaultOptions returns the stock exploration parameters
func DefaultOptions() Options {
	return Options{
		Strategy:           StrategyBreadthFirst,
		AssignmentStrategy: ports.AssignRandom,
		Limits:             DefaultLimits(),
		FingerprintScope:   ScopeStructureVariables,
		StructureBranch:    3,
		VariableBranch:     2,
	}
}

// Explorer orchestrates the generate, assign, evaluate, expand loop. It
// exclusively owns the frontier, the visited set, and the decision trace for
// the duration of one Solve invocation.
type Explorer struct {
	opts        Options
	registry    *registry.Registry
	constraints *constraint.Set
	trace       ports.TraceSink
	observer    ports.ObserverPort
	rng         ports.RNGPort
	log         *internal.Logger
}

// NewExplorer wires an explorer. trace and observer may be nil.
func NewExplorer(opts Options, reg *registry.Registry, set *constraint.Set, trace ports.TraceSink, observer ports.ObserverPort, logger *internal.Logger) (*Explorer, error) {
	if err := opts.Limits.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}
	if _, err := ParseFingerprintScope(string(opts.FingerprintScope)); err != nil {
		return nil, err
	}
	if _, err := ParseAssignmentStrategy(string(opts.AssignmentStrategy)); err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, core.ConfigurationError("registry", fmt.Errorf("cannot be nil"))
	}
	if set == nil {
		set = constraint.NewSet("empty")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.StructureBranch <= 0 {
		opts.StructureBranch = 3
	}
	if opts.VariableBranch < 0 {
		opts.VariableBranch = 0
	}
	return &Explorer{
		opts:        opts,
		registry:    reg,
		constraints: set,
		trace:       trace,
		observer:    observer,
		rng:         ports.DefaultRNG{},
		log:         logger.Named("explorer"),
	}, nil
}

// solveState is the explicit per-invocation search context: every strategy
// operation reads and mutates this, never shared package state
type solveState struct {
	runID     core.RunID
	frontier  Frontier
	visited   map[core.Fingerprint]bool
	arena     *Arena
	iteration int
	solutions []*design.DesignObject
	started   time.Time
}

// Solve runs one exploration. It returns the valid solutions found with a
// terminal status, or a fatal error (configuration or evaluator failure).
func (e *Explorer) Solve(ctx context.Context) (*Result, error) {
	rng := e.rng.Stream("frontier", e.opts.Seed)
	frontier, err := NewFrontier(e.opts.Strategy, e.opts.Heuristic, rng)
	if err != nil {
		return nil, err
	}
	st := &solveState{
		runID:    core.RunID(core.NewID()),
		frontier: frontier,
		visited:  make(map[core.Fingerprint]bool),
		arena:    NewArena(),
		started:  time.Now(),
	}

	seeds := e.opts.SeedCandidates
	if seeds <= 0 {
		seeds = e.opts.Limits.MaxSolutions
		if seeds > 8 {
			seeds = 8
		}
	}
	for i := 0; i < seeds; i++ {
		c := st.arena.New(nil, design.NewDesignObject(), StageStructurePending, 0)
		st.frontier.Push(c)
	}
	e.log.Info("run %s: strategy=%s seeds=%d constraints=%d", st.runID, e.opts.Strategy, seeds, e.constraints.Len())

	var deadline time.Time
	if e.opts.Limits.Timeout > 0 {
		deadline = st.started.Add(e.opts.Limits.Timeout)
	}

	status := StatusCompleted
loop:
	for {
		// cancellation is cooperative, consulted once per iteration
		if ctx.Err() != nil {
			e.emit(st, ports.DecisionLimitReached, nil, "cancelled", ctx.Err().Error())
			status = StatusLimitReached
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			e.emit(st, ports.DecisionLimitReached, nil, "timeout", fmt.Sprintf("timeout %s elapsed", e.opts.Limits.Timeout))
			status = StatusLimitReached
			break
		}
		if st.frontier.Len() == 0 {
			break
		}
		if st.iteration >= e.opts.Limits.MaxIterations {
			e.emit(st, ports.DecisionLimitReached, nil, "max_iterations", fmt.Sprintf("iteration limit %d reached", e.opts.Limits.MaxIterations))
			status = StatusLimitReached
			break
		}
		st.iteration++

		c, ok := st.frontier.Pop()
		if !ok {
			break
		}

		switch c.Stage {
		case StageStructurePending:
			if !e.advanceStructure(st, c) {
				st.arena.Release(c)
				continue
			}
			// dedup before re-queueing: under structure scope the
			// fingerprint is already final here, and a dropped duplicate
			// must not linger in the frontier
			if dropped, err := e.checkDuplicate(st, c); err != nil {
				return nil, err
			} else if dropped {
				st.arena.Release(c)
				continue
			}
			st.frontier.Push(c)
		case StageVariablesPending:
			if !e.advanceVariables(st, c) {
				st.arena.Release(c)
				continue
			}
		}

		if dropped, err := e.checkDuplicate(st, c); err != nil {
			return nil, err
		} else if dropped {
			st.arena.Release(c)
			continue
		}

		if c.Object.IsComplete() && c.Stage == StageEvaluated {
			done, err := e.evaluate(st, c)
			// the record is spent once evaluated; only its design object
			// survives, in the solution set or in its children
			st.arena.Release(c)
			if err != nil {
				return nil, err
			}
			if done {
				break loop
			}
		} else if c.Stage == StageVariablesPending {
			// structure just generated; branch structurally while the
			// candidate itself waits for assignment
			e.expand(st, c, true, false)
		}

		e.observe(st)
	}

	elapsed := time.Since(st.started)
	e.log.Info("run %s: status=%s iterations=%d solutions=%d elapsed=%s",
		st.runID, status, st.iteration, len(st.solutions), elapsed)
	return &Result{
		RunID:      st.runID,
		Status:     status,
		Solutions:  st.solutions,
		Iterations: st.iteration,
		Visited:    len(st.visited),
		Elapsed:    elapsed,
	}, nil
}

// advanceStructure generates a structure for a pending candidate. A failure
// drops the branch, never the run.
func (e *Explorer) advanceStructure(st *solveState, c *Candidate) bool {
	gen, err := e.registry.ActiveGenerator()
	if err != nil {
		e.deadEnd(st, c, err.Error())
		return false
	}
	s, err := gen.Generate(e.constraints.All())
	if err != nil {
		e.deadEnd(st, c, fmt.Sprintf("structure generation failed: %v", err))
		return false
	}
	c.Object.Structure = s
	c.Stage = StageVariablesPending
	e.emitFor(st, ports.DecisionStructureGeneration, c, "generated",
		fmt.Sprintf("structure with %d components and %d relationships", s.ComponentCount(), s.RelationshipCount()),
		map[string]interface{}{"components": s.ComponentCount(), "relationships": s.RelationshipCount()})
	return true
}

// advanceVariables assigns the candidate's variable slots. A failure,
// including a dependency cycle, drops the branch.
func (e *Explorer) advanceVariables(st *solveState, c *Candidate) bool {
	assigner, err := e.registry.ActiveAssigner()
	if err != nil {
		e.deadEnd(st, c, err.Error())
		return false
	}
	va, err := assigner.Assign(c.Object.Structure, e.opts.AssignmentStrategy)
	if err != nil {
		e.deadEnd(st, c, fmt.Sprintf("variable assignment failed: %v", err))
		return false
	}
	c.Object.Variables = va
	c.Stage = StageEvaluated
	e.emitFor(st, ports.DecisionVariableAssignment, c, "assigned",
		fmt.Sprintf("%d variables assigned", len(va.Assignments)),
		map[string]interface{}{"variables": len(va.Assignments), "strategy": string(e.opts.AssignmentStrategy)})
	return true
}

// checkDuplicate applies dedup once the fingerprint is final under the scope
func (e *Explorer) checkDuplicate(st *solveState, c *Candidate) (bool, error) {
	if c.deduped || !fingerprintFinal(c.Object, e.opts.FingerprintScope) {
		return false, nil
	}
	c.Fingerprint = ComputeFingerprint(c.Object, e.opts.FingerprintScope)
	c.deduped = true
	if st.visited[c.Fingerprint] {
		e.emitFor(st, ports.DecisionDuplicateSkipped, c, "dropped",
			fmt.Sprintf("fingerprint %s already visited", c.Fingerprint), nil)
		return true, nil
	}
	st.visited[c.Fingerprint] = true
	return false, nil
}

// evaluate runs the constraint evaluator on a complete candidate. Evaluator
// failure is fatal: a broken correctness oracle makes "valid" meaningless.
// Returns done=true when the solution target is met.
func (e *Explorer) evaluate(st *solveState, c *Candidate) (bool, error) {
	validator := e.opts.Shape
	if validator == nil {
		validator = e.registry.ActiveShapeValidator()
	}
	if validator != nil {
		if err := validator.Validate(c.Object); err != nil {
			e.deadEnd(st, c, fmt.Sprintf("shape validation failed: %v", err))
			return false, nil
		}
	}
	evaluator, err := e.registry.ActiveEvaluator()
	if err != nil {
		return false, core.ConstraintEvaluationError(core.ConstraintID("<none>"), err)
	}
	result, err := evaluator.Evaluate(c.Object, e.constraints)
	if err != nil {
		return false, err
	}
	c.Violations = result.ErrorCount()
	e.emitFor(st, ports.DecisionConstraintEvaluation, c,
		outcomeFor(result.IsValid),
		fmt.Sprintf("%d violations, %d at error severity", len(result.Violations), result.ErrorCount()),
		map[string]interface{}{"violations": violationSummaries(result.Violations)})

	if result.IsValid {
		st.solutions = append(st.solutions, c.Object)
		e.emitFor(st, ports.DecisionSolutionFound, c, "accepted",
			fmt.Sprintf("solution %d of %d", len(st.solutions), e.opts.Limits.MaxSolutions), nil)
		return len(st.solutions) >= e.opts.Limits.MaxSolutions, nil
	}
	e.expand(st, c, true, true)
	return false, nil
}

// expand produces children from a candidate: structural variants and, for
// complete candidates, variable-modified siblings
func (e *Explorer) expand(st *solveState, c *Candidate, structural, variables bool) {
	var childIDs []string

	if structural && c.Object.Structure != nil {
		gen, err := e.registry.ActiveGenerator()
		if err == nil {
			variants, verr := gen.Variants(c.Object.Structure, e.opts.StructureBranch)
			if verr != nil {
				e.log.Debug("run %s: no structural variants for candidate %s: %v", st.runID, c.ID, verr)
			}
			for _, v := range variants {
				obj := design.NewDesignObject()
				obj.Structure = v
				child := st.arena.New(c, obj, StageVariablesPending, st.iteration)
				st.frontier.Push(child)
				childIDs = append(childIDs, child.ID.String())
			}
		}
	}

	if variables && c.Object.IsComplete() && e.opts.VariableBranch > 0 {
		assigner, err := e.registry.ActiveAssigner()
		if err == nil {
			childIDs = append(childIDs, e.variableChildren(st, c, assigner)...)
		}
	}

	if len(childIDs) == 0 {
		e.deadEnd(st, c, "no distinct children producible")
		return
	}
	e.append(st, ports.DecisionEvent{
		Step:        st.iteration,
		Type:        ports.DecisionBranchExpanded,
		CandidateID: c.ID,
		ParentID:    c.ParentID,
		Depth:       c.Depth + 1,
		Inputs:      map[string]interface{}{"children": childIDs},
		Outcome:     "expanded",
		Reasoning:   fmt.Sprintf("%d children pushed", len(childIDs)),
		At:          core.Now(),
	})
}

// variableChildren branches a complete candidate by re-sampling one variable
// at a time through the assigner's modify cascade
func (e *Explorer) variableChildren(st *solveState, c *Candidate, assigner ports.AssignerPort) []string {
	names := c.Object.Variables.VariableNames()
	if len(names) == 0 {
		return nil
	}
	fresh, err := assigner.Assign(c.Object.Structure, e.opts.AssignmentStrategy)
	if err != nil {
		return nil
	}
	var out []string
	rng := e.rng.Stream(fmt.Sprintf("branch/%s", c.ID), e.opts.Seed)
	for i := 0; i < e.opts.VariableBranch && i < len(names); i++ {
		variable := names[rng.Intn(len(names))]
		value, ok := fresh.Value(variable)
		if !ok {
			continue
		}
		if current, ok := c.Object.Variables.Value(variable); ok && fmt.Sprintf("%v", current) == fmt.Sprintf("%v", value) {
			continue
		}
		modified, err := assigner.Modify(c.Object.Variables, variable, value)
		if err != nil {
			continue
		}
		// the cascade flags dependents it cannot keep compatible; such an
		// assignment must never reach evaluation as a solution candidate
		if len(modified.Flagged) > 0 || !assigner.IsConsistent(modified) {
			continue
		}
		obj := c.Object.Derive()
		obj.Variables = modified
		child := st.arena.New(c, obj, StageEvaluated, st.iteration)
		st.frontier.Push(child)
		out = append(out, child.ID.String())
	}
	return out
}

func (e *Explorer) deadEnd(st *solveState, c *Candidate, reason string) {
	e.emitFor(st, ports.DecisionBranchDeadEnd, c, "dropped", reason, nil)
}

// observe emits a progress snapshot; observer failures are contained here
// and never propagate into the search
func (e *Explorer) observe(st *solveState) {
	if e.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("run %s: progress observer panicked: %v", st.runID, r)
		}
	}()
	e.observer.OnProgress(ports.ProgressSnapshot{
		Iteration:      st.iteration,
		FrontierSize:   st.frontier.Len(),
		SolutionsFound: len(st.solutions),
		Elapsed:        time.Since(st.started),
	})
}

func (e *Explorer) emit(st *solveState, t ports.DecisionType, c *Candidate, outcome, reasoning string) {
	e.emitFor(st, t, c, outcome, reasoning, nil)
}

func (e *Explorer) emitFor(st *solveState, t ports.DecisionType, c *Candidate, outcome, reasoning string, inputs map[string]interface{}) {
	if e.trace == nil {
		return
	}
	event := ports.DecisionEvent{
		Step:      st.iteration,
		Type:      t,
		Outcome:   outcome,
		Reasoning: reasoning,
		Inputs:    inputs,
		At:        core.Now(),
	}
	if c != nil {
		event.CandidateID = c.ID
		event.ParentID = c.ParentID
		event.Depth = c.Depth
	}
	e.append(st, event)
}

func (e *Explorer) append(st *solveState, event ports.DecisionEvent) {
	if e.trace == nil {
		return
	}
	e.trace.Append(event)
}

func outcomeFor(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}

func violationSummaries(violations []constraint.Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = fmt.Sprintf("%s[%s]: %s", v.ConstraintID, v.Severity, v.Message)
	}
	return out
}
