// Package evaluate provides the default constraint evaluator. Every
// constraint is evaluated independently so all violations for a candidate are
// collectible in one pass; the evaluator has no knowledge of constraint
// semantics beyond invoking the contract.
package evaluate

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"godesign/domain/constraint"
	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/ports"
)

// Evaluator checks candidates against a constraint set. With Workers > 1,
// constraints are evaluated concurrently under a weighted semaphore;
// aggregation stays ordered by constraint position so results are
// deterministic either way.
type Evaluator struct {
	workers int64
	cache   *resultCache
}

// New creates a sequential evaluator
func New() *Evaluator {
	return &Evaluator{workers: 1}
}

// WithWorkers enables bounded parallel constraint evaluation
func (e *Evaluator) WithWorkers(n int) *Evaluator {
	if n > 1 {
		e.workers = int64(n)
	}
	return e
}

// WithCache enables a size-bounded result cache keyed by candidate content
func (e *Evaluator) WithCache(size int) *Evaluator {
	if size > 0 {
		e.cache = newResultCache(size)
	}
	return e
}

// Metadata implements the plugin registration contract
func (e *Evaluator) Metadata() ports.PluginMetadata {
	return ports.PluginMetadata{
		Name:        "independent_evaluator",
		Version:     "1.0.0",
		Description: "evaluates every constraint independently and aggregates violations",
		Role:        ports.RoleConstraintEvaluator,
	}
}

// ValidateDependencies reports unmet plugin dependencies; the default
// evaluator has none
func (e *Evaluator) ValidateDependencies(available []string) error {
	return nil
}

// Evaluate runs every constraint in the set against the candidate. A
// constraint whose contract itself fails (error or panic) aborts with a
// constraint evaluation error; the run cannot trust its oracle after that.
func (e *Evaluator) Evaluate(candidate *design.DesignObject, set *constraint.Set) (constraint.Result, error) {
	if candidate == nil {
		return constraint.Result{}, core.ConstraintEvaluationError("<none>", fmt.Errorf("candidate is nil"))
	}
	constraints := set.All()

	var key core.Hash
	if e.cache != nil {
		key = cacheKey(candidate, set)
		if cached, ok := e.cache.get(key); ok {
			return cached, nil
		}
	}

	var result constraint.Result
	var err error
	if e.workers > 1 && len(constraints) > 1 {
		result, err = e.evaluateParallel(candidate, constraints)
	} else {
		result, err = e.evaluateSequential(candidate, constraints)
	}
	if err != nil {
		return constraint.Result{}, err
	}
	if e.cache != nil {
		e.cache.put(key, result)
	}
	return result, nil
}

func (e *Evaluator) evaluateSequential(candidate *design.DesignObject, constraints []constraint.Constraint) (constraint.Result, error) {
	var violations []constraint.Violation
	for _, c := range constraints {
		vs, err := evaluateOne(candidate, c)
		if err != nil {
			return constraint.Result{}, err
		}
		violations = append(violations, vs...)
	}
	return constraint.NewResult(violations), nil
}

func (e *Evaluator) evaluateParallel(candidate *design.DesignObject, constraints []constraint.Constraint) (constraint.Result, error) {
	sem := semaphore.NewWeighted(e.workers)
	perConstraint := make([][]constraint.Violation, len(constraints))
	errs := make([]error, len(constraints))
	var wg sync.WaitGroup

	ctx := context.Background()
	for i, c := range constraints {
		if err := sem.Acquire(ctx, 1); err != nil {
			return constraint.Result{}, core.ConstraintEvaluationError(c.ID(), err)
		}
		wg.Add(1)
		go func(i int, c constraint.Constraint) {
			defer wg.Done()
			defer sem.Release(1)
			perConstraint[i], errs[i] = evaluateOne(candidate, c)
		}(i, c)
	}
	wg.Wait()

	var violations []constraint.Violation
	for i := range constraints {
		if errs[i] != nil {
			return constraint.Result{}, errs[i]
		}
		violations = append(violations, perConstraint[i]...)
	}
	return constraint.NewResult(violations), nil
}

// evaluateOne invokes a single constraint contract, containing panics from
// malformed custom constraints
func evaluateOne(candidate *design.DesignObject, c constraint.Constraint) (violations []constraint.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
			err = core.ConstraintEvaluationError(c.ID(), fmt.Errorf("evaluation panicked: %v", r))
		}
	}()
	violations, err = c.Evaluate(candidate)
	if err != nil {
		return nil, core.ConstraintEvaluationError(c.ID(), err)
	}
	return violations, nil
}
