// Package app wires the exploration engine to its adapters and exposes the
// operations the HTTP and CLI surfaces consume.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"godesign/adapters/assign"
	"godesign/adapters/evaluate"
	"godesign/adapters/export"
	"godesign/adapters/generate"
	"godesign/adapters/shape"
	"godesign/domain/constraint"
	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/internal"
	"godesign/internal/config"
	"godesign/internal/engine"
	"godesign/internal/errors"
	"godesign/internal/introspect"
	"godesign/internal/registry"
	"godesign/ports"
)

// runRecord keeps one run's public results and its trace store
type runRecord struct {
	result *engine.Result
	store  *introspect.Store
}

// ExplorationService owns the registry, per-run introspection stores, and
// optional persistence
type ExplorationService struct {
	cfg       *config.Config
	log       *internal.Logger
	registry  *registry.Registry
	exporters map[ports.ExportFormat]ports.ExporterPort

	solutions ports.SolutionRepository
	traces    ports.TraceRepository

	mu   sync.RWMutex
	runs map[core.RunID]*runRecord
}

// NewExplorationService wires the default plugin set
func NewExplorationService(cfg *config.Config, logger *internal.Logger) (*ExplorationService, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("configuration is required")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	reg := registry.New()

	gen := generate.New(cfg.Solver.Seed)
	if err := reg.Register(ports.RoleStructureGenerator, gen, gen.Metadata()); err != nil {
		return nil, err
	}
	assigner := assign.New(cfg.Solver.Seed)
	if err := reg.Register(ports.RoleVariableAssigner, assigner, assigner.Metadata()); err != nil {
		return nil, err
	}
	evaluator := evaluate.New().WithWorkers(cfg.Solver.ParallelWorkers)
	if cfg.Solver.CacheEvaluations {
		evaluator = evaluator.WithCache(cfg.Solver.CacheSize)
	}
	if err := reg.Register(ports.RoleConstraintEvaluator, evaluator, evaluator.Metadata()); err != nil {
		return nil, err
	}

	return &ExplorationService{
		cfg:      cfg,
		log:      logger.Named("service"),
		registry: reg,
		exporters: map[ports.ExportFormat]ports.ExporterPort{
			ports.FormatJSON:   export.JSONExporter{},
			ports.FormatCSV:    export.CSVExporter{},
			ports.FormatXLSX:   export.XLSXExporter{},
			ports.FormatDOT:    export.DOTExporter{},
			ports.FormatReport: export.ReportExporter{},
		},
		runs: make(map[core.RunID]*runRecord),
	}, nil
}

// WithRepositories attaches optional persistence
func (s *ExplorationService) WithRepositories(solutions ports.SolutionRepository, traces ports.TraceRepository) *ExplorationService {
	s.solutions = solutions
	s.traces = traces
	return s
}

// Registry exposes the plugin registry for external plugin loading
func (s *ExplorationService) Registry() *registry.Registry {
	return s.registry
}

// ConstraintSpec declares one constraint in a solve request. Params depend
// on the type.
type ConstraintSpec struct {
	ID     string                 `json:"id"`
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// SolveRequest parameterizes one exploration run. Zero values fall back to
// the service configuration.
type SolveRequest struct {
	Strategy           string           `json:"strategy,omitempty"`
	AssignmentStrategy string           `json:"assignment_strategy,omitempty"`
	FingerprintScope   string           `json:"fingerprint_scope,omitempty"`
	MaxIterations      int              `json:"max_iterations,omitempty"`
	MaxSolutions       int              `json:"max_solutions,omitempty"`
	TimeoutSeconds     int              `json:"timeout_seconds,omitempty"`
	Seed               int64            `json:"seed,omitempty"`
	Constraints        []ConstraintSpec `json:"constraints"`
	Shape              *ports.Shape     `json:"shape,omitempty"`
}

// Solve runs one exploration and retains its results and trace for queries
func (s *ExplorationService) Solve(ctx context.Context, req SolveRequest) (*engine.Result, error) {
	set, err := BuildConstraintSet(req.Constraints)
	if err != nil {
		return nil, err
	}
	opts, err := s.engineOptions(req)
	if err != nil {
		return nil, err
	}
	// request shapes are per-run; only durable plugins live in the registry
	if req.Shape != nil {
		opts.Shape = shape.New(*req.Shape)
	}
	store := introspect.NewStore()
	explorer, err := engine.NewExplorer(opts, s.registry, set, store, s.progressObserver(), s.log)
	if err != nil {
		return nil, err
	}

	result, err := explorer.Solve(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.runs[result.RunID] = &runRecord{result: result, store: store}
	s.mu.Unlock()

	s.persist(ctx, result, store)
	return result, nil
}

func (s *ExplorationService) engineOptions(req SolveRequest) (engine.Options, error) {
	opts := engine.Options{
		Strategy:           engine.Strategy(s.cfg.Solver.Strategy),
		AssignmentStrategy: ports.AssignmentStrategy(s.cfg.Solver.AssignmentStrategy),
		FingerprintScope:   engine.FingerprintScope(s.cfg.Solver.FingerprintScope),
		Limits: engine.Limits{
			MaxIterations: s.cfg.Solver.MaxIterations,
			MaxSolutions:  s.cfg.Solver.MaxSolutions,
			Timeout:       s.cfg.Solver.Timeout,
		},
		Seed:            s.cfg.Solver.Seed,
		SeedCandidates:  s.cfg.Solver.SeedCandidates,
		StructureBranch: s.cfg.Solver.StructureBranch,
		VariableBranch:  s.cfg.Solver.VariableBranch,
	}
	if req.Strategy != "" {
		strategy, err := engine.ParseStrategy(req.Strategy)
		if err != nil {
			return engine.Options{}, err
		}
		opts.Strategy = strategy
	}
	if req.AssignmentStrategy != "" {
		assignment, err := engine.ParseAssignmentStrategy(req.AssignmentStrategy)
		if err != nil {
			return engine.Options{}, err
		}
		opts.AssignmentStrategy = assignment
	}
	if req.FingerprintScope != "" {
		scope, err := engine.ParseFingerprintScope(req.FingerprintScope)
		if err != nil {
			return engine.Options{}, err
		}
		opts.FingerprintScope = scope
	}
	if req.MaxIterations > 0 {
		opts.Limits.MaxIterations = req.MaxIterations
	}
	if req.MaxSolutions > 0 {
		opts.Limits.MaxSolutions = req.MaxSolutions
	}
	if req.TimeoutSeconds > 0 {
		opts.Limits.Timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}
	return opts, nil
}

func (s *ExplorationService) progressObserver() ports.ObserverPort {
	log := s.log
	return ports.ObserverFunc(func(snapshot ports.ProgressSnapshot) {
		log.Debug("iteration=%d frontier=%d solutions=%d elapsed=%s",
			snapshot.Iteration, snapshot.FrontierSize, snapshot.SolutionsFound, snapshot.Elapsed)
	})
}

func (s *ExplorationService) persist(ctx context.Context, result *engine.Result, store *introspect.Store) {
	if s.solutions != nil {
		for _, sol := range result.Solutions {
			if err := s.solutions.SaveSolution(ctx, result.RunID, sol); err != nil {
				s.log.Error("persist solution %s for run %s: %v", sol.ID, result.RunID, err)
			}
		}
	}
	if s.traces != nil {
		if err := s.traces.SaveEvents(ctx, result.RunID, store.Trace()); err != nil {
			s.log.Error("persist trace for run %s: %v", result.RunID, err)
		}
	}
}

func (s *ExplorationService) record(runID core.RunID) (*runRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("run %s", runID))
	}
	return rec, nil
}

// Result returns a completed run's result
func (s *ExplorationService) Result(runID core.RunID) (*engine.Result, error) {
	rec, err := s.record(runID)
	if err != nil {
		return nil, err
	}
	return rec.result, nil
}

// Trace returns a run's decision trace, optionally filtered by type
func (s *ExplorationService) Trace(runID core.RunID, types ...ports.DecisionType) ([]ports.DecisionEvent, error) {
	rec, err := s.record(runID)
	if err != nil {
		return nil, err
	}
	return rec.store.Trace(types...), nil
}

// Journey reconstructs one candidate's path through a run
func (s *ExplorationService) Journey(runID core.RunID, candidateID core.CandidateID) (introspect.Journey, error) {
	rec, err := s.record(runID)
	if err != nil {
		return introspect.Journey{}, err
	}
	journey, err := rec.store.Journey(candidateID)
	if err != nil {
		if core.IsNotFound(err) {
			return introspect.Journey{}, errors.NotFound(fmt.Sprintf("candidate %s in run %s", candidateID, runID))
		}
		return introspect.Journey{}, err
	}
	return journey, nil
}

// Patterns returns aggregate statistics over a run's trace
func (s *ExplorationService) Patterns(runID core.RunID) (introspect.PatternAnalysis, error) {
	rec, err := s.record(runID)
	if err != nil {
		return introspect.PatternAnalysis{}, err
	}
	return rec.store.Patterns(), nil
}

// Plugins lists every registered plugin
func (s *ExplorationService) Plugins() []ports.PluginMetadata {
	return s.registry.List()
}

// Substitute swaps a role's active implementation; rejection leaves the
// previous binding in force
func (s *ExplorationService) Substitute(role ports.PluginRole, name string, params map[string]interface{}) error {
	return s.registry.Substitute(role, name, params)
}

// Export encodes a run's results in the requested format
func (s *ExplorationService) Export(runID core.RunID, format ports.ExportFormat) ([]byte, string, error) {
	rec, err := s.record(runID)
	if err != nil {
		return nil, "", err
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, "", errors.InvalidInput(fmt.Sprintf("unknown export format %q", format))
	}
	data, err := exporter.Export(rec.result.Solutions, rec.store.Trace())
	if err != nil {
		return nil, "", err
	}
	return data, exporter.ContentType(), nil
}

// Runs lists known run ids, newest last
func (s *ExplorationService) Runs() []core.RunID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RunID, 0, len(s.runs))
	for id := range s.runs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuildConstraintSet materializes declarative constraint specs into a set
func BuildConstraintSet(specs []ConstraintSpec) (*constraint.Set, error) {
	set := constraint.NewSet("request")
	for i, spec := range specs {
		id := spec.ID
		if id == "" {
			id = fmt.Sprintf("%s_%d", spec.Type, i+1)
		}
		c, err := buildConstraint(id, spec)
		if err != nil {
			return nil, err
		}
		if err := set.Add(c); err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
	}
	return set, nil
}

func buildConstraint(id string, spec ConstraintSpec) (constraint.Constraint, error) {
	p := paramReader{spec.Params}
	switch spec.Type {
	case "min_components":
		return constraint.NewMinComponents(id, p.intVal("min", 1)), nil
	case "max_components":
		return constraint.NewMaxComponents(id, p.intVal("max", 10)), nil
	case "required_component_types":
		return constraint.NewRequiredComponentTypes(id, p.componentTypes("types")...), nil
	case "forbidden_component_types":
		return constraint.NewForbiddenComponentTypes(id, p.componentTypes("types")...), nil
	case "min_relationships":
		return constraint.NewMinRelationships(id, p.intVal("min", 1)), nil
	case "variable_range":
		variable := p.strVal("variable", "")
		if variable == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("constraint %s: variable_range needs a variable name", id))
		}
		return constraint.NewVariableRange(id, variable, p.floatVal("min", 0), p.floatVal("max", 0)), nil
	case "component_property":
		return constraint.NewComponentProperty(id,
			p.componentType("component_type"), p.strVal("property", ""), spec.Params["expected"]), nil
	case "relationship_pattern":
		c := constraint.NewRelationshipPattern(id,
			p.relationshipType("relationship_type"), p.componentType("source_type"), p.componentType("target_type"))
		if p.boolVal("forbidden", false) {
			c = constraint.NewForbiddenRelationshipPattern(id,
				p.relationshipType("relationship_type"), p.componentType("source_type"), p.componentType("target_type"))
		}
		return c, nil
	case "connectivity":
		return constraint.NewConnectivity(id), nil
	}
	return nil, errors.InvalidInput(fmt.Sprintf("constraint %s: unknown type %q", id, spec.Type))
}

// paramReader reads loosely typed constraint params from decoded JSON
type paramReader struct {
	params map[string]interface{}
}

func (p paramReader) strVal(key, fallback string) string {
	if v, ok := p.params[key].(string); ok {
		return v
	}
	return fallback
}

func (p paramReader) intVal(key string, fallback int) int {
	switch v := p.params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func (p paramReader) floatVal(key string, fallback float64) float64 {
	switch v := p.params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

func (p paramReader) boolVal(key string, fallback bool) bool {
	if v, ok := p.params[key].(bool); ok {
		return v
	}
	return fallback
}

func (p paramReader) componentType(key string) design.ComponentType {
	return design.ComponentType(p.strVal(key, ""))
}

func (p paramReader) relationshipType(key string) design.RelationshipType {
	return design.RelationshipType(p.strVal(key, ""))
}

func (p paramReader) componentTypes(key string) []design.ComponentType {
	raw, ok := p.params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]design.ComponentType, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, design.ComponentType(s))
		}
	}
	return out
}
