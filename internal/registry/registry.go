package registry

import (
	"fmt"
	"sort"
	"sync"

	"godesign/ports"
)

// Configurable lets a substitution pass implementation parameters through.
// A configuration error rejects the swap.
type Configurable interface {
	Configure(params map[string]interface{}) error
}

type entry struct {
	impl interface{}
	meta ports.PluginMetadata
}

// Registry maps engine roles to active implementations. Substitution is
// atomic: a rejected swap leaves the previously active binding in force, and
// a role is never left unbound once registered.
type Registry struct {
	mu      sync.RWMutex
	entries map[ports.PluginRole]map[string]entry
	active  map[ports.PluginRole]string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		entries: make(map[ports.PluginRole]map[string]entry),
		active:  make(map[ports.PluginRole]string),
	}
}

// Register installs an implementation under a role. The first registration
// for a role becomes active. The implementation must satisfy the role's port.
func (r *Registry) Register(role ports.PluginRole, impl interface{}, meta ports.PluginMetadata) error {
	if meta.Name == "" {
		return fmt.Errorf("plugin for role %s has no name", role)
	}
	if err := checkRole(role, impl); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byName, ok := r.entries[role]
	if !ok {
		byName = make(map[string]entry)
		r.entries[role] = byName
	}
	if _, exists := byName[meta.Name]; exists {
		return fmt.Errorf("plugin %s already registered for role %s", meta.Name, role)
	}
	meta.Role = role
	byName[meta.Name] = entry{impl: impl, meta: meta}
	if _, bound := r.active[role]; !bound {
		r.active[role] = meta.Name
	}
	return nil
}

// Substitute atomically swaps the active implementation of a role. The
// candidate's dependency-validation hook runs first; an unmet dependency
// rejects the substitution. Takes effect only for work started after the
// swap; candidates already produced keep their provenance.
func (r *Registry) Substitute(role ports.PluginRole, name string, params map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byName, ok := r.entries[role]
	if !ok {
		return fmt.Errorf("role %s has no registered plugins", role)
	}
	e, ok := byName[name]
	if !ok {
		return fmt.Errorf("plugin %s is not registered for role %s", name, role)
	}
	if plugin, ok := e.impl.(ports.Plugin); ok {
		if err := plugin.ValidateDependencies(r.availableLocked()); err != nil {
			return fmt.Errorf("substitution of %s for role %s rejected: %w", name, role, err)
		}
	}
	if len(params) > 0 {
		configurable, ok := e.impl.(Configurable)
		if !ok {
			return fmt.Errorf("plugin %s for role %s does not accept parameters", name, role)
		}
		if err := configurable.Configure(params); err != nil {
			return fmt.Errorf("substitution of %s for role %s rejected: %w", name, role, err)
		}
	}
	r.active[role] = name
	return nil
}

// Active returns the active implementation for a role
func (r *Registry) Active(role ports.PluginRole) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.active[role]
	if !ok {
		return nil, fmt.Errorf("role %s has no active implementation", role)
	}
	return r.entries[role][name].impl, nil
}

// ActiveName returns the active implementation's name for a role
func (r *Registry) ActiveName(role ports.PluginRole) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.active[role]
	return name, ok
}

// ActiveGenerator returns the active structure generator
func (r *Registry) ActiveGenerator() (ports.GeneratorPort, error) {
	impl, err := r.Active(ports.RoleStructureGenerator)
	if err != nil {
		return nil, err
	}
	return impl.(ports.GeneratorPort), nil
}

// ActiveAssigner returns the active variable assigner
func (r *Registry) ActiveAssigner() (ports.AssignerPort, error) {
	impl, err := r.Active(ports.RoleVariableAssigner)
	if err != nil {
		return nil, err
	}
	return impl.(ports.AssignerPort), nil
}

// ActiveEvaluator returns the active constraint evaluator
func (r *Registry) ActiveEvaluator() (ports.EvaluatorPort, error) {
	impl, err := r.Active(ports.RoleConstraintEvaluator)
	if err != nil {
		return nil, err
	}
	return impl.(ports.EvaluatorPort), nil
}

// ActiveShapeValidator returns the active shape validator, or nil when the
// role was never registered (shape validation is an optional boundary)
func (r *Registry) ActiveShapeValidator() ports.ShapeValidatorPort {
	impl, err := r.Active(ports.RoleShapeValidator)
	if err != nil {
		return nil
	}
	return impl.(ports.ShapeValidatorPort)
}

// List returns metadata for every registered plugin, sorted by role then name
func (r *Registry) List() []ports.PluginMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ports.PluginMetadata
	for _, byName := range r.entries {
		for _, e := range byName {
			out = append(out, e.meta)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *Registry) availableLocked() []string {
	var names []string
	for _, byName := range r.entries {
		for name := range byName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func checkRole(role ports.PluginRole, impl interface{}) error {
	var ok bool
	switch role {
	case ports.RoleStructureGenerator:
		_, ok = impl.(ports.GeneratorPort)
	case ports.RoleVariableAssigner:
		_, ok = impl.(ports.AssignerPort)
	case ports.RoleConstraintEvaluator:
		_, ok = impl.(ports.EvaluatorPort)
	case ports.RoleShapeValidator:
		_, ok = impl.(ports.ShapeValidatorPort)
	default:
		return fmt.Errorf("unknown plugin role %q", role)
	}
	if !ok {
		return fmt.Errorf("implementation does not satisfy the %s port", role)
	}
	return nil
}
