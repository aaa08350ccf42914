// Package generate provides the default structure generator: random but
// constraint-aware construction of component graphs, plus the incremental
// modification and variant machinery the explorer branches with.
package generate

import (
	"fmt"
	"math/rand"

	"godesign/domain/constraint"
	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/ports"
)

// Generator produces random structures from a configurable type pool.
// Constraints passed to Generate are advisory hints: count bounds and
// required types steer generation, but validity is always re-checked by the
// evaluator.
type Generator struct {
	componentTypes    []design.ComponentType
	relationshipTypes []design.RelationshipType
	slotTemplates     map[design.ComponentType][]design.Slot
	minComponents     int
	maxComponents     int
	rng               *rand.Rand
	counter           int
}

// New creates a generator with the built-in type pool and slot templates
func New(seed int64) *Generator {
	return &Generator{
		componentTypes:    design.DefaultComponentTypes(),
		relationshipTypes: design.DefaultRelationshipTypes(),
		slotTemplates:     defaultSlotTemplates(),
		minComponents:     2,
		maxComponents:     6,
		rng:               ports.HashedStream("generator", seed),
	}
}

// defaultSlotTemplates declares the variable slots each built-in component
// type carries
func defaultSlotTemplates() map[design.ComponentType][]design.Slot {
	return map[design.ComponentType][]design.Slot{
		design.TypeProcessor: {
			{Domain: design.IntDomain("cores", 1, 16)},
			{Domain: design.FloatDomain("clock_ghz", 0.5, 5.0)},
		},
		design.TypeMemory: {
			{Domain: design.IntDomain("size_gb", 1, 256)},
		},
		design.TypeStorage: {
			{Domain: design.IntDomain("capacity_gb", 8, 4096)},
			{
				Domain:    design.IntDomain("used_gb", 0, 4096),
				DependsOn: []design.SlotDependency{{On: "capacity_gb", Kind: design.KindLessEqual}},
			},
		},
		design.TypeNetwork: {
			{Domain: design.IntDomain("bandwidth_mbps", 10, 10000)},
		},
		design.TypeSensor: {
			{Domain: design.FloatDomain("rate_hz", 0.1, 1000)},
			{Domain: design.EnumDomain("precision", "low", "medium", "high")},
		},
		design.TypeActuator: {
			{Domain: design.FloatDomain("torque_nm", 0.1, 100)},
		},
	}
}

// Metadata implements the plugin registration contract
func (g *Generator) Metadata() ports.PluginMetadata {
	return ports.PluginMetadata{
		Name:        "random_generator",
		Version:     "1.0.0",
		Description: "random structure generator with constraint-aware sizing",
		Role:        ports.RoleStructureGenerator,
	}
}

// ValidateDependencies reports unmet plugin dependencies; the default
// generator has none
func (g *Generator) ValidateDependencies(available []string) error {
	return nil
}

// Configure applies substitution parameters
func (g *Generator) Configure(params map[string]interface{}) error {
	if v, ok := params["component_types"]; ok {
		list, ok := v.([]interface{})
		if !ok || len(list) == 0 {
			return fmt.Errorf("component_types must be a non-empty list")
		}
		types := make([]design.ComponentType, 0, len(list))
		for _, item := range list {
			name, ok := item.(string)
			if !ok || name == "" {
				return fmt.Errorf("component_types entries must be non-empty strings")
			}
			types = append(types, design.ComponentType(name))
		}
		g.componentTypes = types
	}
	if v, ok := params["min_components"]; ok {
		n, ok := asInt(v)
		if !ok || n < 1 {
			return fmt.Errorf("min_components must be a positive integer")
		}
		g.minComponents = n
	}
	if v, ok := params["max_components"]; ok {
		n, ok := asInt(v)
		if !ok || n < g.minComponents {
			return fmt.Errorf("max_components must be an integer >= min_components")
		}
		g.maxComponents = n
	}
	return nil
}

// WithTypes overrides the component type pool and slot templates
func (g *Generator) WithTypes(componentTypes []design.ComponentType, slots map[design.ComponentType][]design.Slot) *Generator {
	if len(componentTypes) > 0 {
		g.componentTypes = componentTypes
	}
	if slots != nil {
		g.slotTemplates = slots
	}
	return g
}

// WithSizeBounds overrides the default component count window
func (g *Generator) WithSizeBounds(min, max int) *Generator {
	g.minComponents = min
	g.maxComponents = max
	return g
}

// Generate produces a structure plausible under the given constraints
func (g *Generator) Generate(constraints []constraint.Constraint) (*design.Structure, error) {
	if len(g.componentTypes) == 0 {
		return nil, fmt.Errorf("%w: component type pool is empty", core.ErrStructureGeneration)
	}
	min, max, required := g.sizeHints(constraints)
	if min > max {
		return nil, fmt.Errorf("%w: constraint hints demand between %d and %d components", core.ErrStructureGeneration, min, max)
	}

	ids := make([]string, 0, len(constraints))
	for _, c := range constraints {
		ids = append(ids, c.ID().String())
	}
	s := design.NewStructure(ids)

	count := min
	if max > min {
		count = min + g.rng.Intn(max-min+1)
	}
	for _, t := range required {
		if err := s.AddComponent(g.newComponent(t)); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrStructureGeneration, err)
		}
	}
	for s.ComponentCount() < count {
		t := g.componentTypes[g.rng.Intn(len(g.componentTypes))]
		if err := s.AddComponent(g.newComponent(t)); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrStructureGeneration, err)
		}
	}

	if err := g.wire(s); err != nil {
		return nil, err
	}
	return s, nil
}

// sizeHints extracts advisory bounds and required types from the constraint
// set; unknown constraint kinds contribute nothing
func (g *Generator) sizeHints(constraints []constraint.Constraint) (min, max int, required []design.ComponentType) {
	min, max = g.minComponents, g.maxComponents
	if min < 1 {
		min = 1
	}
	for _, c := range constraints {
		switch hint := c.(type) {
		case *constraint.MinComponents:
			if hint.Min > min {
				min = hint.Min
			}
		case *constraint.MaxComponents:
			if hint.Max < max {
				max = hint.Max
			}
		case *constraint.RequiredComponentTypes:
			required = append(required, hint.Types...)
		}
	}
	if len(required) > min {
		min = len(required)
	}
	return min, max, required
}

// wire adds relationships until the structure has at least one and roughly
// one per component, keeping endpoints resolvable
func (g *Generator) wire(s *design.Structure) error {
	ids := s.ComponentIDs()
	edges := 1
	if len(ids) > 1 {
		edges = len(ids) - 1 + g.rng.Intn(2)
	}
	for i := 0; i < edges; i++ {
		source := ids[g.rng.Intn(len(ids))]
		target := ids[g.rng.Intn(len(ids))]
		relType := g.relationshipTypes[g.rng.Intn(len(g.relationshipTypes))]
		rel := design.NewRelationship(g.nextID("rel"), source, target, relType, nil)
		if err := s.AddRelationship(rel); err != nil {
			return fmt.Errorf("%w: %v", core.ErrStructureGeneration, err)
		}
	}
	return nil
}

func (g *Generator) newComponent(t design.ComponentType) design.Component {
	var properties map[string]interface{}
	if slots := g.slotTemplates[t]; len(slots) > 0 {
		properties = map[string]interface{}{
			design.VariableSlotsKey: design.SlotProperty(slots...),
		}
	}
	return design.NewComponent(g.nextID(string(t)), t, properties)
}

func (g *Generator) nextID(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s-%d", prefix, g.counter)
}

// Modify applies one incremental edit; the input structure is never mutated
func (g *Generator) Modify(s *design.Structure, m design.Modification) (*design.Structure, error) {
	out, err := m.Apply(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrStructureGeneration, m.Kind, err)
	}
	return out, nil
}

// Variants derives up to n structurally distinct alternatives from a base.
// No two returned variants share the same diff against the base; producing
// none is a generation error.
func (g *Generator) Variants(s *design.Structure, n int) ([]*design.Structure, error) {
	if n <= 0 {
		return nil, nil
	}
	candidates := g.candidateModifications(s)
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	seen := make(map[string]bool)
	var out []*design.Structure
	for _, m := range candidates {
		if len(out) >= n {
			break
		}
		diff := m.Diff()
		if seen[diff] {
			continue
		}
		variant, err := m.Apply(s)
		if err != nil {
			continue
		}
		if variant.Equal(s) {
			continue
		}
		seen[diff] = true
		out = append(out, variant)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no legal modification exists for structure with %d components", core.ErrStructureGeneration, s.ComponentCount())
	}
	return out, nil
}

// candidateModifications enumerates a diverse pool of single edits
func (g *Generator) candidateModifications(s *design.Structure) []design.Modification {
	var mods []design.Modification
	componentIDs := s.ComponentIDs()

	if s.ComponentCount() < g.maxComponents {
		for i := 0; i < 2; i++ {
			t := g.componentTypes[g.rng.Intn(len(g.componentTypes))]
			comp := g.newComponent(t)
			mods = append(mods, design.Modification{Kind: design.ModAddComponent, Component: &comp})
		}
	}
	if s.ComponentCount() > g.minComponents && s.ComponentCount() > 1 {
		id := componentIDs[g.rng.Intn(len(componentIDs))]
		mods = append(mods, design.Modification{Kind: design.ModRemoveComponent, TargetID: id})
	}
	if len(componentIDs) > 0 && len(g.componentTypes) > 1 {
		id := componentIDs[g.rng.Intn(len(componentIDs))]
		current, _ := s.Component(id)
		for _, t := range g.componentTypes {
			if t != current.Type {
				mods = append(mods, design.Modification{Kind: design.ModChangeComponentType, TargetID: id, NewType: t})
				break
			}
		}
	}
	if len(componentIDs) > 1 {
		source := componentIDs[g.rng.Intn(len(componentIDs))]
		target := componentIDs[g.rng.Intn(len(componentIDs))]
		relType := g.relationshipTypes[g.rng.Intn(len(g.relationshipTypes))]
		rel := design.NewRelationship(g.nextID("rel"), source, target, relType, nil)
		mods = append(mods, design.Modification{Kind: design.ModAddRelationship, Relationship: &rel})
	}
	if s.RelationshipCount() > 1 {
		relIDs := s.RelationshipIDs()
		id := relIDs[g.rng.Intn(len(relIDs))]
		mods = append(mods, design.Modification{Kind: design.ModRemoveRelationship, TargetID: id})
	}
	return mods
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
