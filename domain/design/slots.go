package design

import (
	"fmt"
)

// VariableSlotsKey is the component property under which variable slot
// declarations live. Slots are stored as plain JSON-like data so structures
// survive serialization round trips unchanged.
const VariableSlotsKey = "variable_slots"

// Slot is one declared variable slot of a component: a domain plus the
// dependencies its value must respect. Slot names are unqualified; the
// assigner namespaces them with the owning component id.
type Slot struct {
	Domain    Domain
	DependsOn []SlotDependency
}

// SlotDependency declares a dependency between two slots of one component
type SlotDependency struct {
	On   string
	Kind DependencyKind
}

// SlotProperty encodes slots as the plain data form stored in a component's
// properties
func SlotProperty(slots ...Slot) []interface{} {
	out := make([]interface{}, 0, len(slots))
	for _, slot := range slots {
		m := map[string]interface{}{
			"name": slot.Domain.Name,
			"type": string(slot.Domain.Type),
		}
		if slot.Domain.Min != nil {
			m["min"] = *slot.Domain.Min
		}
		if slot.Domain.Max != nil {
			m["max"] = *slot.Domain.Max
		}
		if len(slot.Domain.Values) > 0 {
			values := make([]interface{}, len(slot.Domain.Values))
			copy(values, slot.Domain.Values)
			m["values"] = values
		}
		if len(slot.DependsOn) > 0 {
			deps := make([]interface{}, 0, len(slot.DependsOn))
			for _, dep := range slot.DependsOn {
				deps = append(deps, map[string]interface{}{
					"on":   dep.On,
					"kind": string(dep.Kind),
				})
			}
			m["depends_on"] = deps
		}
		out = append(out, m)
	}
	return out
}

// ComponentSlots parses a component's variable slot declarations. Components
// without the property declare no variables.
func ComponentSlots(c Component) ([]Slot, error) {
	raw, ok := c.Property(VariableSlotsKey)
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("component %s: %s property is not a list", c.ID, VariableSlotsKey)
	}
	slots := make([]Slot, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("component %s: slot %d is not an object", c.ID, i)
		}
		slot, err := parseSlot(c.ID, m)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func parseSlot(componentID string, m map[string]interface{}) (Slot, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return Slot{}, fmt.Errorf("component %s: slot has no name", componentID)
	}
	typeStr, _ := m["type"].(string)
	domainType := DomainType(typeStr)
	switch domainType {
	case DomainInt, DomainFloat, DomainBool, DomainString, DomainEnum:
	default:
		return Slot{}, fmt.Errorf("component %s: slot %s has unknown domain type %q", componentID, name, typeStr)
	}
	d := Domain{Name: name, Type: domainType}
	if v, ok := m["min"]; ok {
		if f, ok := asFloat(v); ok {
			d.Min = &f
		}
	}
	if v, ok := m["max"]; ok {
		if f, ok := asFloat(v); ok {
			d.Max = &f
		}
	}
	if v, ok := m["values"].([]interface{}); ok {
		d.Values = v
	}
	slot := Slot{Domain: d}
	if rawDeps, ok := m["depends_on"].([]interface{}); ok {
		for _, rawDep := range rawDeps {
			dm, ok := rawDep.(map[string]interface{})
			if !ok {
				return Slot{}, fmt.Errorf("component %s: slot %s has a malformed dependency", componentID, name)
			}
			on, _ := dm["on"].(string)
			kind, _ := dm["kind"].(string)
			if on == "" || kind == "" {
				return Slot{}, fmt.Errorf("component %s: slot %s dependency needs both on and kind", componentID, name)
			}
			slot.DependsOn = append(slot.DependsOn, SlotDependency{On: on, Kind: DependencyKind(kind)})
		}
	}
	return slot, nil
}

// QualifiedSlotName namespaces a slot within its owning component
func QualifiedSlotName(componentID, slot string) string {
	return componentID + "." + slot
}
