package design

import (
	"godesign/domain/core"
)

// DesignObject is the unit of search: a structural configuration plus
// variable assignments. It is complete once both parts are present; validity
// is decided by constraint evaluation, never assumed.
type DesignObject struct {
	ID        core.DesignID          `json:"id"`
	Structure *Structure             `json:"structure,omitempty"`
	Variables *VariableAssignment    `json:"variables,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewDesignObject creates an empty candidate with a fresh id
func NewDesignObject() *DesignObject {
	return &DesignObject{
		ID:       core.DesignID(core.NewID()),
		Metadata: make(map[string]interface{}),
	}
}

// IsComplete reports whether both structure and variables are present
func (d *DesignObject) IsComplete() bool {
	return d.Structure != nil && d.Variables != nil
}

// Clone returns a deep copy carrying the same id
func (d *DesignObject) Clone() *DesignObject {
	out := &DesignObject{ID: d.ID}
	if d.Structure != nil {
		out.Structure = d.Structure.Clone()
	}
	if d.Variables != nil {
		out.Variables = d.Variables.Clone()
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]interface{}, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Derive returns a copy under a fresh id, used when branching a candidate
func (d *DesignObject) Derive() *DesignObject {
	out := d.Clone()
	out.ID = core.DesignID(core.NewID())
	return out
}

// Equal reports structural equality: component/relationship sets equal and
// variable maps equal. Ids and metadata are provenance, not identity.
func (d *DesignObject) Equal(other *DesignObject) bool {
	if d == nil || other == nil {
		return d == other
	}
	switch {
	case d.Structure == nil && other.Structure != nil,
		d.Structure != nil && other.Structure == nil,
		d.Variables == nil && other.Variables != nil,
		d.Variables != nil && other.Variables == nil:
		return false
	}
	if d.Structure != nil && !d.Structure.Equal(other.Structure) {
		return false
	}
	if d.Variables != nil && !d.Variables.Equal(other.Variables) {
		return false
	}
	return true
}
