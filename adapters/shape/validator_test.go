package shape

import (
	"errors"
	"strings"
	"testing"

	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/ports"
)

func validCandidate(t *testing.T) *design.DesignObject {
	t.Helper()
	obj := design.NewDesignObject()
	obj.Structure = design.NewStructure(nil)
	_ = obj.Structure.AddComponent(design.NewComponent("cpu-1", design.TypeProcessor, nil))
	_ = obj.Structure.AddComponent(design.NewComponent("disk-1", design.TypeStorage, nil))
	_ = obj.Structure.AddRelationship(design.NewRelationship("r1", "cpu-1", "disk-1", design.RelConnectsTo, nil))
	obj.Variables = design.NewVariableAssignment()
	_ = obj.Variables.DeclareDomain(design.IntDomain("cpu-1.cores", 1, 16))
	_ = obj.Variables.Assign("cpu-1.cores", 8)
	return obj
}

func TestValidateAcceptsConformingCandidate(t *testing.T) {
	v := New(ports.Shape{
		AllowedComponentTypes:    []design.ComponentType{design.TypeProcessor, design.TypeStorage},
		AllowedRelationshipTypes: []design.RelationshipType{design.RelConnectsTo},
		MinComponents:            1,
		MaxComponents:            5,
		RequiredVariables:        []design.Domain{design.IntDomain("cpu-1.cores", 1, 16)},
	})
	if err := v.Validate(validCandidate(t)); err != nil {
		t.Errorf("Conforming candidate rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		shape   ports.Shape
		mutate  func(obj *design.DesignObject)
		wantSub string
	}{
		{
			name:    "too few components",
			shape:   ports.Shape{MinComponents: 5},
			wantSub: "at least 5",
		},
		{
			name:    "too many components",
			shape:   ports.Shape{MaxComponents: 1},
			wantSub: "at most 1",
		},
		{
			name:    "disallowed component type",
			shape:   ports.Shape{AllowedComponentTypes: []design.ComponentType{design.TypeProcessor}},
			wantSub: "disk-1",
		},
		{
			name:    "disallowed relationship type",
			shape:   ports.Shape{AllowedRelationshipTypes: []design.RelationshipType{design.RelMonitors}},
			wantSub: "r1",
		},
		{
			name:    "missing required variable",
			shape:   ports.Shape{RequiredVariables: []design.Domain{design.IntDomain("ghost", 0, 1)}},
			wantSub: "ghost",
		},
		{
			name:  "required variable outside domain",
			shape: ports.Shape{RequiredVariables: []design.Domain{design.IntDomain("cpu-1.cores", 10, 16)}},
			mutate: func(obj *design.DesignObject) {
				_ = obj.Variables.Assign("cpu-1.cores", 4)
			},
			wantSub: "cpu-1.cores",
		},
		{
			name:  "no structure",
			shape: ports.Shape{},
			mutate: func(obj *design.DesignObject) {
				obj.Structure = nil
			},
			wantSub: "no structure",
		},
	}

	for _, test := range tests {
		obj := validCandidate(t)
		if test.mutate != nil {
			test.mutate(obj)
		}
		err := New(test.shape).Validate(obj)
		if err == nil {
			t.Errorf("%s: expected rejection, got none", test.name)
			continue
		}
		if !errors.Is(err, core.ErrShapeValidation) {
			t.Errorf("%s: expected a shape validation error, got %v", test.name, err)
		}
		if !strings.Contains(err.Error(), test.wantSub) {
			t.Errorf("%s: error should name the offender (%q): %v", test.name, test.wantSub, err)
		}
	}
}
