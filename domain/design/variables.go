package design

import (
	"fmt"
	"reflect"
	"sort"

	"godesign/domain/core"
)

// DomainType classifies the value space of one variable slot
type DomainType string

const (
	DomainInt    DomainType = "int"
	DomainFloat  DomainType = "float"
	DomainBool   DomainType = "bool"
	DomainString DomainType = "string"
	DomainEnum   DomainType = "enum"
)

// Domain declares the allowed values of one variable: a numeric range,
// an enumerated value set, or a free type.
type Domain struct {
	Name   string        `json:"name"`
	Type   DomainType    `json:"type"`
	Min    *float64      `json:"min,omitempty"`
	Max    *float64      `json:"max,omitempty"`
	Values []interface{} `json:"values,omitempty"`
}

// IntDomain declares an integer range domain
func IntDomain(name string, min, max float64) Domain {
	return Domain{Name: name, Type: DomainInt, Min: &min, Max: &max}
}

// FloatDomain declares a float range domain
func FloatDomain(name string, min, max float64) Domain {
	return Domain{Name: name, Type: DomainFloat, Min: &min, Max: &max}
}

// EnumDomain declares an enumerated domain
func EnumDomain(name string, values ...interface{}) Domain {
	return Domain{Name: name, Type: DomainEnum, Values: values}
}

// BoolDomain declares a boolean domain
func BoolDomain(name string) Domain {
	return Domain{Name: name, Type: DomainBool}
}

// Contains reports whether value is inside the domain
func (d Domain) Contains(value interface{}) bool {
	switch d.Type {
	case DomainInt, DomainFloat:
		f, ok := asFloat(value)
		if !ok {
			return false
		}
		if d.Type == DomainInt && f != float64(int64(f)) {
			return false
		}
		if d.Min != nil && f < *d.Min {
			return false
		}
		if d.Max != nil && f > *d.Max {
			return false
		}
		return true
	case DomainBool:
		_, ok := value.(bool)
		return ok
	case DomainString:
		_, ok := value.(string)
		if !ok {
			return false
		}
		return d.containsValue(value)
	case DomainEnum:
		return d.containsValue(value)
	}
	return false
}

func (d Domain) containsValue(value interface{}) bool {
	if len(d.Values) == 0 {
		return d.Type == DomainString
	}
	for _, v := range d.Values {
		if valuesEqual(v, value) {
			return true
		}
	}
	return false
}

// Size returns the number of admissible values, or -1 when the domain is
// effectively unbounded (continuous range, free string).
func (d Domain) Size() int {
	switch d.Type {
	case DomainInt:
		if d.Min == nil || d.Max == nil {
			return -1
		}
		n := int(*d.Max) - int(*d.Min) + 1
		if n < 0 {
			return 0
		}
		return n
	case DomainFloat:
		return -1
	case DomainBool:
		return 2
	case DomainEnum, DomainString:
		if len(d.Values) == 0 {
			return -1
		}
		return len(d.Values)
	}
	return -1
}

// DependencyKind tags the semantics of one variable dependency.
// The set is closed so domain narrowing can be computed generically;
// open-ended behavior goes through KindCustom.
type DependencyKind string

const (
	KindLessThan    DependencyKind = "less_than"
	KindLessEqual   DependencyKind = "less_equal"
	KindGreaterThan DependencyKind = "greater_than"
	KindEquals      DependencyKind = "equals"
	KindSubsetOf    DependencyKind = "subset_of"
	KindDerivedFrom DependencyKind = "derived_from"
	KindCustom      DependencyKind = "custom"
)

// Dependency declares that one variable's admissible values are constrained
// by another variable's assigned value.
type Dependency struct {
	On   string         `json:"on"`
	Kind DependencyKind `json:"kind"`

	// Derive computes the dependent value for KindDerivedFrom.
	Derive func(onValue interface{}) interface{} `json:"-"`
	// Check reports compatibility for KindCustom.
	Check func(value, onValue interface{}) bool `json:"-"`
}

// Compatible reports whether value satisfies the dependency given the
// depended-on variable's value
func (dep Dependency) Compatible(value, onValue interface{}) bool {
	switch dep.Kind {
	case KindLessThan:
		a, okA := asFloat(value)
		b, okB := asFloat(onValue)
		return okA && okB && a < b
	case KindLessEqual:
		a, okA := asFloat(value)
		b, okB := asFloat(onValue)
		return okA && okB && a <= b
	case KindGreaterThan:
		a, okA := asFloat(value)
		b, okB := asFloat(onValue)
		return okA && okB && a > b
	case KindEquals:
		return valuesEqual(value, onValue)
	case KindSubsetOf:
		return isSubset(value, onValue)
	case KindDerivedFrom:
		if dep.Derive == nil {
			return true
		}
		return valuesEqual(value, dep.Derive(onValue))
	case KindCustom:
		if dep.Check == nil {
			return false
		}
		return dep.Check(value, onValue)
	}
	return false
}

// Narrow restricts a domain given the depended-on variable's assigned value.
// Applied before sampling, never as sample-and-reject.
func (dep Dependency) Narrow(d Domain, onValue interface{}) (Domain, error) {
	switch dep.Kind {
	case KindLessThan, KindLessEqual:
		bound, ok := asFloat(onValue)
		if !ok {
			return d, fmt.Errorf("dependency on %s: value %v is not numeric", dep.On, onValue)
		}
		if dep.Kind == KindLessThan && d.Type == DomainInt {
			bound--
		}
		if dep.Kind == KindLessThan && d.Type == DomainFloat {
			// open upper bound approximated by the bound itself for
			// uniform sampling; exactness is re-checked by Compatible
			bound = nextBelow(bound)
		}
		if d.Max == nil || bound < *d.Max {
			d.Max = &bound
		}
		return dropOutside(d), nil
	case KindGreaterThan:
		bound, ok := asFloat(onValue)
		if !ok {
			return d, fmt.Errorf("dependency on %s: value %v is not numeric", dep.On, onValue)
		}
		if d.Type == DomainInt {
			bound++
		} else {
			bound = nextAbove(bound)
		}
		if d.Min == nil || bound > *d.Min {
			d.Min = &bound
		}
		return dropOutside(d), nil
	case KindEquals:
		d.Values = []interface{}{onValue}
		if f, ok := asFloat(onValue); ok {
			d.Min = &f
			d.Max = &f
		}
		return d, nil
	case KindSubsetOf:
		allowed, ok := asSlice(onValue)
		if !ok {
			return d, fmt.Errorf("dependency on %s: value %v is not a collection", dep.On, onValue)
		}
		if len(d.Values) == 0 {
			d.Values = allowed
			return d, nil
		}
		var kept []interface{}
		for _, v := range d.Values {
			for _, a := range allowed {
				if valuesEqual(v, a) {
					kept = append(kept, v)
					break
				}
			}
		}
		d.Values = kept
		return d, nil
	case KindDerivedFrom:
		if dep.Derive != nil {
			d.Values = []interface{}{dep.Derive(onValue)}
		}
		return d, nil
	case KindCustom:
		// custom checks cannot narrow generically; the assigner filters
		// enumerable domains through Compatible instead
		return d, nil
	}
	return d, fmt.Errorf("unknown dependency kind %q", dep.Kind)
}

func dropOutside(d Domain) Domain {
	if len(d.Values) == 0 {
		return d
	}
	var kept []interface{}
	for _, v := range d.Values {
		f, ok := asFloat(v)
		if !ok {
			continue
		}
		if d.Min != nil && f < *d.Min {
			continue
		}
		if d.Max != nil && f > *d.Max {
			continue
		}
		kept = append(kept, v)
	}
	d.Values = kept
	return d
}

// VariableAssignment holds a structure's variable slots: declared domains,
// dependencies between slots, values assigned so far, and any slots flagged
// as domain-violated by a cascading modification.
type VariableAssignment struct {
	Assignments  map[string]interface{}  `json:"assignments"`
	Domains      map[string]Domain       `json:"domains"`
	Dependencies map[string][]Dependency `json:"dependencies,omitempty"`
	Flagged      map[string]string       `json:"flagged,omitempty"`
}

// NewVariableAssignment creates an empty assignment
func NewVariableAssignment() *VariableAssignment {
	return &VariableAssignment{
		Assignments:  make(map[string]interface{}),
		Domains:      make(map[string]Domain),
		Dependencies: make(map[string][]Dependency),
	}
}

// DeclareDomain registers a variable slot with its domain
func (va *VariableAssignment) DeclareDomain(d Domain) error {
	if d.Name == "" {
		return fmt.Errorf("domain name cannot be empty")
	}
	if _, exists := va.Domains[d.Name]; exists {
		return fmt.Errorf("variable %s already declared", d.Name)
	}
	va.Domains[d.Name] = d
	return nil
}

// DeclareDependency records that variable depends on another variable
func (va *VariableAssignment) DeclareDependency(variable string, dep Dependency) error {
	if _, ok := va.Domains[variable]; !ok {
		return fmt.Errorf("variable %s: %w", variable, core.ErrNotFound)
	}
	if _, ok := va.Domains[dep.On]; !ok {
		return fmt.Errorf("dependency of %s on undeclared variable %s", variable, dep.On)
	}
	va.Dependencies[variable] = append(va.Dependencies[variable], dep)
	return nil
}

// Assign sets one variable's value after checking it against the domain
func (va *VariableAssignment) Assign(variable string, value interface{}) error {
	d, ok := va.Domains[variable]
	if !ok {
		return fmt.Errorf("variable %s: %w", variable, core.ErrNotFound)
	}
	if !d.Contains(value) {
		return fmt.Errorf("value %v is outside the domain of variable %s", value, variable)
	}
	va.Assignments[variable] = value
	delete(va.Flagged, variable)
	return nil
}

// Value returns the assigned value of a variable
func (va *VariableAssignment) Value(variable string) (interface{}, bool) {
	v, ok := va.Assignments[variable]
	return v, ok
}

// IsAssigned reports whether a variable has a value
func (va *VariableAssignment) IsAssigned(variable string) bool {
	_, ok := va.Assignments[variable]
	return ok
}

// Flag marks a variable whose assigned value no longer satisfies its
// narrowed domain after a cascading modification
func (va *VariableAssignment) Flag(variable, reason string) {
	if va.Flagged == nil {
		va.Flagged = make(map[string]string)
	}
	va.Flagged[variable] = reason
}

// VariableNames returns declared variable names in sorted order
func (va *VariableAssignment) VariableNames() []string {
	names := make([]string, 0, len(va.Domains))
	for name := range va.Domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsComplete reports whether every declared variable has a value
func (va *VariableAssignment) IsComplete() bool {
	for name := range va.Domains {
		if !va.IsAssigned(name) {
			return false
		}
	}
	return true
}

// IsConsistent holds iff every dependency of an assigned variable is itself
// assigned and the dependent's value is compatible per the dependency kind
func (va *VariableAssignment) IsConsistent() bool {
	for variable, deps := range va.Dependencies {
		value, assigned := va.Assignments[variable]
		if !assigned {
			continue
		}
		for _, dep := range deps {
			onValue, ok := va.Assignments[dep.On]
			if !ok {
				return false
			}
			if !dep.Compatible(value, onValue) {
				return false
			}
		}
	}
	return true
}

// Dependents returns every variable that directly depends on the given one
func (va *VariableAssignment) Dependents(variable string) []string {
	var out []string
	for name, deps := range va.Dependencies {
		for _, dep := range deps {
			if dep.On == variable {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy
func (va *VariableAssignment) Clone() *VariableAssignment {
	out := NewVariableAssignment()
	for k, v := range va.Assignments {
		out.Assignments[k] = v
	}
	for k, d := range va.Domains {
		values := make([]interface{}, len(d.Values))
		copy(values, d.Values)
		d.Values = values
		out.Domains[k] = d
	}
	for k, deps := range va.Dependencies {
		cp := make([]Dependency, len(deps))
		copy(cp, deps)
		out.Dependencies[k] = cp
	}
	for k, v := range va.Flagged {
		out.Flag(k, v)
	}
	return out
}

// Equal reports value equality of assignments and domains. Numeric values
// compare by magnitude so a JSON round trip does not change the verdict.
func (va *VariableAssignment) Equal(other *VariableAssignment) bool {
	if va == nil || other == nil {
		return va == other
	}
	if len(va.Assignments) != len(other.Assignments) || len(va.Domains) != len(other.Domains) {
		return false
	}
	for name, v := range va.Assignments {
		ov, ok := other.Assignments[name]
		if !ok || !valuesEqual(v, ov) {
			return false
		}
	}
	for name, d := range va.Domains {
		od, ok := other.Domains[name]
		if !ok || !domainsEqual(d, od) {
			return false
		}
	}
	return true
}

func domainsEqual(a, b Domain) bool {
	if a.Name != b.Name || a.Type != b.Type {
		return false
	}
	if (a.Min == nil) != (b.Min == nil) || (a.Min != nil && *a.Min != *b.Min) {
		return false
	}
	if (a.Max == nil) != (b.Max == nil) || (a.Max != nil && *a.Max != *b.Max) {
		return false
	}
	if len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if !valuesEqual(a.Values[i], b.Values[i]) {
			return false
		}
	}
	return true
}

// FingerprintTokens returns one canonical token per assigned variable
func (va *VariableAssignment) FingerprintTokens() []string {
	tokens := make([]string, 0, len(va.Assignments))
	for _, name := range va.VariableNames() {
		if v, ok := va.Assignments[name]; ok {
			tokens = append(tokens, fmt.Sprintf("v:%s=%v", name, v))
		}
	}
	return tokens
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func asSlice(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]interface{}, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func isSubset(value, onValue interface{}) bool {
	super, ok := asSlice(onValue)
	if !ok {
		return false
	}
	sub, ok := asSlice(value)
	if !ok {
		// scalar membership counts as a singleton subset
		sub = []interface{}{value}
	}
	for _, sv := range sub {
		found := false
		for _, pv := range super {
			if valuesEqual(sv, pv) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func valuesEqual(a, b interface{}) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func nextBelow(f float64) float64 {
	return f - 1e-9
}

func nextAbove(f float64) float64 {
	return f + 1e-9
}
