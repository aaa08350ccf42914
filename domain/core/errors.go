package core

import (
	"errors"
	"fmt"
)

// Domain errors for design-space exploration
var (
	ErrStructureGeneration  = errors.New("structure generation failed")
	ErrVariableAssignment   = errors.New("variable assignment failed")
	ErrConstraintEvaluation = errors.New("constraint evaluation failed")
	ErrShapeValidation      = errors.New("shape validation failed")
	ErrConfiguration        = errors.New("invalid configuration")
	ErrPluginNotFound       = errors.New("plugin not found")
	ErrDependencyCycle      = errors.New("dependency cycle detected")
	ErrDomainExhausted      = errors.New("variable domain exhausted")
	ErrNotFound             = errors.New("not found")
)

// StructureGenerationError wraps a generation failure with design context
func StructureGenerationError(designID DesignID, cause error) error {
	return fmt.Errorf("%w: design %s: %v", ErrStructureGeneration, designID, cause)
}

// VariableAssignmentError wraps an assignment failure naming the variable
func VariableAssignmentError(variable string, cause error) error {
	return fmt.Errorf("%w: variable %q: %v", ErrVariableAssignment, variable, cause)
}

// ConstraintEvaluationError wraps an evaluator crash naming the constraint.
// This error is fatal to the exploration run.
func ConstraintEvaluationError(constraintID ConstraintID, cause error) error {
	return fmt.Errorf("%w: constraint %s: %v", ErrConstraintEvaluation, constraintID, cause)
}

// ConfigurationError wraps a config validation failure naming the field
func ConfigurationError(field string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrConfiguration, field, cause)
}

// DependencyCycleError names the variables participating in a cycle
func DependencyCycleError(variables []string) error {
	return fmt.Errorf("%w: %v", ErrDependencyCycle, variables)
}

// IsStructureGeneration checks if an error is a structure generation error
func IsStructureGeneration(err error) bool {
	return errors.Is(err, ErrStructureGeneration)
}

// IsVariableAssignment checks if an error is a variable assignment error
func IsVariableAssignment(err error) bool {
	return errors.Is(err, ErrVariableAssignment)
}

// IsConstraintEvaluation checks if an error is a constraint evaluation error
func IsConstraintEvaluation(err error) bool {
	return errors.Is(err, ErrConstraintEvaluation)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsDependencyCycle checks if an error is a dependency cycle error
func IsDependencyCycle(err error) bool {
	return errors.Is(err, ErrDependencyCycle)
}

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
