package ports

// PluginRole names an engine extension point a plugin can fill
type PluginRole string

const (
	RoleStructureGenerator  PluginRole = "structure_generator"
	RoleVariableAssigner    PluginRole = "variable_assigner"
	RoleConstraintEvaluator PluginRole = "constraint_evaluator"
	RoleShapeValidator      PluginRole = "shape_validator"
)

// PluginMetadata describes an installable implementation
type PluginMetadata struct {
	Name         string                 `json:"name"`
	Version      string                 `json:"version"`
	Description  string                 `json:"description,omitempty"`
	Author       string                 `json:"author,omitempty"`
	Role         PluginRole             `json:"role"`
	Dependencies []string               `json:"dependencies,omitempty"`
	ConfigSchema map[string]interface{} `json:"config_schema,omitempty"`
}

// Plugin is the registration contract. ValidateDependencies is the hook the
// registry calls before a substitution; any unmet dependency rejects the swap
// and the previously active implementation stays in force.
type Plugin interface {
	Metadata() PluginMetadata
	ValidateDependencies(available []string) error
}
