package engine

import (
	"fmt"

	"godesign/domain/core"
	"godesign/domain/design"
)

// FingerprintScope decides what a candidate's dedup digest covers. The
// originating material leaves this open, so it is a configurable policy.
type FingerprintScope string

const (
	ScopeStructure          FingerprintScope = "structure"
	ScopeStructureVariables FingerprintScope = "structure_variables"
)

// ParseFingerprintScope validates a scope name
func ParseFingerprintScope(s string) (FingerprintScope, error) {
	switch FingerprintScope(s) {
	case ScopeStructure, ScopeStructureVariables:
		return FingerprintScope(s), nil
	}
	return "", core.ConfigurationError("fingerprint_scope", fmt.Errorf("unknown fingerprint scope %q", s))
}

// ComputeFingerprint digests a candidate's normalized content under the
// given scope. Order-independent: equal content hashes equally.
func ComputeFingerprint(obj *design.DesignObject, scope FingerprintScope) core.Fingerprint {
	var tokens []string
	if obj.Structure != nil {
		tokens = append(tokens, obj.Structure.FingerprintTokens()...)
	}
	if scope == ScopeStructureVariables && obj.Variables != nil {
		tokens = append(tokens, obj.Variables.FingerprintTokens()...)
	}
	return core.NewFingerprint(tokens)
}

// fingerprintFinal reports whether a candidate's digest can no longer change
// under the scope, which is when dedup applies
func fingerprintFinal(obj *design.DesignObject, scope FingerprintScope) bool {
	if scope == ScopeStructure {
		return obj.Structure != nil
	}
	return obj.IsComplete()
}
