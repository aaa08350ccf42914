package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	DesignID     ID
	CandidateID  ID
	ConstraintID ID
	RunID        ID
)

// String conversions for domain IDs
func (id DesignID) String() string     { return ID(id).String() }
func (id CandidateID) String() string  { return ID(id).String() }
func (id ConstraintID) String() string { return ID(id).String() }
func (id RunID) String() string        { return ID(id).String() }

// ParseDesignID parses a string into DesignID
func ParseDesignID(s string) (DesignID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("design ID cannot be empty")
	}
	return DesignID(s), nil
}

// ParseCandidateID parses a string into CandidateID
func ParseCandidateID(s string) (CandidateID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("candidate ID cannot be empty")
	}
	return CandidateID(s), nil
}

// ParseConstraintID parses a string into ConstraintID
func ParseConstraintID(s string) (ConstraintID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("constraint ID cannot be empty")
	}
	return ConstraintID(s), nil
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}
