package engine

import (
	"fmt"
	"time"

	"godesign/domain/core"
)

// Limits bound one solve invocation. Reaching any of them stops the run with
// LimitReached rather than an error.
type Limits struct {
	MaxIterations int           `json:"max_iterations"`
	MaxSolutions  int           `json:"max_solutions"`
	Timeout       time.Duration `json:"timeout"`
}

// DefaultLimits returns the stock limit set
func DefaultLimits() Limits {
	return Limits{
		MaxIterations: 1000,
		MaxSolutions:  10,
		Timeout:       60 * time.Second,
	}
}

// Validate rejects invalid parameter combinations before a run starts
func (l Limits) Validate() error {
	if l.MaxIterations <= 0 {
		return core.ConfigurationError("max_iterations", fmt.Errorf("must be positive, got %d", l.MaxIterations))
	}
	if l.MaxSolutions <= 0 {
		return core.ConfigurationError("max_solutions", fmt.Errorf("must be positive, got %d", l.MaxSolutions))
	}
	if l.Timeout < 0 {
		return core.ConfigurationError("timeout", fmt.Errorf("cannot be negative, got %s", l.Timeout))
	}
	return nil
}
