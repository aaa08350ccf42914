package engine

import (
	"time"

	"godesign/domain/core"
	"godesign/domain/design"
)

// Status is the terminal state of one solve invocation
type Status string

const (
	StatusCompleted    Status = "completed"     // solution target met or space exhausted
	StatusLimitReached Status = "limit_reached" // iteration, time, or cancellation limit hit
)

// Result is the public outcome of a solve invocation. Solutions are always
// fully evaluated and valid; partially evaluated candidates never appear.
type Result struct {
	RunID      core.RunID             `json:"run_id"`
	Status     Status                 `json:"status"`
	Solutions  []*design.DesignObject `json:"solutions"`
	Iterations int                    `json:"iterations"`
	Visited    int                    `json:"visited"`
	Elapsed    time.Duration          `json:"elapsed"`
}
