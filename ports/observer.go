package ports

import (
	"time"
)

// ProgressSnapshot is emitted once per exploration iteration as a side
// channel. Observer failures never block or fail the search.
type ProgressSnapshot struct {
	Iteration      int           `json:"iteration"`
	FrontierSize   int           `json:"frontier_size"`
	SolutionsFound int           `json:"solutions_found"`
	Elapsed        time.Duration `json:"elapsed"`
}

// ObserverPort receives progress snapshots during a solve invocation
type ObserverPort interface {
	OnProgress(snapshot ProgressSnapshot)
}

// ObserverFunc adapts a plain function to ObserverPort
type ObserverFunc func(snapshot ProgressSnapshot)

func (f ObserverFunc) OnProgress(snapshot ProgressSnapshot) { f(snapshot) }
