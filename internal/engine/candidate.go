package engine

import (
	"godesign/domain/core"
	"godesign/domain/design"
)

// Stage is the lifecycle position of one candidate
type Stage string

const (
	StageStructurePending Stage = "structure_pending"
	StageVariablesPending Stage = "variables_pending"
	StageEvaluated        Stage = "evaluated"
)

// Candidate wraps a design object with its lifecycle state. Engine-internal;
// callers only ever see the design objects of solutions.
type Candidate struct {
	ID          core.CandidateID
	Seq         uint64 // monotonic arena key
	ParentSeq   uint64 // 0 for roots; weak reference, never keeps a parent alive
	ParentID    core.CandidateID
	Depth       int
	Stage       Stage
	Object      *design.DesignObject
	Fingerprint core.Fingerprint
	CreatedStep int
	Violations  int // error-severity count from the last evaluation

	deduped bool
}

// Arena stores candidates keyed by a monotonically increasing sequence
// number. Parent links are plain sequence references, so lifetime is owned
// by the frontier: records are released as soon as they leave it.
type Arena struct {
	nextSeq uint64
	items   map[uint64]*Candidate
}

// NewArena creates an empty candidate arena
func NewArena() *Arena {
	return &Arena{items: make(map[uint64]*Candidate)}
}

// New allocates a candidate; parent may be nil for roots
func (a *Arena) New(parent *Candidate, obj *design.DesignObject, stage Stage, step int) *Candidate {
	a.nextSeq++
	c := &Candidate{
		ID:          core.CandidateID(core.NewID()),
		Seq:         a.nextSeq,
		Stage:       stage,
		Object:      obj,
		CreatedStep: step,
	}
	if parent != nil {
		c.ParentSeq = parent.Seq
		c.ParentID = parent.ID
		c.Depth = parent.Depth + 1
	}
	a.items[c.Seq] = c
	return c
}

// Release drops a candidate record once it is off the frontier. Parent
// links are weak, so releasing a parent never strands its children.
func (a *Arena) Release(c *Candidate) {
	if c != nil {
		delete(a.items, c.Seq)
	}
}

// Get returns the candidate with the given sequence number
func (a *Arena) Get(seq uint64) (*Candidate, bool) {
	c, ok := a.items[seq]
	return c, ok
}

// Len returns the number of live candidates
func (a *Arena) Len() int {
	return len(a.items)
}

