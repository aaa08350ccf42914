package introspect

import (
	"fmt"
	"sync"

	"godesign/domain/core"
	"godesign/ports"
)

// Store is the append-only decision trace for one run plus the read-only
// query surface over it. Appends are serialized so the trace stays causally
// ordered for journey reconstruction; queries never mutate search state.
type Store struct {
	mu     sync.RWMutex
	events []ports.DecisionEvent
}

// NewStore creates an empty trace store
func NewStore() *Store {
	return &Store{}
}

// Append records one decision event in emission order
func (s *Store) Append(event ports.DecisionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Len returns the number of recorded events
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Trace returns the decision trace, optionally filtered by event type
func (s *Store) Trace(types ...ports.DecisionType) []ports.DecisionEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(types) == 0 {
		out := make([]ports.DecisionEvent, len(s.events))
		copy(out, s.events)
		return out
	}
	wanted := make(map[ports.DecisionType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	var out []ports.DecisionEvent
	for _, ev := range s.events {
		if wanted[ev.Type] {
			out = append(out, ev)
		}
	}
	return out
}

// JourneySummary condenses one candidate's path through the search
type JourneySummary struct {
	CandidateID    core.CandidateID `json:"candidate_id"`
	WasValid       bool             `json:"was_valid"`
	DepthReached   int              `json:"depth_reached"`
	TerminalReason string           `json:"terminal_reason"`
}

// Journey is the ordered list of every event referencing a candidate or its
// ancestors, plus a summary
type Journey struct {
	Events  []ports.DecisionEvent `json:"events"`
	Summary JourneySummary        `json:"summary"`
}

// Journey reconstructs a candidate's path by following parent links recorded
// in the trace
func (s *Store) Journey(candidateID core.CandidateID) (Journey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parents := make(map[core.CandidateID]core.CandidateID)
	seen := false
	for _, ev := range s.events {
		if ev.CandidateID == "" {
			continue
		}
		if ev.CandidateID == candidateID {
			seen = true
		}
		if ev.ParentID != "" {
			parents[ev.CandidateID] = ev.ParentID
		}
	}
	if !seen {
		return Journey{}, fmt.Errorf("candidate %s: %w", candidateID, core.ErrNotFound)
	}

	lineage := map[core.CandidateID]bool{candidateID: true}
	for cur := candidateID; ; {
		parent, ok := parents[cur]
		if !ok || lineage[parent] {
			break
		}
		lineage[parent] = true
		cur = parent
	}

	journey := Journey{Summary: JourneySummary{CandidateID: candidateID}}
	for _, ev := range s.events {
		if ev.CandidateID == "" || !lineage[ev.CandidateID] {
			continue
		}
		journey.Events = append(journey.Events, ev)
		if ev.CandidateID != candidateID {
			continue
		}
		if ev.Depth > journey.Summary.DepthReached {
			journey.Summary.DepthReached = ev.Depth
		}
		if ev.Type == ports.DecisionSolutionFound {
			journey.Summary.WasValid = true
		}
		journey.Summary.TerminalReason = fmt.Sprintf("%s: %s", ev.Type, ev.Outcome)
	}
	return journey, nil
}
