package ports

import (
	"godesign/domain/core"
)

// DecisionType labels one kind of recorded exploration step
type DecisionType string

const (
	DecisionStructureGeneration  DecisionType = "structure_generation"
	DecisionVariableAssignment   DecisionType = "variable_assignment"
	DecisionConstraintEvaluation DecisionType = "constraint_evaluation"
	DecisionDuplicateSkipped     DecisionType = "duplicate_skipped"
	DecisionBranchExpanded       DecisionType = "branch_expanded"
	DecisionBranchDeadEnd        DecisionType = "branch_dead_end"
	DecisionSolutionFound        DecisionType = "solution_found"
	DecisionLimitReached         DecisionType = "limit_reached"
)

// DecisionEvent is one recorded step of the exploration process. The trace is
// append-only and causally ordered; journey reconstruction depends on that.
type DecisionEvent struct {
	Step        int                    `json:"step"`
	Type        DecisionType           `json:"type"`
	CandidateID core.CandidateID       `json:"candidate_id,omitempty"`
	ParentID    core.CandidateID       `json:"parent_id,omitempty"`
	Depth       int                    `json:"depth"`
	Inputs      map[string]interface{} `json:"inputs,omitempty"`
	Outcome     string                 `json:"outcome"`
	Reasoning   string                 `json:"reasoning,omitempty"`
	At          core.Timestamp         `json:"at"`
}

// TraceSink receives decision events as the explorer emits them.
// Appends must preserve emission order.
type TraceSink interface {
	Append(event DecisionEvent)
}
