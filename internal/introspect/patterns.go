package introspect

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"godesign/ports"
)

// PatternAnalysis aggregates the decision trace into run-level statistics
type PatternAnalysis struct {
	TotalEvents         int                           `json:"total_events"`
	EventCounts         map[ports.DecisionType]int    `json:"event_counts"`
	MostCommonDecision  ports.DecisionType            `json:"most_common_decision"`
	MostCommonViolation string                        `json:"most_common_violation,omitempty"`
	ViolationCounts     map[string]int                `json:"violation_counts,omitempty"`
	AverageBranchFactor float64                       `json:"average_branch_factor"`
	MedianBranchFactor  float64                       `json:"median_branch_factor"`
	MaxDepth            int                           `json:"max_depth"`
	MeanDepth           float64                       `json:"mean_depth"`
	DepthStdDev         float64                       `json:"depth_std_dev"`
	DepthViolationCorr  float64                       `json:"depth_violation_correlation"`
	DeadEndRate         float64                       `json:"dead_end_rate"`
}

// Patterns computes aggregate statistics over the recorded trace
func (s *Store) Patterns() PatternAnalysis {
	s.mu.RLock()
	events := make([]ports.DecisionEvent, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	analysis := PatternAnalysis{
		TotalEvents:     len(events),
		EventCounts:     make(map[ports.DecisionType]int),
		ViolationCounts: make(map[string]int),
	}
	if len(events) == 0 {
		return analysis
	}

	var branchFactors []float64
	var depths []float64
	var evalDepths, evalViolations []float64
	deadEnds := 0

	for _, ev := range events {
		analysis.EventCounts[ev.Type]++
		depths = append(depths, float64(ev.Depth))
		if ev.Depth > analysis.MaxDepth {
			analysis.MaxDepth = ev.Depth
		}
		switch ev.Type {
		case ports.DecisionBranchExpanded:
			if children, ok := ev.Inputs["children"].([]string); ok {
				branchFactors = append(branchFactors, float64(len(children)))
			}
		case ports.DecisionBranchDeadEnd:
			deadEnds++
		case ports.DecisionConstraintEvaluation:
			summaries := violationKinds(ev)
			for _, kind := range summaries {
				analysis.ViolationCounts[kind]++
			}
			evalDepths = append(evalDepths, float64(ev.Depth))
			evalViolations = append(evalViolations, float64(len(summaries)))
		}
	}

	analysis.MostCommonDecision = mostCommonDecision(analysis.EventCounts)
	analysis.MostCommonViolation = mostCommonViolation(analysis.ViolationCounts)
	analysis.DeadEndRate = float64(deadEnds) / float64(len(events))

	if len(branchFactors) > 0 {
		if mean, err := stats.Mean(branchFactors); err == nil {
			analysis.AverageBranchFactor = mean
		}
		if median, err := stats.Median(branchFactors); err == nil {
			analysis.MedianBranchFactor = median
		}
	}
	analysis.MeanDepth, analysis.DepthStdDev = stat.MeanStdDev(depths, nil)
	if len(depths) < 2 {
		analysis.DepthStdDev = 0
	}
	if len(evalDepths) >= 2 {
		// zero-variance series make the correlation undefined; NaN is not
		// JSON-encodable and must never leave this package
		if corr := stat.Correlation(evalDepths, evalViolations, nil); !math.IsNaN(corr) {
			analysis.DepthViolationCorr = corr
		}
	}
	return analysis
}

// violationKinds extracts constraint ids from an evaluation event's
// violation summaries ("id[severity]: message")
func violationKinds(ev ports.DecisionEvent) []string {
	raw, ok := ev.Inputs["violations"].([]string)
	if !ok {
		return nil
	}
	var out []string
	for _, summary := range raw {
		if i := strings.Index(summary, "["); i > 0 {
			out = append(out, summary[:i])
		}
	}
	return out
}

func mostCommonDecision(counts map[ports.DecisionType]int) ports.DecisionType {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	var best ports.DecisionType
	bestCount := -1
	for _, k := range keys {
		if counts[ports.DecisionType(k)] > bestCount {
			best = ports.DecisionType(k)
			bestCount = counts[ports.DecisionType(k)]
		}
	}
	return best
}

func mostCommonViolation(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := ""
	bestCount := -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
