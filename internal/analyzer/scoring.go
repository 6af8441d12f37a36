package analyzer

import (
	"github.com/ludo-technologies/tscan/internal/constants"
)

// ScoreCalculator turns rule violations into testability scores
type ScoreCalculator struct {
	baseline int
}

// NewScoreCalculator creates a calculator starting every function at the
// baseline score
func NewScoreCalculator() *ScoreCalculator {
	return &ScoreCalculator{baseline: constants.BaselineScore}
}

// Baseline returns the score a violation-free function receives
func (s *ScoreCalculator) Baseline() int {
	return s.baseline
}

// CalculateFinalScore subtracts the violation penalties from the baseline,
// never dropping below zero
func (s *ScoreCalculator) CalculateFinalScore(violations []Violation) int {
	total := 0
	for _, v := range violations {
		total += v.PointsDeducted
	}
	score := s.baseline - total
	if score < constants.MinScore {
		return constants.MinScore
	}
	return score
}

// AggregateFileScore returns the worst of the given scores. A file with
// nothing to score gets the baseline.
func (s *ScoreCalculator) AggregateFileScore(scores []int) int {
	if len(scores) == 0 {
		return s.baseline
	}
	min := scores[0]
	for _, score := range scores[1:] {
		if score < min {
			min = score
		}
	}
	return min
}

// CountRedFlags returns how many of the violations are red flags
func (s *ScoreCalculator) CountRedFlags(violations []Violation) int {
	count := 0
	for _, v := range violations {
		if v.IsRedFlag {
			count++
		}
	}
	return count
}

// RuleBreakdown summarizes the violations of a single rule
type RuleBreakdown struct {
	Count       int                  `json:"count" yaml:"count"`
	TotalPoints int                  `json:"total_points" yaml:"total_points"`
	Violations  []ViolationBreakdown `json:"violations" yaml:"violations"`
}

// ViolationBreakdown is a single violation as it appears in a score breakdown
type ViolationBreakdown struct {
	Line        int    `json:"line" yaml:"line"`
	Function    string `json:"function" yaml:"function"`
	Description string `json:"description" yaml:"description"`
	Points      int    `json:"points" yaml:"points"`
}

// ScoreBreakdown explains how a final score was reached
type ScoreBreakdown struct {
	Baseline         int                      `json:"baseline" yaml:"baseline"`
	TotalDeductions  int                      `json:"total_deductions" yaml:"total_deductions"`
	ViolationsByRule map[string]RuleBreakdown `json:"violations_by_rule" yaml:"violations_by_rule"`
	RedFlagCount     int                      `json:"red_flag_count" yaml:"red_flag_count"`
	FinalScore       int                      `json:"final_score" yaml:"final_score"`
}

// GetScoreBreakdown builds a per-rule account of the deductions behind the
// final score
func (s *ScoreCalculator) GetScoreBreakdown(violations []Violation) *ScoreBreakdown {
	byRule := make(map[string]RuleBreakdown)
	totalDeductions := 0

	for _, v := range violations {
		entry := byRule[v.RuleName]
		entry.Count++
		entry.TotalPoints += v.PointsDeducted
		entry.Violations = append(entry.Violations, ViolationBreakdown{
			Line:        v.LineNumber,
			Function:    v.FunctionName,
			Description: v.Description,
			Points:      v.PointsDeducted,
		})
		byRule[v.RuleName] = entry
		totalDeductions += v.PointsDeducted
	}

	return &ScoreBreakdown{
		Baseline:         s.baseline,
		TotalDeductions:  totalDeductions,
		ViolationsByRule: byRule,
		RedFlagCount:     s.CountRedFlags(violations),
		FinalScore:       s.CalculateFinalScore(violations),
	}
}
