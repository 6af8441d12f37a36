package analyzer

import (
	"testing"
)

func TestCalculateFinalScore(t *testing.T) {
	calc := NewScoreCalculator()

	t.Run("no violations keeps baseline", func(t *testing.T) {
		if got := calc.CalculateFinalScore(nil); got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})

	t.Run("deductions are summed", func(t *testing.T) {
		violations := []Violation{
			{RuleName: "Direct File I/O in Logic", PointsDeducted: 10},
			{RuleName: "Excessive Parameter Count", PointsDeducted: 5},
		}
		if got := calc.CalculateFinalScore(violations); got != 85 {
			t.Errorf("expected 85, got %d", got)
		}
	})

	t.Run("score is floored at zero", func(t *testing.T) {
		violations := []Violation{
			{RuleName: "Constructor Side Effects", PointsDeducted: 60},
			{RuleName: "Global State Mutation", PointsDeducted: 60},
		}
		if got := calc.CalculateFinalScore(violations); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})
}

func TestAggregateFileScore(t *testing.T) {
	calc := NewScoreCalculator()

	t.Run("worst score wins", func(t *testing.T) {
		if got := calc.AggregateFileScore([]int{100, 40, 85}); got != 40 {
			t.Errorf("expected 40, got %d", got)
		}
	})

	t.Run("nothing to score keeps baseline", func(t *testing.T) {
		if got := calc.AggregateFileScore(nil); got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})
}

func TestCountRedFlags(t *testing.T) {
	calc := NewScoreCalculator()
	violations := []Violation{
		{RuleName: "Global State Mutation", PointsDeducted: 10, IsRedFlag: true},
		{RuleName: "Excessive Parameter Count", PointsDeducted: 5},
		{RuleName: "Mixed I/O and Logic", PointsDeducted: 8, IsRedFlag: true},
	}
	if got := calc.CountRedFlags(violations); got != 2 {
		t.Errorf("expected 2 red flags, got %d", got)
	}
}

func TestGetScoreBreakdown(t *testing.T) {
	calc := NewScoreCalculator()
	violations := []Violation{
		{
			RuleName:       "Direct File I/O in Logic",
			Description:    "Direct file I/O in business logic",
			PointsDeducted: 10,
			LineNumber:     3,
			FunctionName:   "load",
		},
		{
			RuleName:       "Direct File I/O in Logic",
			Description:    "Direct file I/O in business logic",
			PointsDeducted: 10,
			LineNumber:     9,
			FunctionName:   "store",
		},
		{
			RuleName:       "Global State Mutation",
			Description:    "Global state mutation makes testing unpredictable",
			PointsDeducted: 10,
			LineNumber:     14,
			FunctionName:   "bump",
			IsRedFlag:      true,
		},
	}

	breakdown := calc.GetScoreBreakdown(violations)

	if breakdown.Baseline != 100 {
		t.Errorf("expected baseline 100, got %d", breakdown.Baseline)
	}
	if breakdown.TotalDeductions != 30 {
		t.Errorf("expected 30 total deductions, got %d", breakdown.TotalDeductions)
	}
	if breakdown.FinalScore != 70 {
		t.Errorf("expected final score 70, got %d", breakdown.FinalScore)
	}
	if breakdown.RedFlagCount != 1 {
		t.Errorf("expected 1 red flag, got %d", breakdown.RedFlagCount)
	}

	fileIO, ok := breakdown.ViolationsByRule["Direct File I/O in Logic"]
	if !ok {
		t.Fatal("missing file I/O rule entry")
	}
	if fileIO.Count != 2 || fileIO.TotalPoints != 20 {
		t.Errorf("expected count 2 and 20 points, got %d and %d", fileIO.Count, fileIO.TotalPoints)
	}
	if len(fileIO.Violations) != 2 {
		t.Fatalf("expected 2 violation entries, got %d", len(fileIO.Violations))
	}
	first := fileIO.Violations[0]
	if first.Line != 3 || first.Function != "load" || first.Points != 10 {
		t.Errorf("unexpected first entry: %+v", first)
	}
}
