package app

import (
	"fmt"

	"sheetmark/domain/grade"

	"github.com/montanaflynn/stats"
)

// CohortSummary describes how a class performed across a batch of graded
// submissions. All figures are percentages.
type CohortSummary struct {
	Count   int
	Mean    float64
	Median  float64
	StdDev  float64
	Min     float64
	Max     float64
	Q1      float64
	Q3      float64
	PassPct float64 // share of submissions at or above PassMark
}

// PassMark is the percentage threshold counted as a pass in the cohort
// summary.
const PassMark = 50.0

// BuildCohortSummary computes descriptive statistics over the
// percentages of a set of evaluation results.
func BuildCohortSummary(results []grade.EvaluationResult) (CohortSummary, error) {
	if len(results) == 0 {
		return CohortSummary{}, fmt.Errorf("no results to summarize")
	}

	percentages := make([]float64, 0, len(results))
	passed := 0
	for _, r := range results {
		percentages = append(percentages, r.Percentage)
		if r.Percentage >= PassMark {
			passed++
		}
	}

	summary := CohortSummary{
		Count:   len(results),
		PassPct: float64(passed) / float64(len(results)) * 100,
	}

	var err error
	if summary.Mean, err = stats.Mean(percentages); err != nil {
		return CohortSummary{}, err
	}
	if summary.Median, err = stats.Median(percentages); err != nil {
		return CohortSummary{}, err
	}
	if summary.StdDev, err = stats.StandardDeviation(percentages); err != nil {
		return CohortSummary{}, err
	}
	if summary.Min, err = stats.Min(percentages); err != nil {
		return CohortSummary{}, err
	}
	if summary.Max, err = stats.Max(percentages); err != nil {
		return CohortSummary{}, err
	}

	quartiles, err := stats.Quartile(percentages)
	if err != nil {
		return CohortSummary{}, err
	}
	summary.Q1 = quartiles.Q1
	summary.Q3 = quartiles.Q3
	return summary, nil
}

// String renders the cohort summary as a teacher-facing block
func (c CohortSummary) String() string {
	return fmt.Sprintf(
		"Submissions: %d\nMean: %.1f%%\nMedian: %.1f%%\nStd Dev: %.1f\nRange: %.1f%% - %.1f%%\nIQR: %.1f%% - %.1f%%\nPass rate: %.1f%%",
		c.Count, c.Mean, c.Median, c.StdDev, c.Min, c.Max, c.Q1, c.Q3, c.PassPct)
}
