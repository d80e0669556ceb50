// Package report renders evaluation results into the engine's output
// artifacts: a plain-text report, a paginated document report, and (via
// the excel adapter) an annotated workbook. Rendering is decoupled from
// evaluation: every renderer works from an EvaluationResult alone and
// never re-grades.
package report

import (
	"fmt"
	"strings"

	"sheetmark/domain/grade"
	"sheetmark/internal/marker"
)

const (
	reportTitle  = "EXCEL EVALUATION REPORT"
	heavyRule    = "============================================================"
	lightRule    = "------------------------------------------------------------"
	maxCellLines = 5
)

// Text renders the plain-text feedback report: header, score line,
// per-question breakdown, detailed feedback, footer.
func Text(r grade.EvaluationResult) string {
	lines := []string{
		heavyRule,
		reportTitle,
		heavyRule,
		fmt.Sprintf("Student: %s", r.StudentName),
		fmt.Sprintf("Date: %s", r.CompletedAt.Format("2006-01-02 15:04:05")),
		"",
		fmt.Sprintf("TOTAL SCORE: %s/%s (%.1f%%)",
			marker.FormatMarks(r.Awarded), marker.FormatMarks(r.Total), r.Percentage),
		"",
		lightRule,
		"QUESTION BREAKDOWN",
		lightRule,
	}

	for _, q := range r.Questions {
		lines = append(lines, fmt.Sprintf("Q%d: %s/%s %s - %s",
			q.QuestionNum, marker.FormatMarks(q.Awarded), marker.FormatMarks(q.Total),
			q.Marker(), q.Description))
	}

	lines = append(lines, "", lightRule, "DETAILED FEEDBACK", lightRule)
	for _, q := range r.Questions {
		lines = append(lines,
			"",
			fmt.Sprintf("Question %d: %s", q.QuestionNum, q.Description),
			fmt.Sprintf("Marks: %s/%s", marker.FormatMarks(q.Awarded), marker.FormatMarks(q.Total)),
			fmt.Sprintf("Feedback: %s", q.Feedback),
		)
		for _, c := range flaggedCells(q) {
			lines = append(lines, fmt.Sprintf("  • %s: %s", c.CellRef, c.Feedback))
		}
	}

	lines = append(lines, "", heavyRule, "END OF REPORT", heavyRule)
	return strings.Join(lines, "\n")
}

// flaggedCells returns up to maxCellLines failing cells for a question
func flaggedCells(q grade.QuestionResult) []grade.CellEvaluation {
	var flagged []grade.CellEvaluation
	for _, c := range q.Cells {
		if len(flagged) == maxCellLines {
			break
		}
		if !c.Correct() {
			flagged = append(flagged, c)
		}
	}
	return flagged
}
