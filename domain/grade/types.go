package grade

import (
	"time"

	"sheetmark/domain/core"
)

// CellEvaluation records the comparison outcome for one target cell.
// Created once per evaluation run and never mutated afterwards.
type CellEvaluation struct {
	CellRef         string
	StudentFormula  string // raw formula text, empty when none entered
	ExpectedFormula string
	StudentValue    CellValue
	ExpectedValue   CellValue
	FormulaCorrect  bool
	ValueCorrect    bool
	Feedback        string
}

// Correct reports whether the cell passed both checks
func (c CellEvaluation) Correct() bool {
	return c.FormulaCorrect && c.ValueCorrect
}

// PartiallyCorrect reports whether the cell passed at least one check
func (c CellEvaluation) PartiallyCorrect() bool {
	return c.FormulaCorrect || c.ValueCorrect
}

// QuestionResult aggregates the cell evaluations for one question.
// Invariant: 0 <= Awarded <= Total; halves are a legal award.
type QuestionResult struct {
	QuestionNum int
	Description string
	Total       float64
	Awarded     float64
	Cells       []CellEvaluation // empty for formatting-only questions
	Feedback    string
}

// FullyCorrect reports whether the question earned every available mark
func (q QuestionResult) FullyCorrect() bool {
	return q.Awarded == q.Total
}

// Marker returns the tri-state breakdown marker for this question
func (q QuestionResult) Marker() string {
	switch {
	case q.FullyCorrect():
		return "✓"
	case q.Awarded > 0:
		return "△"
	default:
		return "✗"
	}
}

// EvaluationResult is the complete outcome of grading one submission
// against one answer key. Constructed once per run, then passed by value
// to renderers; never mutated after the evaluation pass completes.
type EvaluationResult struct {
	ID          core.EvaluationID
	StudentName string
	StudentFile string
	Total       float64
	Awarded     float64
	Percentage  float64
	Questions   []QuestionResult
	Summary     string
	CompletedAt time.Time
}

// ToMap converts the result to a plain key/value structure suitable for
// JSON transport or persistence by a collaborator.
func (r EvaluationResult) ToMap() map[string]any {
	questions := make([]map[string]any, 0, len(r.Questions))
	for _, q := range r.Questions {
		cells := make([]map[string]any, 0, len(q.Cells))
		for _, c := range q.Cells {
			cells = append(cells, map[string]any{
				"cell_ref":        c.CellRef,
				"feedback":        c.Feedback,
				"formula_correct": c.FormulaCorrect,
				"value_correct":   c.ValueCorrect,
			})
		}
		questions = append(questions, map[string]any{
			"question_num":  q.QuestionNum,
			"description":   q.Description,
			"total_marks":   q.Total,
			"marks_awarded": q.Awarded,
			"feedback":      q.Feedback,
			"cells":         cells,
		})
	}
	return map[string]any{
		"id":            r.ID.String(),
		"student_name":  r.StudentName,
		"student_file":  r.StudentFile,
		"total_marks":   r.Total,
		"marks_awarded": r.Awarded,
		"percentage":    r.Percentage,
		"summary":       r.Summary,
		"questions":     questions,
	}
}
