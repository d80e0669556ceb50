package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellEvaluationCorrectness(t *testing.T) {
	tests := []struct {
		name      string
		formula   bool
		value     bool
		correct   bool
		partially bool
	}{
		{"both pass", true, true, true, true},
		{"formula only", true, false, false, true},
		{"value only", false, true, false, true},
		{"both fail", false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CellEvaluation{FormulaCorrect: tt.formula, ValueCorrect: tt.value}
			assert.Equal(t, tt.correct, c.Correct())
			assert.Equal(t, tt.partially, c.PartiallyCorrect())
		})
	}
}

func TestQuestionResultMarker(t *testing.T) {
	assert.Equal(t, "✓", QuestionResult{Total: 2, Awarded: 2}.Marker())
	assert.Equal(t, "△", QuestionResult{Total: 2, Awarded: 1}.Marker())
	assert.Equal(t, "△", QuestionResult{Total: 2, Awarded: 0.5}.Marker())
	assert.Equal(t, "✗", QuestionResult{Total: 2, Awarded: 0}.Marker())
}

func TestEvaluationResultToMap(t *testing.T) {
	r := EvaluationResult{
		ID:          "eval-1",
		StudentName: "John Smith",
		StudentFile: "SALES_ANALYSIS_John_Smith_12345.xlsx",
		Total:       15,
		Awarded:     12.5,
		Percentage:  83.33333333333334,
		Summary:     "Student: John Smith",
		Questions: []QuestionResult{
			{
				QuestionNum: 1,
				Description: "Totals",
				Total:       1,
				Awarded:     1,
				Feedback:    "12/12 cells correct.",
				Cells: []CellEvaluation{
					{CellRef: "G4", FormulaCorrect: true, ValueCorrect: true, Feedback: "Correct!"},
				},
			},
		},
	}

	m := r.ToMap()
	assert.Equal(t, "eval-1", m["id"])
	assert.Equal(t, "John Smith", m["student_name"])
	assert.Equal(t, 15.0, m["total_marks"])
	assert.Equal(t, 12.5, m["marks_awarded"])

	questions, ok := m["questions"].([]map[string]any)
	assert.True(t, ok)
	assert.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0]["question_num"])
	assert.Equal(t, "12/12 cells correct.", questions[0]["feedback"])

	cells, ok := questions[0]["cells"].([]map[string]any)
	assert.True(t, ok)
	assert.Len(t, cells, 1)
	assert.Equal(t, "G4", cells[0]["cell_ref"])
	assert.Equal(t, true, cells[0]["formula_correct"])
}

func TestCellValueString(t *testing.T) {
	assert.Equal(t, "", Absent().String())
	assert.Equal(t, "42", NumberValue(42).String())
	assert.Equal(t, "3.5", NumberValue(3.5).String())
	assert.Equal(t, "Exceed", TextValue("Exceed").String())
	assert.Equal(t, "TRUE", BoolValue(true).String())
	assert.Equal(t, "FALSE", BoolValue(false).String())
	assert.Equal(t, "unknown(bogus)", CellValue{Kind: "bogus"}.String())
}

func TestCellValueAsNumber(t *testing.T) {
	n, ok := NumberValue(7.25).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 7.25, n)

	n, ok = TextValue(" 1200 ").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 1200.0, n)

	_, ok = TextValue("Exceed").AsNumber()
	assert.False(t, ok)

	_, ok = Absent().AsNumber()
	assert.False(t, ok)

	_, ok = BoolValue(true).AsNumber()
	assert.False(t, ok)
}
