package marker

import (
	"strings"
	"testing"

	"sheetmark/domain/grade"
	"sheetmark/domain/scheme"
	"sheetmark/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorkbook is an in-memory ports.Workbook for scorer tests
type fakeWorkbook struct {
	formulas map[string]string
	values   map[string]grade.CellValue
	findings ports.FormattingFindings
}

func (f *fakeWorkbook) FormulaAt(ref string) string {
	return f.formulas[ref]
}

func (f *fakeWorkbook) ValueAt(ref string) grade.CellValue {
	if v, ok := f.values[ref]; ok {
		return v
	}
	return grade.Absent()
}

func (f *fakeWorkbook) InspectFormatting(scheme.FormattingSpec) ports.FormattingFindings {
	return f.findings
}

func newFake() *fakeWorkbook {
	return &fakeWorkbook{
		formulas: make(map[string]string),
		values:   make(map[string]grade.CellValue),
	}
}

func (f *fakeWorkbook) set(ref, formula string, value grade.CellValue) *fakeWorkbook {
	if formula != "" {
		f.formulas[ref] = formula
	}
	f.values[ref] = value
	return f
}

func sumRule(cells ...string) scheme.QuestionRule {
	return scheme.QuestionRule{
		Num:         1,
		Description: "totals",
		Marks:       1,
		Cells:       cells,
		Category:    scheme.CategorySum,
		Pattern:     `SUM\([C-F]\d+:[C-F]\d+\)`,
		Policy:      scheme.PolicyAllOrNothing,
	}
}

func TestEvaluateCellCorrect(t *testing.T) {
	answer := newFake().set("G4", "=SUM(C4:F4)", grade.NumberValue(1000))
	student := newFake().set("G4", "=sum(c4:f4)", grade.NumberValue(1000))

	ev := evaluateCell(sumRule("G4"), "G4", answer, student)

	assert.True(t, ev.FormulaCorrect)
	assert.True(t, ev.ValueCorrect)
	assert.Equal(t, "Correct!", ev.Feedback)
}

func TestEvaluateCellNoFormula(t *testing.T) {
	answer := newFake().set("G4", "=SUM(C4:F4)", grade.NumberValue(1000))
	student := newFake().set("G4", "", grade.NumberValue(1000))

	ev := evaluateCell(sumRule("G4"), "G4", answer, student)

	assert.False(t, ev.FormulaCorrect)
	assert.True(t, ev.ValueCorrect)
	assert.Contains(t, ev.Feedback, "No formula entered")
}

func TestEvaluateCellValueIncorrect(t *testing.T) {
	answer := newFake().set("G4", "=SUM(C4:F4)", grade.NumberValue(1000))
	student := newFake().set("G4", "=SUM(C4:F4)", grade.NumberValue(900))

	ev := evaluateCell(sumRule("G4"), "G4", answer, student)

	assert.True(t, ev.FormulaCorrect)
	assert.False(t, ev.ValueCorrect)
	assert.Contains(t, ev.Feedback, "Value incorrect. Expected: 1000, Got: 900")
}

func TestEvaluateCellAbsentValueLabel(t *testing.T) {
	answer := newFake().set("G4", "=SUM(C4:F4)", grade.NumberValue(1000))
	student := newFake()

	ev := evaluateCell(sumRule("G4"), "G4", answer, student)

	assert.Contains(t, ev.Feedback, "Got: (none)")
}

func TestScoreAllOrNothing(t *testing.T) {
	rule := sumRule("G4", "G5")
	answer := newFake().
		set("G4", "=SUM(C4:F4)", grade.NumberValue(100)).
		set("G5", "=SUM(C5:F5)", grade.NumberValue(200))

	t.Run("all correct earns full marks", func(t *testing.T) {
		student := newFake().
			set("G4", "=SUM(C4:F4)", grade.NumberValue(100)).
			set("G5", "=SUM(C5:F5)", grade.NumberValue(200))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 1.0, q.Awarded)
	})

	t.Run("one wrong cell drops to half marks", func(t *testing.T) {
		student := newFake().
			set("G4", "=SUM(C4:F4)", grade.NumberValue(100)).
			set("G5", "=C5+D5", grade.NumberValue(999))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 0.5, q.Awarded)
	})

	t.Run("value-only correctness still earns half", func(t *testing.T) {
		student := newFake().
			set("G4", "=C4+D4+E4+F4", grade.NumberValue(100)).
			set("G5", "=C5+D5+E5+F5", grade.NumberValue(200))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 0.5, q.Awarded)
	})

	t.Run("nothing right earns zero", func(t *testing.T) {
		student := newFake().
			set("G4", "=AVERAGE(C4:F4)", grade.NumberValue(25)).
			set("G5", "=AVERAGE(C5:F5)", grade.NumberValue(50))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 0.0, q.Awarded)
	})
}

func TestScoreLookupSplit(t *testing.T) {
	rule := scheme.QuestionRule{
		Num:         2,
		Description: "commission",
		Marks:       2,
		Cells:       []string{"H4", "H5"},
		Category:    scheme.CategoryLookup,
		Pattern:     `VLOOKUP\(.*\)\.*`,
		Policy:      scheme.PolicyLookupSplit,
	}
	answer := newFake().
		set("H4", "=VLOOKUP(G4,$A$20:$C$24,3,TRUE)*G4", grade.NumberValue(50)).
		set("H5", "=VLOOKUP(G5,$A$20:$C$24,3,TRUE)*G5", grade.NumberValue(60))

	t.Run("lookup without multiply earns one of two", func(t *testing.T) {
		student := newFake().
			set("H4", "=VLOOKUP(G4,$A$20:$C$24,3,TRUE)", grade.NumberValue(0.05)).
			set("H5", "=VLOOKUP(G5,$A$20:$C$24,3,TRUE)", grade.NumberValue(0.05))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 1.0, q.Awarded)
	})

	t.Run("lookup with multiply and correct values earns both", func(t *testing.T) {
		student := newFake().
			set("H4", "=VLOOKUP(G4,$A$20:$C$24,3,TRUE)*G4", grade.NumberValue(50)).
			set("H5", "=VLOOKUP(G5,$A$20:$C$24,3,TRUE)*G5", grade.NumberValue(60))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 2.0, q.Awarded)
	})

	t.Run("no lookup anywhere earns zero", func(t *testing.T) {
		student := newFake().
			set("H4", "=G4*0.05", grade.NumberValue(999)).
			set("H5", "=G5*0.05", grade.NumberValue(999))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 0.0, q.Awarded)
	})
}

func TestScoreConditionalSplit(t *testing.T) {
	rule := scheme.QuestionRule{
		Num:         3,
		Description: "status",
		Marks:       2,
		Cells:       []string{"J4", "J5", "J6", "J7"},
		Category:    scheme.CategoryConditional,
		Pattern:     `IF\(.*\)`,
		Policy:      scheme.PolicyConditionalSplit,
	}
	answer := newFake().
		set("J4", `=IF(G4>I4,"Exceed","Miss")`, grade.TextValue("Exceed")).
		set("J5", `=IF(G5>I5,"Exceed","Miss")`, grade.TextValue("Miss")).
		set("J6", `=IF(G6>I6,"Exceed","Miss")`, grade.TextValue("Exceed")).
		set("J7", `=IF(G7>I7,"Exceed","Miss")`, grade.TextValue("Miss"))

	t.Run("all values correct earns both marks", func(t *testing.T) {
		q := scoreQuestion(rule, answer, answer)
		assert.Equal(t, 2.0, q.Awarded)
	})

	t.Run("majority correct earns one and a half", func(t *testing.T) {
		student := newFake().
			set("J4", `=IF(G4>I4,"Exceed","Miss")`, grade.TextValue("Exceed")).
			set("J5", `=IF(G5>I5,"Exceed","Miss")`, grade.TextValue("Miss")).
			set("J6", `=IF(G6>I6,"Exceed","Miss")`, grade.TextValue("Exceed")).
			set("J7", `=IF(G7>I7,"Exceed","Miss")`, grade.TextValue("Exceed"))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 1.5, q.Awarded)
	})

	t.Run("typed constants without IF earn nothing", func(t *testing.T) {
		student := newFake().
			set("J4", "", grade.TextValue("Miss")).
			set("J5", "", grade.TextValue("Exceed")).
			set("J6", "", grade.TextValue("Miss")).
			set("J7", "", grade.TextValue("Exceed"))
		q := scoreQuestion(rule, answer, student)
		assert.Equal(t, 0.0, q.Awarded)
	})
}

func TestScorePerCellSum(t *testing.T) {
	rule := scheme.QuestionRule{
		Num:         5,
		Description: "departmental totals",
		Marks:       4,
		Cells:       []string{"I19", "I20", "I21", "I22"},
		Category:    scheme.CategoryAggregate,
		Pattern:     `SUMIF\(.*\)`,
		Policy:      scheme.PolicyPerCellSum,
	}
	answer := newFake().
		set("I19", "=SUMIF($B$4:$B$15,H19,$G$4:$G$15)", grade.NumberValue(100)).
		set("I20", "=SUMIF($B$4:$B$15,H20,$G$4:$G$15)", grade.NumberValue(200)).
		set("I21", "=SUMIF($B$4:$B$15,H21,$G$4:$G$15)", grade.NumberValue(300)).
		set("I22", "=SUMIF($B$4:$B$15,H22,$G$4:$G$15)", grade.NumberValue(400))

	student := newFake().
		set("I19", "=SUMIF($B$4:$B$15,H19,$G$4:$G$15)", grade.NumberValue(100)).
		set("I20", "=SUMIF($B$4:$B$15,H20,$G$4:$G$15)", grade.NumberValue(999)).
		set("I21", "", grade.NumberValue(300)).
		set("I22", "", grade.NumberValue(999))

	q := scoreQuestion(rule, answer, student)
	// I19 fully correct, I20 formula only, I21 value only, I22 nothing.
	assert.Equal(t, 3.0, q.Awarded)
}

func TestScoreFormatting(t *testing.T) {
	rule := scheme.QuestionRule{
		Num:         4,
		Description: "red fill for misses",
		Marks:       3,
		Category:    scheme.CategoryFormatting,
		Policy:      scheme.PolicyFormatting,
		Formatting: &scheme.FormattingSpec{
			Range:          "A4:J15",
			ConditionTerms: []string{"MISS"},
			TargetColumn:   "J",
			Fill:           scheme.DefaultRedFill(),
		},
	}

	t.Run("all three checks pass", func(t *testing.T) {
		student := newFake()
		student.findings = ports.FormattingFindings{RangeMatch: true, ConditionMatch: true, FillMatch: true}
		q := scoreQuestion(rule, newFake(), student)
		assert.Equal(t, 3.0, q.Awarded)
		assert.Contains(t, q.Feedback, "✓ Correct range applied.")
	})

	t.Run("condition check fails", func(t *testing.T) {
		student := newFake()
		student.findings = ports.FormattingFindings{RangeMatch: true, FillMatch: true}
		q := scoreQuestion(rule, newFake(), student)
		assert.Equal(t, 2.0, q.Awarded)
		assert.Contains(t, q.Feedback, "✗ Formula should check if column J = 'Miss'.")
	})

	t.Run("no rule at all", func(t *testing.T) {
		q := scoreQuestion(rule, newFake(), newFake())
		assert.Equal(t, 0.0, q.Awarded)
		assert.Contains(t, q.Feedback, "✗ Range should cover A4:J15.")
		assert.Contains(t, q.Feedback, "✗ Fill color should be red.")
	})
}

func TestComposeFeedback(t *testing.T) {
	correct := grade.CellEvaluation{CellRef: "G4", FormulaCorrect: true, ValueCorrect: true}

	t.Run("all correct", func(t *testing.T) {
		got := composeFeedback([]grade.CellEvaluation{correct, correct})
		assert.Equal(t, "2/2 cells correct.", got)
	})

	t.Run("few wrong cells listed in full", func(t *testing.T) {
		wrong := grade.CellEvaluation{CellRef: "G5", Feedback: "No formula entered"}
		got := composeFeedback([]grade.CellEvaluation{correct, wrong})
		assert.Equal(t, "1/2 cells correct. G5: No formula entered", got)
	})

	t.Run("many wrong cells collapse to references", func(t *testing.T) {
		cells := []grade.CellEvaluation{correct}
		for _, ref := range []string{"G5", "G6", "G7", "G8", "G9", "G10"} {
			cells = append(cells, grade.CellEvaluation{CellRef: ref, Feedback: "No formula entered"})
		}
		got := composeFeedback(cells)
		assert.Equal(t, "1/7 cells correct. Check cells: G5, G6, G7, G8, G9", got)
	})
}

func TestMarkerEvaluate(t *testing.T) {
	s := scheme.MarkScheme{
		ID:   "test",
		Name: "TEST",
		Questions: []scheme.QuestionRule{
			sumRule("G4"),
			{
				Num:         2,
				Description: "difference",
				Marks:       1,
				Cells:       []string{"I25"},
				Category:    scheme.CategoryArithmetic,
				Pattern:     `I24-I23`,
				Policy:      scheme.PolicyAllOrNothing,
			},
		},
	}
	answer := newFake().
		set("G4", "=SUM(C4:F4)", grade.NumberValue(100)).
		set("I25", "=I24-I23", grade.NumberValue(50))
	student := newFake().
		set("G4", "=SUM(C4:F4)", grade.NumberValue(100)).
		set("I25", "", grade.NumberValue(999))

	result := New(s).Evaluate(answer, student, "Jane Doe", "test.xlsx")

	require.Len(t, result.Questions, 2)
	assert.Equal(t, "Jane Doe", result.StudentName)
	assert.Equal(t, 2.0, result.Total)
	assert.Equal(t, 1.0, result.Awarded)
	assert.Equal(t, 50.0, result.Percentage)
	assert.False(t, result.ID.String() == "")
	assert.False(t, result.CompletedAt.IsZero())

	assert.Contains(t, result.Summary, "Student: Jane Doe")
	assert.Contains(t, result.Summary, "Total Score: 1/2 (50.0%)")
	assert.Contains(t, result.Summary, "Q1: 1/1 ✓")
	assert.Contains(t, result.Summary, "Q2: 0/1 ✗")
}

func TestMarkerEvaluateEmptyScheme(t *testing.T) {
	result := New(scheme.MarkScheme{ID: "empty", Name: "EMPTY"}).
		Evaluate(newFake(), newFake(), "Jane Doe", "test.xlsx")

	assert.Equal(t, 0.0, result.Total)
	assert.Equal(t, 0.0, result.Awarded)
	assert.Equal(t, 0.0, result.Percentage)
	assert.Empty(t, result.Questions)
}

func TestExtractStudentName(t *testing.T) {
	m := New(scheme.MarkScheme{
		Name:        "SALES_ANALYSIS",
		NamePattern: `(?i)SALES_ANALYSIS_(.+?)_\d+`,
	})

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"pattern match", "SALES_ANALYSIS_John_Smith_12345.xlsx", "John Smith"},
		{"pattern match lowercase", "sales_analysis_jane_doe_99.xlsx", "Jane Doe"},
		{"prefix strip without trailing id", "SALES_ANALYSIS_Maria.xlsx", "Maria"},
		{"plain filename", "john_smith.xlsx", "John Smith"},
		{"path is ignored", "/submissions/SALES_ANALYSIS_John_Smith_12345.xlsx", "John Smith"},
		{"nothing left", ".xlsx", UnknownStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ExtractStudentName(tt.filename))
		})
	}
}

func TestFormatMarks(t *testing.T) {
	assert.Equal(t, "15", FormatMarks(15))
	assert.Equal(t, "14.5", FormatMarks(14.5))
	assert.Equal(t, "0.5", FormatMarks(0.5))
	assert.Equal(t, "0", FormatMarks(0))
}

func TestClampMarks(t *testing.T) {
	assert.Equal(t, 2.0, clampMarks(3, 2))
	assert.Equal(t, 0.0, clampMarks(-1, 2))
	assert.Equal(t, 1.5, clampMarks(1.5, 2))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "John Smith", titleCase("john smith"))
	assert.Equal(t, "John Smith", titleCase("JOHN SMITH"))
	assert.Equal(t, "", titleCase(""))
	assert.False(t, strings.Contains(titleCase("a  b"), "  "))
}
