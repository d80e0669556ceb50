package marker

import (
	"fmt"
	"strings"

	"sheetmark/domain/grade"
	"sheetmark/domain/scheme"
	"sheetmark/internal/compare"
	"sheetmark/ports"
)

const maxFlaggedCells = 5

// evaluateCell compares one target cell across the four workbook views.
// Per-cell faults (absent formula, absent value, unexpected type) degrade
// to failed matches with diagnostic feedback; they never abort the run.
func evaluateCell(rule scheme.QuestionRule, ref string, answer, student ports.Workbook) grade.CellEvaluation {
	ev := grade.CellEvaluation{
		CellRef:         ref,
		StudentFormula:  student.FormulaAt(ref),
		ExpectedFormula: answer.FormulaAt(ref),
		StudentValue:    student.ValueAt(ref),
		ExpectedValue:   answer.ValueAt(ref),
	}

	if rule.Pattern != "" && ev.StudentFormula != "" {
		ev.FormulaCorrect = compare.MatchesPattern(ev.StudentFormula, rule.Pattern)
	}
	ev.ValueCorrect = compare.ValuesMatch(ev.StudentValue, ev.ExpectedValue)

	var parts []string
	if ev.StudentFormula == "" {
		parts = append(parts, "No formula entered")
	} else if !ev.FormulaCorrect {
		parts = append(parts, fmt.Sprintf("Formula structure incorrect. Expected pattern using %s", rule.Category))
	}
	if !ev.ValueCorrect {
		parts = append(parts, fmt.Sprintf("Value incorrect. Expected: %s, Got: %s",
			valueLabel(ev.ExpectedValue), valueLabel(ev.StudentValue)))
	}
	if ev.FormulaCorrect && ev.ValueCorrect {
		parts = append(parts, "Correct!")
	}
	ev.Feedback = strings.Join(parts, " ")
	return ev
}

// scoreQuestion dispatches to the scoring policy named by the rule and
// returns the question-level result.
func scoreQuestion(rule scheme.QuestionRule, answer, student ports.Workbook) grade.QuestionResult {
	if rule.Policy == scheme.PolicyFormatting {
		return scoreFormatting(rule, student)
	}

	result := grade.QuestionResult{
		QuestionNum: rule.Num,
		Description: rule.Description,
		Total:       rule.Marks,
	}
	for _, ref := range rule.Cells {
		result.Cells = append(result.Cells, evaluateCell(rule, ref, answer, student))
	}

	switch rule.Policy {
	case scheme.PolicyAllOrNothing:
		result.Awarded = scoreAllOrNothing(rule, result.Cells)
	case scheme.PolicyLookupSplit:
		result.Awarded = scoreLookupSplit(rule, result.Cells)
	case scheme.PolicyConditionalSplit:
		result.Awarded = scoreConditionalSplit(rule, result.Cells)
	case scheme.PolicyPerCellSum:
		result.Awarded = scorePerCellSum(result.Cells)
	}
	result.Awarded = clampMarks(result.Awarded, rule.Marks)
	result.Feedback = composeFeedback(result.Cells)
	return result
}

// scoreAllOrNothing: full marks only when every cell passes both checks;
// half marks when at least one cell passes either check.
func scoreAllOrNothing(rule scheme.QuestionRule, cells []grade.CellEvaluation) float64 {
	strict, lenient := 0, 0
	for _, c := range cells {
		if c.Correct() {
			strict++
		}
		if c.PartiallyCorrect() {
			lenient++
		}
	}
	switch {
	case len(cells) > 0 && strict == len(cells):
		return rule.Marks
	case lenient > 0:
		return rule.Marks / 2
	default:
		return 0
	}
}

// scoreLookupSplit: one mark for using the lookup function anywhere, one
// more for also multiplying with more than half the values correct.
func scoreLookupSplit(rule scheme.QuestionRule, cells []grade.CellEvaluation) float64 {
	fn := rule.RequiredFunction()
	hasLookup := anyFormulaContains(cells, fn)
	hasMultiply := false
	valuesCorrect := 0
	for _, c := range cells {
		if strings.Contains(c.StudentFormula, "*") {
			hasMultiply = true
		}
		if c.ValueCorrect {
			valuesCorrect++
		}
	}

	var marks float64
	if hasLookup {
		marks++
	}
	if hasMultiply && valuesCorrect > len(cells)/2 {
		marks++
	}
	return marks
}

// scoreConditionalSplit: one mark for using the conditional function, a
// second mark when all values are correct, half of it when more than half
// are.
func scoreConditionalSplit(rule scheme.QuestionRule, cells []grade.CellEvaluation) float64 {
	fn := rule.RequiredFunction()
	hasConditional := anyFormulaContains(cells, fn+"(")
	valuesCorrect := 0
	for _, c := range cells {
		if c.ValueCorrect {
			valuesCorrect++
		}
	}

	var marks float64
	if hasConditional {
		marks++
	}
	switch {
	case len(cells) > 0 && valuesCorrect == len(cells):
		marks++
	case valuesCorrect > len(cells)/2:
		marks += 0.5
	}
	return marks
}

// scorePerCellSum: one mark per cell that passes either check,
// independent per cell.
func scorePerCellSum(cells []grade.CellEvaluation) float64 {
	var marks float64
	for _, c := range cells {
		if c.PartiallyCorrect() {
			marks++
		}
	}
	return marks
}

// scoreFormatting delegates entirely to the conditional-formatting
// inspector; one mark per satisfied check, capped at the rule total.
func scoreFormatting(rule scheme.QuestionRule, student ports.Workbook) grade.QuestionResult {
	result := grade.QuestionResult{
		QuestionNum: rule.Num,
		Description: rule.Description,
		Total:       rule.Marks,
	}
	spec := rule.Formatting
	if spec == nil {
		result.Feedback = "No formatting spec configured for this question."
		return result
	}

	findings := student.InspectFormatting(*spec)
	var marks float64
	var parts []string

	if findings.RangeMatch {
		marks++
		parts = append(parts, "✓ Correct range applied.")
	} else {
		parts = append(parts, fmt.Sprintf("✗ Range should cover %s.", spec.Range))
	}
	if findings.ConditionMatch {
		marks++
		parts = append(parts, fmt.Sprintf("✓ Condition formula correctly checks for %s.", conditionLabel(spec)))
	} else {
		parts = append(parts, fmt.Sprintf("✗ Formula should check if column %s = %s.", spec.TargetColumn, conditionLabel(spec)))
	}
	if findings.FillMatch {
		marks++
		parts = append(parts, "✓ Red background fill applied.")
	} else {
		parts = append(parts, "✗ Fill color should be red.")
	}

	result.Awarded = clampMarks(marks, rule.Marks)
	result.Feedback = strings.Join(parts, " ")
	return result
}

// composeFeedback builds the question-level feedback line: the correct
// count, then either every wrong cell (when three or fewer) or the first
// five wrong cell references.
func composeFeedback(cells []grade.CellEvaluation) string {
	correct := 0
	var wrong []grade.CellEvaluation
	for _, c := range cells {
		if c.Correct() {
			correct++
		} else {
			wrong = append(wrong, c)
		}
	}

	parts := []string{fmt.Sprintf("%d/%d cells correct.", correct, len(cells))}
	switch {
	case len(wrong) == 0:
	case len(wrong) <= 3:
		for _, c := range wrong {
			parts = append(parts, fmt.Sprintf("%s: %s", c.CellRef, c.Feedback))
		}
	default:
		refs := make([]string, 0, maxFlaggedCells)
		for _, c := range wrong[:min(len(wrong), maxFlaggedCells)] {
			refs = append(refs, c.CellRef)
		}
		parts = append(parts, fmt.Sprintf("Check cells: %s", strings.Join(refs, ", ")))
	}
	return strings.Join(parts, " ")
}

func anyFormulaContains(cells []grade.CellEvaluation, token string) bool {
	if token == "" {
		return false
	}
	for _, c := range cells {
		if strings.Contains(compare.NormalizeFormula(c.StudentFormula), token) {
			return true
		}
	}
	return false
}

func conditionLabel(spec *scheme.FormattingSpec) string {
	if len(spec.ConditionTerms) == 0 {
		return "the expected condition"
	}
	quoted := make([]string, 0, len(spec.ConditionTerms))
	for _, t := range spec.ConditionTerms {
		quoted = append(quoted, fmt.Sprintf("'%s'", titleCase(t)))
	}
	return strings.Join(quoted, " or ")
}

func clampMarks(awarded, total float64) float64 {
	if awarded < 0 {
		return 0
	}
	if awarded > total {
		return total
	}
	return awarded
}

func valueLabel(v grade.CellValue) string {
	if v.IsAbsent() {
		return "(none)"
	}
	return v.String()
}
