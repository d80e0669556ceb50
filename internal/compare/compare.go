// Package compare holds the pure cell-comparison functions: formula
// normalization, structural pattern matching, and tolerance-based value
// comparison. Everything here is total: no input pair may panic.
package compare

import (
	"math"
	"regexp"
	"strings"

	"sheetmark/domain/grade"
)

// Tolerance is the relative error margin for numeric comparison.
// When the expected value is exactly zero it acts as an absolute margin.
const Tolerance = 0.01

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeFormula prepares a formula string for pattern matching:
// strip a leading "=", uppercase, drop all whitespace. Idempotent.
func NormalizeFormula(formula string) string {
	f := strings.TrimSpace(formula)
	f = strings.TrimPrefix(f, "=")
	f = strings.ToUpper(f)
	return whitespace.ReplaceAllString(f, "")
}

// MatchesPattern tests a formula against an expected structural pattern.
// The pattern describes required function names and argument shapes, not
// full formula syntax. Absence of either side yields false, as does a
// pattern that fails to compile.
func MatchesPattern(formula, pattern string) bool {
	if formula == "" || pattern == "" {
		return false
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false
	}
	return re.MatchString(NormalizeFormula(formula))
}

// ValuesMatch compares a student's computed value to the expected one.
// Numeric pairs match within Tolerance relative error (absolute when the
// expected value is zero). Text matches case-insensitively with
// surrounding whitespace trimmed. Mixed kinds fall back to a
// case-insensitive comparison of their string forms.
func ValuesMatch(student, expected grade.CellValue) bool {
	if student.IsAbsent() && expected.IsAbsent() {
		return true
	}
	if student.IsAbsent() || expected.IsAbsent() {
		return false
	}

	if student.Kind == grade.KindText && expected.Kind == grade.KindText {
		return foldText(student.Text) == foldText(expected.Text)
	}

	sNum, sOK := student.AsNumber()
	eNum, eOK := expected.AsNumber()
	if sOK && eOK {
		return numbersMatch(sNum, eNum)
	}

	return foldText(student.String()) == foldText(expected.String())
}

func numbersMatch(student, expected float64) bool {
	if expected == 0 {
		return math.Abs(student) < Tolerance
	}
	return math.Abs(student-expected)/math.Abs(expected) < Tolerance
}

func foldText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
