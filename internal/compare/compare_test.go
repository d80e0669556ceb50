package compare

import (
	"testing"

	"sheetmark/domain/grade"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFormula(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"strips leading equals", "=SUM(C4:F4)", "SUM(C4:F4)"},
		{"uppercases", "=sum(c4:f4)", "SUM(C4:F4)"},
		{"removes whitespace", "= SUM( C4 : F4 )", "SUM(C4:F4)"},
		{"handles tabs and newlines", "=SUM(\tC4:\nF4)", "SUM(C4:F4)"},
		{"empty stays empty", "", ""},
		{"bare equals", "=", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFormula(tt.formula))
		})
	}
}

func TestNormalizeFormulaIdempotent(t *testing.T) {
	inputs := []string{"=SUM(C4:F4)", "= vlookup(a1, b:c, 2)", "IF(G4>I4,\"Exceed\",\"Miss\")", ""}
	for _, in := range inputs {
		once := NormalizeFormula(in)
		assert.Equal(t, once, NormalizeFormula(once))
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		pattern string
		want    bool
	}{
		{"sum matches", "=SUM(C4:F4)", `SUM\([C-F]\d+:[C-F]\d+\)`, true},
		{"lowercase sum matches", "=sum(c4:f4)", `SUM\([C-F]\d+:[C-F]\d+\)`, true},
		{"average does not match sum", "=AVERAGE(C4:F4)", `SUM\([C-F]\d+:[C-F]\d+\)`, false},
		{"manual addition does not match", "=C4+D4+E4+F4", `SUM\([C-F]\d+:[C-F]\d+\)`, false},
		{"empty formula never matches", "", `SUM`, false},
		{"empty pattern never matches", "=SUM(C4:F4)", "", false},
		{"broken pattern never matches", "=SUM(C4:F4)", `SUM(`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPattern(tt.formula, tt.pattern))
		})
	}
}

func TestValuesMatchNumbers(t *testing.T) {
	tests := []struct {
		name     string
		student  float64
		expected float64
		want     bool
	}{
		{"exact", 1000, 1000, true},
		{"within half percent", 1005, 1000, true},
		{"just under one percent", 1009.9, 1000, true},
		{"at one percent fails", 1010, 1000, false},
		{"well outside", 1015, 1000, false},
		{"negative within", -1005, -1000, true},
		{"zero expected near zero student", 0.005, 0, true},
		{"zero expected far student", 0.5, 0, false},
		{"both zero", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValuesMatch(grade.NumberValue(tt.student), grade.NumberValue(tt.expected))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValuesMatchReflexive(t *testing.T) {
	values := []grade.CellValue{
		grade.NumberValue(42),
		grade.NumberValue(0),
		grade.TextValue("Exceed"),
		grade.BoolValue(true),
		grade.Absent(),
	}
	for _, v := range values {
		assert.True(t, ValuesMatch(v, v), "value %v should match itself", v)
	}
}

func TestValuesMatchAbsent(t *testing.T) {
	assert.True(t, ValuesMatch(grade.Absent(), grade.Absent()))
	assert.False(t, ValuesMatch(grade.Absent(), grade.NumberValue(5)))
	assert.False(t, ValuesMatch(grade.NumberValue(5), grade.Absent()))
	assert.False(t, ValuesMatch(grade.Absent(), grade.TextValue("")))
}

func TestValuesMatchText(t *testing.T) {
	assert.True(t, ValuesMatch(grade.TextValue("Exceed"), grade.TextValue("exceed")))
	assert.True(t, ValuesMatch(grade.TextValue("  Miss "), grade.TextValue("MISS")))
	assert.False(t, ValuesMatch(grade.TextValue("Exceed"), grade.TextValue("Miss")))
}

func TestValuesMatchMixedKinds(t *testing.T) {
	// Numbers stored as text still compare numerically.
	assert.True(t, ValuesMatch(grade.TextValue("1000"), grade.NumberValue(1000)))
	assert.True(t, ValuesMatch(grade.TextValue(" 1004 "), grade.NumberValue(1000)))
	assert.False(t, ValuesMatch(grade.TextValue("1100"), grade.NumberValue(1000)))

	// Bool against its textual form falls back to string comparison.
	assert.True(t, ValuesMatch(grade.BoolValue(true), grade.TextValue("true")))
	assert.False(t, ValuesMatch(grade.BoolValue(false), grade.TextValue("true")))
}
