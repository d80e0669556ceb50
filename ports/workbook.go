package ports

import (
	"sheetmark/domain/grade"
	"sheetmark/domain/scheme"
)

// Workbook is the engine's read-only window onto one decoded spreadsheet.
// It exposes the two views the grader needs: the literal formula text of
// a cell and its last computed value. Lookups are constant-time and safe
// for concurrent readers; a Workbook is never written through.
type Workbook interface {
	// FormulaAt returns the literal formula text of a cell when one is
	// present ("=SUM(C4:F4)"), else the empty string.
	FormulaAt(ref string) string

	// ValueAt returns the cell's computed value, or the absent value when
	// the cell is empty or unreadable. Never fails.
	ValueAt(ref string) grade.CellValue

	// InspectFormatting scans the sheet's conditional-formatting rules
	// against a formatting spec and reports which checks are satisfied.
	InspectFormatting(spec scheme.FormattingSpec) FormattingFindings
}

// FormattingFindings holds the three independent conditional-formatting
// checks. Each true flag is worth one mark, capped at the rule total.
type FormattingFindings struct {
	RangeMatch     bool // a rule's declared range overlaps the expected range
	ConditionMatch bool // a rule's trigger formula references the expected comparison
	FillMatch      bool // a rule's fill color satisfies the fill policy
}

// WorkbookLoader decodes workbook bytes into the engine's views.
// A corrupted or unsupported stream fails with core.ErrWorkbookUnreadable.
type WorkbookLoader interface {
	Load(data []byte, label string) (Workbook, error)
}

// Annotator produces a copy of the student's original workbook carrying
// per-cell feedback as comments. Per-cell annotation failures are logged
// and skipped, never fatal.
type Annotator interface {
	Annotate(studentBytes []byte, result grade.EvaluationResult) ([]byte, error)
}
