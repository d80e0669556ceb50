// Package excel adapts xlsx workbooks to the engine's workbook port
// using excelize: dual formula/value views, conditional-formatting
// inspection, and feedback annotation.
package excel

import (
	"bytes"
	"strconv"
	"strings"

	"sheetmark/domain/core"
	"sheetmark/domain/grade"
	"sheetmark/ports"

	"github.com/xuri/excelize/v2"
)

// Loader decodes workbook bytes into read-only snapshot views
type Loader struct{}

// NewLoader creates a workbook loader
func NewLoader() *Loader {
	return &Loader{}
}

// Workbook is an immutable snapshot of one decoded sheet: every cell's
// formula text and computed value pre-read into maps, plus the sheet's
// conditional-formatting rules. Lookups are constant-time and the
// snapshot is safe for concurrent readers.
type Workbook struct {
	label    string
	sheet    string
	formulas map[string]string
	values   map[string]grade.CellValue
	formats  []condFormat
}

// condFormat is one conditional-formatting entry, resolved at load time
// so the snapshot does not retain the underlying file handle.
type condFormat struct {
	ranges   []string
	criteria []string
	fills    []string // RGB hex of associated fill colors
}

var _ ports.Workbook = (*Workbook)(nil)
var _ ports.WorkbookLoader = (*Loader)(nil)

// Load decodes workbook bytes, reading the active sheet once into the
// formula and value views. A corrupted or unsupported stream fails with
// core.ErrWorkbookUnreadable; it never panics the caller.
func (l *Loader) Load(data []byte, label string) (ports.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, core.NewLoadError(label, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, core.NewLoadError(label, core.ErrSheetMissing)
	}

	wb := &Workbook{
		label:    label,
		sheet:    sheet,
		formulas: make(map[string]string),
		values:   make(map[string]grade.CellValue),
	}

	maxCol, maxRow, err := sheetExtent(f, sheet)
	if err != nil {
		return nil, core.NewLoadError(label, err)
	}
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			ref, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				continue
			}
			l.snapshotCell(f, wb, ref)
		}
	}

	wb.formats = readConditionalFormats(f, sheet)
	return wb, nil
}

// sheetExtent returns the used rectangle of the sheet. The declared
// dimension wins because it covers formula-only cells that render empty;
// the row scan is the fallback for files that omit it.
func sheetExtent(f *excelize.File, sheet string) (maxCol, maxRow int, err error) {
	if dim, err := f.GetSheetDimension(sheet); err == nil && strings.Contains(dim, ":") {
		corners := strings.SplitN(dim, ":", 2)
		if col, row, err := excelize.CellNameToCoordinates(corners[1]); err == nil {
			return col, row, nil
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	return maxCol, len(rows), nil
}

// snapshotCell reads one cell into both views. Read faults degrade to an
// absent value rather than failing the load.
func (l *Loader) snapshotCell(f *excelize.File, wb *Workbook, ref string) {
	if formula, err := f.GetCellFormula(wb.sheet, ref); err == nil && formula != "" {
		wb.formulas[ref] = "=" + formula
	}

	raw, err := f.GetCellValue(wb.sheet, ref)
	if err != nil {
		return
	}
	cellType, _ := f.GetCellType(wb.sheet, ref)

	// Files authored programmatically carry no cached formula results;
	// fall back to recomputing those cells.
	if raw == "" {
		if _, isFormula := wb.formulas[ref]; isFormula {
			if calced, err := f.CalcCellValue(wb.sheet, ref); err == nil {
				raw = calced
			}
		}
	}
	if value := classifyValue(raw, cellType); !value.IsAbsent() {
		wb.values[ref] = value
	}
}

// FormulaAt returns the literal formula text of a cell, "" when none
func (w *Workbook) FormulaAt(ref string) string {
	return w.formulas[strings.ToUpper(strings.TrimSpace(ref))]
}

// ValueAt returns the cell's computed value, absent when the cell is
// empty or was unreadable. Total: never fails.
func (w *Workbook) ValueAt(ref string) grade.CellValue {
	if v, ok := w.values[strings.ToUpper(strings.TrimSpace(ref))]; ok {
		return v
	}
	return grade.Absent()
}

// Label returns the source label the workbook was loaded under
func (w *Workbook) Label() string {
	return w.label
}

// classifyValue maps a rendered cell string and its native cell type to
// the tagged value union.
func classifyValue(raw string, cellType excelize.CellType) grade.CellValue {
	if raw == "" {
		return grade.Absent()
	}
	switch cellType {
	case excelize.CellTypeBool:
		return grade.BoolValue(raw == "1" || strings.EqualFold(raw, "TRUE"))
	case excelize.CellTypeNumber, excelize.CellTypeDate:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return grade.NumberValue(n)
		}
		return grade.TextValue(raw)
	case excelize.CellTypeInlineString, excelize.CellTypeSharedString:
		return grade.TextValue(raw)
	default:
		// Formula results and untyped cells: infer from the text
		if strings.EqualFold(raw, "TRUE") || strings.EqualFold(raw, "FALSE") {
			return grade.BoolValue(strings.EqualFold(raw, "TRUE"))
		}
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return grade.NumberValue(n)
		}
		return grade.TextValue(raw)
	}
}
