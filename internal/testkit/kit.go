// Package testkit builds in-memory xlsx fixtures for tests. Workbooks
// are constructed with excelize and handed around as raw bytes, the same
// shape the loader consumes in production.
package testkit

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookBuilder assembles a single-sheet xlsx workbook
type WorkbookBuilder struct {
	file  *excelize.File
	sheet string
	err   error
}

// NewWorkbook starts a builder on the default sheet
func NewWorkbook() *WorkbookBuilder {
	f := excelize.NewFile()
	return &WorkbookBuilder{file: f, sheet: f.GetSheetName(f.GetActiveSheetIndex())}
}

// SetValue writes a plain cell value
func (b *WorkbookBuilder) SetValue(ref string, value interface{}) *WorkbookBuilder {
	if b.err == nil {
		b.err = b.file.SetCellValue(b.sheet, ref, value)
	}
	return b
}

// SetFormula writes a formula and its cached result. Grading reads the
// cached value, so fixtures set both the way a real save from Excel would.
// The value goes in first: SetCellValue resets any formula on the cell,
// while SetCellFormula leaves the stored value in place.
func (b *WorkbookBuilder) SetFormula(ref, formula string, cached interface{}) *WorkbookBuilder {
	if b.err == nil && cached != nil {
		b.err = b.file.SetCellValue(b.sheet, ref, cached)
	}
	if b.err == nil {
		b.err = b.file.SetCellFormula(b.sheet, ref, formula)
	}
	return b
}

// AddRedFillRule attaches a formula-triggered conditional-formatting rule
// with a solid red fill over the given range.
func (b *WorkbookBuilder) AddRedFillRule(rangeRef, criteria string) *WorkbookBuilder {
	return b.AddFillRule(rangeRef, criteria, "FF0000")
}

// AddFillRule attaches a formula-triggered conditional-formatting rule
// with the given fill color over the given range.
func (b *WorkbookBuilder) AddFillRule(rangeRef, criteria, color string) *WorkbookBuilder {
	if b.err != nil {
		return b
	}
	styleID, err := b.file.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		b.err = err
		return b
	}
	b.err = b.file.SetConditionalFormat(b.sheet, rangeRef, []excelize.ConditionalFormatOptions{
		{Type: "formula", Criteria: criteria, Format: &styleID},
	})
	return b
}

// Bytes serializes the workbook
func (b *WorkbookBuilder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	buf, err := b.file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustBytes serializes the workbook or panics. Test-only convenience.
func (b *WorkbookBuilder) MustBytes() []byte {
	data, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return data
}

// SalesAnalysisKey builds a fully correct workbook for the compiled-in
// sales analysis scheme: every target cell holds the expected formula
// and cached value, and a red-fill rule marks the Miss rows.
func SalesAnalysisKey() *WorkbookBuilder {
	b := NewWorkbook()

	headers := []string{"Salesperson", "Department", "Q1", "Q2", "Q3", "Q4", "Total", "Commission", "Target", "Status"}
	for i, h := range headers {
		ref, _ := excelize.CoordinatesToCellName(i+1, 3)
		b.SetValue(ref, h)
	}

	departments := []string{"Hardware", "Software", "Services", "Support"}
	for row := 4; row <= 15; row++ {
		b.SetValue(fmt.Sprintf("A%d", row), fmt.Sprintf("Rep %d", row-3))
		b.SetValue(fmt.Sprintf("B%d", row), departments[(row-4)%len(departments)])
		quarterTotal := 0
		for col := 'C'; col <= 'F'; col++ {
			v := (row - 3) * int(col-'B') * 100
			quarterTotal += v
			b.SetValue(fmt.Sprintf("%c%d", col, row), v)
		}
		b.SetValue(fmt.Sprintf("I%d", row), 3000)

		b.SetFormula(fmt.Sprintf("G%d", row), fmt.Sprintf("SUM(C%d:F%d)", row, row), quarterTotal)
		b.SetFormula(fmt.Sprintf("H%d", row),
			fmt.Sprintf("VLOOKUP(G%d,$A$20:$C$24,3,TRUE)*G%d", row, row),
			float64(quarterTotal)*0.05)
		status := "Miss"
		if quarterTotal > 3000 {
			status = "Exceed"
		}
		b.SetFormula(fmt.Sprintf("J%d", row),
			fmt.Sprintf(`IF(G%d>I%d,"Exceed","Miss")`, row, row), status)
	}

	// Commission tier table the VLOOKUPs read from.
	tiers := [][3]interface{}{
		{0, "Tier 1", 0.02},
		{2000, "Tier 2", 0.03},
		{4000, "Tier 3", 0.05},
		{8000, "Tier 4", 0.07},
		{12000, "Tier 5", 0.1},
	}
	for i, tier := range tiers {
		row := 20 + i
		b.SetValue(fmt.Sprintf("A%d", row), tier[0])
		b.SetValue(fmt.Sprintf("B%d", row), tier[1])
		b.SetValue(fmt.Sprintf("C%d", row), tier[2])
	}

	// Departmental rollup block.
	for i, dept := range departments {
		row := 19 + i
		b.SetValue(fmt.Sprintf("H%d", row), dept)
		b.SetFormula(fmt.Sprintf("I%d", row),
			fmt.Sprintf(`SUMIF($B$4:$B$15,H%d,$G$4:$G$15)`, row), 15000+float64(i)*1000)
	}
	b.SetFormula("I23", "SUM(I19:I22)", 66000)
	b.SetValue("I24", 80000)
	b.SetFormula("I25", "I24-I23", 14000)
	b.SetValue("H23", "2025-01-01")
	b.SetValue("H25", "2025-03-24")
	b.SetFormula("I26", `DATEDIF(H23,H25,"d")`, 82)

	b.AddRedFillRule("A4:J15", `$J4="Miss"`)
	return b
}
