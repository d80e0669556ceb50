package excel

import (
	"strconv"
	"strings"

	"sheetmark/domain/scheme"
	"sheetmark/internal/compare"
	"sheetmark/ports"

	"github.com/xuri/excelize/v2"
)

// readConditionalFormats resolves every conditional-formatting rule on
// the sheet into a self-contained entry: its ranges, its trigger
// criteria text, and the RGB of any fill its style applies. Resolution
// happens at load time so inspection never needs the file handle.
func readConditionalFormats(f *excelize.File, sheet string) []condFormat {
	raw, err := f.GetConditionalFormats(sheet)
	if err != nil {
		return nil
	}

	var formats []condFormat
	for rangeRef, opts := range raw {
		entry := condFormat{ranges: strings.Fields(rangeRef)}
		for _, opt := range opts {
			if opt.Criteria != "" {
				entry.criteria = append(entry.criteria, opt.Criteria)
			}
			if opt.Value != "" {
				entry.criteria = append(entry.criteria, opt.Value)
			}
			if opt.Format != nil {
				if style, err := f.GetConditionalStyle(*opt.Format); err == nil && style != nil {
					entry.fills = append(entry.fills, style.Fill.Color...)
				}
			}
		}
		formats = append(formats, entry)
	}
	return formats
}

// InspectFormatting scans the snapshot's conditional-formatting rules and
// reports the three independent checks: range overlap, trigger condition
// reference, and fill color policy. Each check passes if any rule
// satisfies it; the checks need not be satisfied by the same rule.
func (w *Workbook) InspectFormatting(spec scheme.FormattingSpec) ports.FormattingFindings {
	var findings ports.FormattingFindings
	for _, cf := range w.formats {
		for _, r := range cf.ranges {
			if rangesOverlap(r, spec.Range) {
				findings.RangeMatch = true
			}
		}
		for _, criteria := range cf.criteria {
			if conditionReferences(criteria, spec) {
				findings.ConditionMatch = true
			}
		}
		for _, color := range cf.fills {
			if r, g, b, ok := parseRGB(color); ok && spec.Fill.Matches(r, g, b) {
				findings.FillMatch = true
			}
		}
	}
	return findings
}

// rangesOverlap reports whether two A1-style ranges share any cell
func rangesOverlap(a, b string) bool {
	aC1, aR1, aC2, aR2, ok := rangeBounds(a)
	if !ok {
		return false
	}
	bC1, bR1, bC2, bR2, ok := rangeBounds(b)
	if !ok {
		return false
	}
	return aC1 <= bC2 && bC1 <= aC2 && aR1 <= bR2 && bR1 <= aR2
}

// rangeBounds parses "A4:J15" (or a single "A4") into a normalized
// rectangle. Absolute markers ($) are tolerated.
func rangeBounds(rangeRef string) (c1, r1, c2, r2 int, ok bool) {
	ref := strings.ReplaceAll(strings.TrimSpace(rangeRef), "$", "")
	if ref == "" {
		return 0, 0, 0, 0, false
	}
	corners := strings.SplitN(ref, ":", 2)
	first := corners[0]
	second := first
	if len(corners) == 2 {
		second = corners[1]
	}

	c1, r1, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	c2, r2, err = excelize.CellNameToCoordinates(second)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return c1, r1, c2, r2, true
}

// conditionReferences tests the trigger formula against the expected
// comparison by structural text match, not execution: either a declared
// condition term appears, or the formula compares against the target
// column.
func conditionReferences(criteria string, spec scheme.FormattingSpec) bool {
	text := compare.NormalizeFormula(criteria)
	if text == "" {
		return false
	}
	for _, term := range spec.ConditionTerms {
		if term != "" && strings.Contains(text, strings.ToUpper(term)) {
			return true
		}
	}
	if spec.TargetColumn != "" && strings.Contains(text, strings.ToUpper(spec.TargetColumn)) {
		return strings.Contains(text, "=") || strings.Contains(text, "IF(")
	}
	return false
}

// parseRGB extracts channel values from a hex color string, accepting
// "FF0000", "FFFF0000" (ARGB, alpha skipped), and a leading "#".
func parseRGB(color string) (r, g, b uint8, ok bool) {
	hex := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(hex) == 8 {
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	channels := make([]uint8, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, false
		}
		channels[i] = uint8(n)
	}
	return channels[0], channels[1], channels[2], true
}
