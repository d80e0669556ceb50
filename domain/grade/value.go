package grade

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the dynamic type of a computed cell value
type ValueKind string

const (
	KindAbsent ValueKind = "absent"
	KindNumber ValueKind = "number"
	KindText   ValueKind = "text"
	KindBool   ValueKind = "bool"
)

// CellValue is the tagged union for a cell's computed result.
// Exactly one of Number/Text/Bool is meaningful, selected by Kind;
// KindAbsent means the cell had no computed value at all.
type CellValue struct {
	Kind   ValueKind
	Number float64
	Text   string
	Bool   bool
}

// Absent returns the absent cell value
func Absent() CellValue {
	return CellValue{Kind: KindAbsent}
}

// NumberValue wraps a numeric cell value
func NumberValue(n float64) CellValue {
	return CellValue{Kind: KindNumber, Number: n}
}

// TextValue wraps a text cell value
func TextValue(s string) CellValue {
	return CellValue{Kind: KindText, Text: s}
}

// BoolValue wraps a boolean cell value
func BoolValue(b bool) CellValue {
	return CellValue{Kind: KindBool, Bool: b}
}

// IsAbsent reports whether the cell had no computed value
func (v CellValue) IsAbsent() bool {
	return v.Kind == KindAbsent
}

// AsNumber attempts a numeric reading of the value. Text that parses as a
// float counts, matching how spreadsheet apps store numbers typed as text.
func (v CellValue) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindText:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// String renders the value the way it would appear in a report
func (v CellValue) String() string {
	switch v.Kind {
	case KindAbsent:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindText:
		return v.Text
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("unknown(%s)", string(v.Kind))
	}
}
