package scheme

import "fmt"

// SalesAnalysis returns the compiled-in mark scheme for the SALES_ANALYSIS
// assignment: quarterly sales totals, commission lookups, target checks,
// conditional formatting, and departmental aggregation. 15 marks across
// 8 questions.
func SalesAnalysis() MarkScheme {
	return MarkScheme{
		ID:          "sales-analysis",
		Name:        "SALES_ANALYSIS",
		NamePattern: `(?i)SALES_ANALYSIS_(.+?)_\d+`,
		Questions: []QuestionRule{
			{
				Num:         1,
				Description: "G4:G15 - Calculate 2025 Total Sales using SUM formula",
				Marks:       1,
				Cells:       columnRange("G", 4, 15),
				Category:    CategorySum,
				Pattern:     `SUM\([C-F]\d+:[C-F]\d+\)`,
				Policy:      PolicyAllOrNothing,
				Notes:       "1 mark for correct SUM formula summing quarterly sales",
			},
			{
				Num:         2,
				Description: "H4:H15 - Commission using VLOOKUP",
				Marks:       2,
				Cells:       columnRange("H", 4, 15),
				Category:    CategoryLookup,
				Pattern:     `VLOOKUP\(.*\$?A\$?20.*\$?C\$?24.*3.*TRUE\).*\*`,
				Policy:      PolicyLookupSplit,
				Notes:       "1 mark VLOOKUP, 1 mark multiply",
			},
			{
				Num:         3,
				Description: "J4:J15 - IF Exceed/Miss",
				Marks:       2,
				Cells:       columnRange("J", 4, 15),
				Category:    CategoryConditional,
				Pattern:     `IF\(G\d+>I\d+,.*EXCEED.*,.*MISS`,
				Policy:      PolicyConditionalSplit,
				Notes:       "1 mark IF, 1 mark logic",
			},
			{
				Num:         4,
				Description: "Conditional formatting - Red for miss",
				Marks:       3,
				Category:    CategoryFormatting,
				Policy:      PolicyFormatting,
				Formatting: &FormattingSpec{
					Range:          "A4:J15",
					ConditionTerms: []string{"MISS"},
					TargetColumn:   "J",
					Fill:           DefaultRedFill(),
				},
				Notes: "range, condition, red fill",
			},
			{
				Num:         5,
				Description: "I19:I22 - SUMIF departmental",
				Marks:       4,
				Cells:       []string{"I19", "I20", "I21", "I22"},
				Category:    CategoryAggregate,
				Pattern:     `SUMIF\(.*B.*:.*B.*,.*,.*G.*:.*G.*\)`,
				Policy:      PolicyPerCellSum,
				Notes:       "1 per department",
			},
			{
				Num:         6,
				Description: "I23 - SUM Company Total",
				Marks:       1,
				Cells:       []string{"I23"},
				Category:    CategorySum,
				Pattern:     `SUM\(I19:I22\)`,
				Policy:      PolicyAllOrNothing,
				Notes:       "SUM of departments",
			},
			{
				Num:         7,
				Description: "I25 - Sales yet to achieve",
				Marks:       1,
				Cells:       []string{"I25"},
				Category:    CategoryArithmetic,
				Pattern:     `I24-I23`,
				Policy:      PolicyAllOrNothing,
				Notes:       "Target - Current",
			},
			{
				Num:         8,
				Description: "I26 - Days remaining",
				Marks:       1,
				Cells:       []string{"I26"},
				Category:    CategoryDateCalc,
				Pattern:     `(DATEDIF|DAYS|H25-H23|DATE|82)`,
				Policy:      PolicyAllOrNothing,
				Notes:       "82 days",
			},
		},
	}
}

// columnRange expands a single-column run like G4..G15 into cell refs
func columnRange(col string, from, to int) []string {
	refs := make([]string, 0, to-from+1)
	for row := from; row <= to; row++ {
		refs = append(refs, fmt.Sprintf("%s%d", col, row))
	}
	return refs
}
