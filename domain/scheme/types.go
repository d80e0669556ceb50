package scheme

import (
	"regexp"

	"sheetmark/domain/core"
)

// FormulaCategory classifies what kind of formula a question expects
type FormulaCategory string

const (
	CategorySum         FormulaCategory = "SUM"
	CategoryLookup      FormulaCategory = "LOOKUP"
	CategoryConditional FormulaCategory = "CONDITIONAL"
	CategoryAggregate   FormulaCategory = "AGGREGATE_BY_CATEGORY"
	CategoryArithmetic  FormulaCategory = "ARITHMETIC"
	CategoryDateCalc    FormulaCategory = "DATE_CALC"
	CategoryFormatting  FormulaCategory = "FORMATTING"
)

// PolicyID names the scoring algorithm that converts cell evaluations
// into a question-level mark.
type PolicyID string

const (
	PolicyAllOrNothing     PolicyID = "ALL_OR_NOTHING"
	PolicyLookupSplit      PolicyID = "LOOKUP_SPLIT"
	PolicyConditionalSplit PolicyID = "CONDITIONAL_SPLIT"
	PolicyPerCellSum       PolicyID = "PER_CELL_SUM"
	PolicyFormatting       PolicyID = "FORMATTING"
)

// KnownPolicies lists every scoring policy the engine dispatches on
var KnownPolicies = []PolicyID{
	PolicyAllOrNothing,
	PolicyLookupSplit,
	PolicyConditionalSplit,
	PolicyPerCellSum,
	PolicyFormatting,
}

// FillPolicy is the named, tunable heuristic deciding whether a fill
// color counts as "red-dominant". Thresholds are channel values 0-255.
type FillPolicy struct {
	MinRed   uint8 `yaml:"min_red"`
	MaxGreen uint8 `yaml:"max_green"`
	MaxBlue  uint8 `yaml:"max_blue"`
}

// DefaultRedFill is the stock red-dominance policy
func DefaultRedFill() FillPolicy {
	return FillPolicy{MinRed: 200, MaxGreen: 150, MaxBlue: 150}
}

// Matches reports whether the RGB channels satisfy the policy
func (p FillPolicy) Matches(r, g, b uint8) bool {
	return r > p.MinRed && g < p.MaxGreen && b < p.MaxBlue
}

// FormattingSpec declares what a conditional-formatting question checks:
// the range the rule must cover, the text the trigger condition must
// reference, and the fill color policy. Each satisfied check is worth
// one mark, capped at the question total.
type FormattingSpec struct {
	Range          string     `yaml:"range"`
	ConditionTerms []string   `yaml:"condition_terms"`
	TargetColumn   string     `yaml:"target_column"`
	Fill           FillPolicy `yaml:"fill"`
}

// QuestionRule declares how one question is marked. Immutable once
// constructed; a MarkScheme and its rules are shared read-only across
// evaluation runs.
type QuestionRule struct {
	Num         int             `yaml:"num" validate:"required,gt=0"`
	Description string          `yaml:"description" validate:"required"`
	Marks       float64         `yaml:"marks" validate:"required,gt=0"`
	Cells       []string        `yaml:"cells"`
	Category    FormulaCategory `yaml:"category"`
	Pattern     string          `yaml:"pattern"`  // expected-formula regexp, empty for formatting rules
	Function    string          `yaml:"function"` // required function token for split policies
	Policy      PolicyID        `yaml:"policy" validate:"required"`
	Formatting  *FormattingSpec `yaml:"formatting,omitempty"`
	Notes       string          `yaml:"notes,omitempty"`
}

// RequiredFunction returns the function token split policies look for,
// falling back to the category default when the rule does not name one.
func (q QuestionRule) RequiredFunction() string {
	if q.Function != "" {
		return q.Function
	}
	switch q.Category {
	case CategoryLookup:
		return "VLOOKUP"
	case CategoryConditional:
		return "IF"
	case CategorySum:
		return "SUM"
	case CategoryAggregate:
		return "SUMIF"
	default:
		return ""
	}
}

// MarkScheme is the ordered, read-only rule set governing an assignment.
// One scheme instance may serve many concurrent evaluation runs.
type MarkScheme struct {
	ID          core.SchemeID  `yaml:"id"`
	Name        string         `yaml:"name" validate:"required"`
	NamePattern string         `yaml:"name_pattern"` // filename regexp with one capture group for the student name
	Questions   []QuestionRule `yaml:"questions" validate:"dive"`
}

// TotalMarks sums every question's marks
func (m MarkScheme) TotalMarks() float64 {
	var total float64
	for _, q := range m.Questions {
		total += q.Marks
	}
	return total
}

// Question finds a rule by question number
func (m MarkScheme) Question(num int) (QuestionRule, bool) {
	for _, q := range m.Questions {
		if q.Num == num {
			return q, true
		}
	}
	return QuestionRule{}, false
}

// Validate checks the scheme for structural problems before any grading
// happens. A scheme that fails validation must not be used to grade.
func (m MarkScheme) Validate() error {
	seen := make(map[int]bool, len(m.Questions))
	for _, q := range m.Questions {
		if seen[q.Num] {
			return core.NewSchemeError(q.Num, "duplicate question number")
		}
		seen[q.Num] = true

		if q.Marks <= 0 {
			return core.NewSchemeError(q.Num, "marks must be positive")
		}
		if !knownPolicy(q.Policy) {
			return core.NewSchemeError(q.Num, "unknown scoring policy "+string(q.Policy))
		}
		if q.Policy == PolicyFormatting {
			if q.Formatting == nil {
				return core.NewSchemeError(q.Num, "formatting policy requires a formatting spec")
			}
			if q.Formatting.Range == "" {
				return core.NewSchemeError(q.Num, "formatting spec requires a range")
			}
			continue
		}
		if len(q.Cells) == 0 {
			return core.NewSchemeError(q.Num, "no target cells")
		}
		if q.Pattern != "" {
			if _, err := regexp.Compile(q.Pattern); err != nil {
				return core.NewSchemeError(q.Num, "pattern does not compile: "+err.Error())
			}
		}
	}
	if m.NamePattern != "" {
		if _, err := regexp.Compile(m.NamePattern); err != nil {
			return core.NewSchemeError(0, "name pattern does not compile: "+err.Error())
		}
	}
	return nil
}

func knownPolicy(p PolicyID) bool {
	for _, known := range KnownPolicies {
		if p == known {
			return true
		}
	}
	return false
}
