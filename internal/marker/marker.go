// Package marker is the question scorer and evaluation aggregator: it
// runs a mark scheme against the answer-key and student workbook views
// and assembles the final evaluation result.
package marker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"sheetmark/domain/core"
	"sheetmark/domain/grade"
	"sheetmark/domain/scheme"
	"sheetmark/ports"
)

// UnknownStudent is the display name used when nothing better can be
// derived from the submission filename.
const UnknownStudent = "Unknown Student"

// Marker grades submissions under one mark scheme. The scheme is
// read-only, so a single Marker may serve concurrent evaluations.
type Marker struct {
	scheme scheme.MarkScheme
}

// New creates a marker for the given scheme
func New(s scheme.MarkScheme) *Marker {
	return &Marker{scheme: s}
}

// Scheme returns the scheme this marker grades under
func (m *Marker) Scheme() scheme.MarkScheme {
	return m.scheme
}

// Evaluate grades one student workbook against the answer key. It is
// single-threaded and synchronous: score every question in scheme order,
// aggregate, return. The result is exclusively owned by the caller.
func (m *Marker) Evaluate(answer, student ports.Workbook, studentName, studentFile string) grade.EvaluationResult {
	name := strings.TrimSpace(studentName)
	if name == "" {
		name = m.ExtractStudentName(studentFile)
	}

	result := grade.EvaluationResult{
		ID:          core.EvaluationID(core.NewID()),
		StudentName: name,
		StudentFile: studentFile,
		Total:       m.scheme.TotalMarks(),
		CompletedAt: time.Now(),
	}

	for _, rule := range m.scheme.Questions {
		q := scoreQuestion(rule, answer, student)
		result.Questions = append(result.Questions, q)
		result.Awarded += q.Awarded
	}

	if result.Total > 0 {
		result.Percentage = result.Awarded / result.Total * 100
	}
	result.Summary = buildSummary(result)
	return result
}

// ExtractStudentName derives a display name from the submission filename.
// The scheme's naming pattern wins when it matches; otherwise the stem is
// cleaned up (underscores as spaces, title-cased), defaulting to
// UnknownStudent when nothing is left.
func (m *Marker) ExtractStudentName(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	if m.scheme.NamePattern != "" {
		if re, err := regexp.Compile(m.scheme.NamePattern); err == nil {
			if match := re.FindStringSubmatch(stem); len(match) > 1 {
				return titleCase(strings.ReplaceAll(match[1], "_", " "))
			}
		}
	}

	// No pattern match: drop a leading "<SCHEME NAME>_" prefix if present
	if m.scheme.Name != "" {
		prefix := m.scheme.Name + "_"
		if len(stem) > len(prefix) && strings.EqualFold(stem[:len(prefix)], prefix) {
			stem = stem[len(prefix):]
		}
	}
	clean := strings.TrimSpace(titleCase(strings.ReplaceAll(stem, "_", " ")))
	if clean == "" {
		return UnknownStudent
	}
	return clean
}

// buildSummary renders the per-question breakdown with tri-state markers
func buildSummary(r grade.EvaluationResult) string {
	lines := []string{
		fmt.Sprintf("Student: %s", r.StudentName),
		fmt.Sprintf("Total Score: %s/%s (%.1f%%)", FormatMarks(r.Awarded), FormatMarks(r.Total), r.Percentage),
		"",
		"Question Breakdown:",
	}
	for _, q := range r.Questions {
		lines = append(lines, fmt.Sprintf("  Q%d: %s/%s %s",
			q.QuestionNum, FormatMarks(q.Awarded), FormatMarks(q.Total), q.Marker()))
	}
	return strings.Join(lines, "\n")
}

// FormatMarks renders a mark count without trailing zeros ("14.5", "15")
func FormatMarks(marks float64) string {
	return strconv.FormatFloat(marks, 'f', -1, 64)
}

// titleCase capitalizes the first letter of each space-separated word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
