package report

import (
	"fmt"
	"strings"

	"sheetmark/domain/grade"
	"sheetmark/internal/marker"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Document renders the paginated document report: the same content as
// the text report in a paragraph-per-line layout, encoded as a printable
// HTML document with page styling.
func Document(r grade.EvaluationResult) []byte {
	md := buildMarkdown(r)

	p := parser.NewWithExtensions(parser.CommonExtensions)
	// No Smartypants: it rewrites score fractions like "12.5/15" into
	// sup/sub markup.
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.FlagsNone})
	body := markdown.ToHTML([]byte(md), p, renderer)

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	doc.WriteString(fmt.Sprintf("<title>%s - %s</title>\n", reportTitle, htmlEscape(r.StudentName)))
	doc.WriteString("<style>\n")
	doc.WriteString("@page { size: A4; margin: 50px; }\n")
	doc.WriteString("body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; line-height: 14pt; }\n")
	doc.WriteString("h1 { font-size: 14pt; } h2 { font-size: 12pt; page-break-after: avoid; }\n")
	doc.WriteString("h3 { font-size: 11pt; page-break-after: avoid; }\n")
	doc.WriteString("</style>\n</head>\n<body>\n")
	doc.Write(body)
	doc.WriteString("\n</body>\n</html>\n")
	return []byte(doc.String())
}

// buildMarkdown lays the report out paragraph-per-line
func buildMarkdown(r grade.EvaluationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", reportTitle)
	fmt.Fprintf(&b, "**Student:** %s\n\n", r.StudentName)
	fmt.Fprintf(&b, "**File:** %s\n\n", r.StudentFile)
	fmt.Fprintf(&b, "**Date:** %s\n\n", r.CompletedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Total Score:** %s/%s (%.1f%%)\n\n",
		marker.FormatMarks(r.Awarded), marker.FormatMarks(r.Total), r.Percentage)

	b.WriteString("## Question Breakdown\n\n")
	for _, q := range r.Questions {
		fmt.Fprintf(&b, "Q%d: %s/%s %s - %s\n\n",
			q.QuestionNum, marker.FormatMarks(q.Awarded), marker.FormatMarks(q.Total),
			q.Marker(), q.Description)
	}

	b.WriteString("## Detailed Feedback\n\n")
	for _, q := range r.Questions {
		fmt.Fprintf(&b, "### Question %d: %s\n\n", q.QuestionNum, q.Description)
		fmt.Fprintf(&b, "Marks: %s/%s\n\n", marker.FormatMarks(q.Awarded), marker.FormatMarks(q.Total))
		fmt.Fprintf(&b, "Feedback: %s\n\n", q.Feedback)
		for _, c := range flaggedCells(q) {
			fmt.Fprintf(&b, "- %s: %s\n", c.CellRef, c.Feedback)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func htmlEscape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
