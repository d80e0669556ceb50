package excel

import (
	"bytes"
	"fmt"

	"sheetmark/domain/core"
	"sheetmark/domain/grade"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// CommentAuthor is the author name attached to feedback comments
const CommentAuthor = "Feedback"

// Annotator writes per-cell feedback comments into a copy of the
// student's original workbook.
type Annotator struct {
	log zerolog.Logger
}

// NewAnnotator creates an annotator
func NewAnnotator(log zerolog.Logger) *Annotator {
	return &Annotator{log: log.With().Str("component", "annotator").Logger()}
}

// Annotate attaches a "Qn: feedback" comment to every cell whose formula
// or value check failed, and returns the annotated workbook bytes.
// Annotation failures on individual cells are logged and skipped; they
// never suppress marks already computed. Only failing to decode or
// re-encode the workbook is fatal.
func (a *Annotator) Annotate(studentBytes []byte, result grade.EvaluationResult) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(studentBytes))
	if err != nil {
		return nil, core.NewLoadError(result.StudentFile, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, core.NewLoadError(result.StudentFile, core.ErrSheetMissing)
	}

	for _, q := range result.Questions {
		for _, c := range q.Cells {
			if c.Correct() || c.CellRef == "" || c.Feedback == "" {
				continue
			}
			comment := excelize.Comment{
				Cell:   c.CellRef,
				Author: CommentAuthor,
				Paragraph: []excelize.RichTextRun{
					{Text: fmt.Sprintf("Q%d: %s", q.QuestionNum, c.Feedback)},
				},
			}
			if err := f.AddComment(sheet, comment); err != nil {
				a.log.Warn().Err(err).Str("cell", c.CellRef).Int("question", q.QuestionNum).
					Msg("could not add feedback comment, skipping cell")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode annotated workbook: %w", err)
	}
	return buf.Bytes(), nil
}
