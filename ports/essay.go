package ports

import "context"

// EssayMarker is the LLM-based grading path for essay and short-answer
// submissions. It lives entirely outside this engine; spreadsheet grading
// never calls it, but callers route non-workbook submissions through it.
type EssayMarker interface {
	MarkEssay(ctx context.Context, question, answer string, maxMarks float64) (EssayMark, error)
}

// EssayMark is the marker's judgment on one free-text answer
type EssayMark struct {
	Awarded  float64
	MaxMarks float64
	Feedback string
}
