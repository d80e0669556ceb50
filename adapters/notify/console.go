// Package notify holds submission notifier implementations
package notify

import (
	"context"

	"sheetmark/domain/grade"
	"sheetmark/ports"

	"github.com/rs/zerolog"
)

// Console logs graded submissions. It stands in wherever a real
// messaging integration would be wired.
type Console struct {
	log zerolog.Logger
}

var _ ports.SubmissionNotifier = (*Console)(nil)

// NewConsole creates a console notifier
func NewConsole(log zerolog.Logger) *Console {
	return &Console{log: log.With().Str("component", "notifier").Logger()}
}

// NotifyGraded announces a completed evaluation
func (c *Console) NotifyGraded(_ context.Context, result grade.EvaluationResult) error {
	c.log.Info().
		Str("evaluation_id", result.ID.String()).
		Str("student", result.StudentName).
		Float64("awarded", result.Awarded).
		Float64("total", result.Total).
		Float64("percentage", result.Percentage).
		Msg("submission graded")
	return nil
}
