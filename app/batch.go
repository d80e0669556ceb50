package app

import (
	"context"

	"sheetmark/domain/grade"

	"golang.org/x/sync/errgroup"
)

// BatchItem pairs one submission's outcome with its intake error, if any.
// One unreadable submission never stops the rest of the batch.
type BatchItem struct {
	Request GradeRequest
	Result  *grade.EvaluationResult
	Err     error
}

// GradeBatch grades independent submissions concurrently, each against
// its own decoded workbook state. The mark scheme is read-only and shared
// across the goroutines; nothing mutable is. Order of the returned items
// matches the input order.
func (s *GradingService) GradeBatch(ctx context.Context, requests []GradeRequest, concurrency int) []BatchItem {
	if concurrency < 1 {
		concurrency = 1
	}

	items := make([]BatchItem, len(requests))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range requests {
		g.Go(func() error {
			result, err := s.Grade(ctx, req)
			items[i] = BatchItem{Request: req, Result: result, Err: err}
			// Intake failures are reported per item, not propagated:
			// the remaining submissions still get graded.
			return nil
		})
	}
	_ = g.Wait() // per-item errors are captured above
	return items
}
