package ports

import (
	"context"

	"sheetmark/domain/grade"
)

// SubmissionNotifier tells a teacher that a submission has been graded.
// The messaging bot behind it is an external collaborator; the engine
// only hands over the finished result.
type SubmissionNotifier interface {
	NotifyGraded(ctx context.Context, result grade.EvaluationResult) error
}
