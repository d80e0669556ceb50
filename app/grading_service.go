// Package app orchestrates the grading workflow: load both workbooks,
// run the marker, hand the result to the optional collaborator ports.
package app

import (
	"context"
	"fmt"

	"sheetmark/domain/core"
	"sheetmark/domain/grade"
	"sheetmark/domain/scheme"
	"sheetmark/internal/marker"
	"sheetmark/ports"

	"github.com/rs/zerolog"
)

// GradingService grades spreadsheet submissions against an answer key.
// The loader and scheme store are required; result store, notifier, and
// artifact store are optional collaborators and may be nil.
type GradingService struct {
	loader    ports.WorkbookLoader
	schemes   ports.SchemeStore
	results   ports.ResultStore
	notifier  ports.SubmissionNotifier
	annotator ports.Annotator
	log       zerolog.Logger
}

// NewGradingService creates a grading service
func NewGradingService(
	loader ports.WorkbookLoader,
	schemes ports.SchemeStore,
	results ports.ResultStore,
	notifier ports.SubmissionNotifier,
	annotator ports.Annotator,
	log zerolog.Logger,
) *GradingService {
	return &GradingService{
		loader:    loader,
		schemes:   schemes,
		results:   results,
		notifier:  notifier,
		annotator: annotator,
		log:       log.With().Str("component", "grading").Logger(),
	}
}

// GradeRequest carries the inputs for one evaluation run
type GradeRequest struct {
	AnswerKey   []byte
	Submission  []byte
	StudentName string // display label, derived from the filename when empty
	StudentFile string // source filename label
	SchemeID    core.SchemeID
}

// Grade evaluates one submission. A workbook that cannot be decoded
// aborts the whole run; an unreadable submission cannot be partially
// graded. Persistence and notification failures are logged, never
// allowed to suppress a computed score.
func (s *GradingService) Grade(ctx context.Context, req GradeRequest) (*grade.EvaluationResult, error) {
	markScheme, err := s.resolveScheme(ctx, req.SchemeID)
	if err != nil {
		return nil, err
	}

	answer, err := s.loader.Load(req.AnswerKey, "answer key")
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	student, err := s.loader.Load(req.Submission, req.StudentFile)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}

	result := marker.New(markScheme).Evaluate(answer, student, req.StudentName, req.StudentFile)
	if result.Total == 0 {
		s.log.Warn().Str("scheme", string(markScheme.ID)).
			Msg("evaluation completed with zero possible marks, check scheme configuration")
	}

	if s.results != nil {
		if err := s.results.SaveResult(ctx, result); err != nil {
			s.log.Error().Err(err).Str("evaluation", result.ID.String()).
				Msg("could not persist evaluation result")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyGraded(ctx, result); err != nil {
			s.log.Warn().Err(err).Str("evaluation", result.ID.String()).
				Msg("could not notify submission graded")
		}
	}

	s.log.Info().
		Str("student", result.StudentName).
		Str("file", result.StudentFile).
		Float64("awarded", result.Awarded).
		Float64("total", result.Total).
		Float64("percentage", result.Percentage).
		Msg("submission graded")
	return &result, nil
}

// AnnotateSubmission renders the annotated-workbook artifact for a
// completed evaluation. It needs the original submission bytes because
// the engine never stores them.
func (s *GradingService) AnnotateSubmission(submission []byte, result grade.EvaluationResult) ([]byte, error) {
	if s.annotator == nil {
		return nil, fmt.Errorf("no annotator configured")
	}
	return s.annotator.Annotate(submission, result)
}

// GetResult fetches a stored evaluation result
func (s *GradingService) GetResult(ctx context.Context, id core.EvaluationID) (*grade.EvaluationResult, error) {
	if s.results == nil {
		return nil, core.ErrEvaluationNotFound
	}
	return s.results.GetResult(ctx, id)
}

func (s *GradingService) resolveScheme(ctx context.Context, id core.SchemeID) (scheme.MarkScheme, error) {
	if id == "" {
		return scheme.SalesAnalysis(), nil
	}
	markScheme, err := s.schemes.GetScheme(ctx, id)
	if err != nil {
		return scheme.MarkScheme{}, fmt.Errorf("resolve scheme %q: %w", id, err)
	}
	if err := markScheme.Validate(); err != nil {
		return scheme.MarkScheme{}, err
	}
	return markScheme, nil
}
