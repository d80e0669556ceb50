package ports

import (
	"context"

	"sheetmark/domain/core"
	"sheetmark/domain/grade"
)

// ResultStore persists evaluation results. Persistence is the caller's
// choice; the engine itself never writes through this port.
type ResultStore interface {
	SaveResult(ctx context.Context, result grade.EvaluationResult) error
	GetResult(ctx context.Context, id core.EvaluationID) (*grade.EvaluationResult, error)
	ListResults(ctx context.Context, filters ResultFilters) ([]ResultSummary, error)
}

// ResultFilters narrows result listings
type ResultFilters struct {
	StudentName string
	Limit       int
	Offset      int
}

// ResultSummary is the lightweight listing row for stored results
type ResultSummary struct {
	ID          core.EvaluationID
	StudentName string
	StudentFile string
	Awarded     float64
	Total       float64
	Percentage  float64
}
