// Package postgres persists evaluation results. The engine never writes
// here itself; the grading service calls through the ResultStore port
// when a database is configured.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sheetmark/domain/core"
	"sheetmark/domain/grade"
	"sheetmark/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ResultStore implements ports.ResultStore on PostgreSQL
type ResultStore struct {
	db *sqlx.DB
}

var _ ports.ResultStore = (*ResultStore)(nil)

// NewResultStore creates a PostgreSQL result store
func NewResultStore(db *sqlx.DB) *ResultStore {
	return &ResultStore{db: db}
}

// Connect opens and pings a PostgreSQL connection
func Connect(url string) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", url)
}

type resultRow struct {
	ID          string    `db:"id"`
	StudentName string    `db:"student_name"`
	StudentFile string    `db:"student_file"`
	TotalMarks  float64   `db:"total_marks"`
	Awarded     float64   `db:"marks_awarded"`
	Percentage  float64   `db:"percentage"`
	Summary     string    `db:"summary"`
	Questions   []byte    `db:"questions"`
	CompletedAt time.Time `db:"completed_at"`
}

// SaveResult stores one evaluation result. Re-saving the same evaluation
// ID is an upsert, so retried pipelines stay idempotent.
func (r *ResultStore) SaveResult(ctx context.Context, result grade.EvaluationResult) error {
	questions, err := json.Marshal(result.Questions)
	if err != nil {
		return err
	}

	row := resultRow{
		ID:          result.ID.String(),
		StudentName: result.StudentName,
		StudentFile: result.StudentFile,
		TotalMarks:  result.Total,
		Awarded:     result.Awarded,
		Percentage:  result.Percentage,
		Summary:     result.Summary,
		Questions:   questions,
		CompletedAt: result.CompletedAt,
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO evaluations (id, student_name, student_file, total_marks, marks_awarded, percentage, summary, questions, completed_at)
		VALUES (:id, :student_name, :student_file, :total_marks, :marks_awarded, :percentage, :summary, :questions, :completed_at)
		ON CONFLICT (id) DO UPDATE SET
			student_name = EXCLUDED.student_name,
			student_file = EXCLUDED.student_file,
			total_marks = EXCLUDED.total_marks,
			marks_awarded = EXCLUDED.marks_awarded,
			percentage = EXCLUDED.percentage,
			summary = EXCLUDED.summary,
			questions = EXCLUDED.questions,
			completed_at = EXCLUDED.completed_at
	`, row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return errors.Join(err, errors.New("pq code "+string(pqErr.Code)))
		}
		return err
	}
	return nil
}

// GetResult fetches one evaluation result by ID
func (r *ResultStore) GetResult(ctx context.Context, id core.EvaluationID) (*grade.EvaluationResult, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, student_name, student_file, total_marks, marks_awarded, percentage, summary, questions, completed_at
		FROM evaluations
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrEvaluationNotFound
	}
	if err != nil {
		return nil, err
	}

	result := grade.EvaluationResult{
		ID:          core.EvaluationID(row.ID),
		StudentName: row.StudentName,
		StudentFile: row.StudentFile,
		Total:       row.TotalMarks,
		Awarded:     row.Awarded,
		Percentage:  row.Percentage,
		Summary:     row.Summary,
		CompletedAt: row.CompletedAt,
	}
	if err := json.Unmarshal(row.Questions, &result.Questions); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResults lists stored results, newest first. Pagination runs in
// SQL so a listing never reads the whole table.
func (r *ResultStore) ListResults(ctx context.Context, filters ports.ResultFilters) ([]ports.ResultSummary, error) {
	query, args := buildListQuery(filters)

	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	summaries := make([]ports.ResultSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ports.ResultSummary{
			ID:          core.EvaluationID(row.ID),
			StudentName: row.StudentName,
			StudentFile: row.StudentFile,
			Awarded:     row.Awarded,
			Total:       row.TotalMarks,
			Percentage:  row.Percentage,
		})
	}
	return summaries, nil
}

// buildListQuery assembles the listing query with pagination and the
// optional student-name filter bound as positional parameters.
func buildListQuery(filters ports.ResultFilters) (string, []interface{}) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, student_name, student_file, total_marks, marks_awarded, percentage
		FROM evaluations`
	args := []interface{}{}
	if filters.StudentName != "" {
		query += ` WHERE student_name ILIKE $1`
		args = append(args, "%"+filters.StudentName+"%")
	}
	query += fmt.Sprintf(` ORDER BY completed_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return query, args
}
