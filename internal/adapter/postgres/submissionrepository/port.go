// Package submissionrepository contains the PostgreSQL submission history store
package submissionrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	querybuilder "gitlab.com/fcv-2025.net/codejudge/internal/utils"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// SubmissionRepository implements the SubmissionRepository interface with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger, schema string) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// row is the flat database shape of a SubmissionRecord
type row struct {
	domain.SubmissionRecord
	FirstFailure []byte `db:"first_failure"`
}

func (r row) toRecord() (*domain.SubmissionRecord, error) {
	record := r.SubmissionRecord
	if len(r.FirstFailure) > 0 {
		var failure domain.CaseResult
		if err := json.Unmarshal(r.FirstFailure, &failure); err != nil {
			return nil, fmt.Errorf("failed to unmarshal first failure: %w", err)
		}
		record.FirstFailure = &failure
	}
	return &record, nil
}

func columns() []string {
	t := domain.GetSubmissionTable()
	return []string{
		t.ID, t.UserID, t.ScoringGroupID, t.QuestionID, t.Language, t.Source,
		t.Status, t.TotalCases, t.PassedCases, t.HiddenPassedCount, t.FirstFailure, t.SubmittedAt,
	}
}

// SaveSubmission stores a graded submission. Saving the same id twice keeps the first row.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, record *domain.SubmissionRecord) error {
	// Left as a nil interface for Accepted records so the driver binds NULL.
	var failure any
	if record.FirstFailure != nil {
		encoded, err := json.Marshal(record.FirstFailure)
		if err != nil {
			r.logger.Error("Failed to marshal first failure", "error", err)
			return fmt.Errorf("failed to marshal first failure: %w", err)
		}
		failure = string(encoded)
	}

	t := domain.GetSubmissionTable()
	query, args, err := querybuilder.NewQueryBuilder(r.schema).
		Insert(columns()...).
		Into(t.TableName()).
		Values(
			record.ID,
			record.UserID,
			record.ScoringGroupID,
			record.QuestionID,
			record.Language,
			record.Source,
			record.Status,
			record.TotalCases,
			record.PassedCases,
			record.HiddenPassedCount,
			failure,
			record.SubmittedAt,
		).
		OnConflict(t.ID).
		DoNothing().
		Build()
	if err != nil {
		return fmt.Errorf("failed to build submission insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to save submission", "submissionId", record.ID, "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.SubmissionRecord, error) {
	t := domain.GetSubmissionTable()
	query, args, err := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(t.TableName()).
		Where(t.ID+" = ?", id).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build submission query: %w", err)
	}

	var found row
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return found.toRecord()
}

// ListSubmissions returns the newest submissions matching the filter
func (r *SubmissionRepository) ListSubmissions(ctx context.Context, filter secondary.SubmissionFilter) ([]*domain.SubmissionRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	t := domain.GetSubmissionTable()
	qb := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(t.TableName()).
		Where(t.UserID+" = ?", filter.UserID)
	if filter.QuestionID > 0 {
		qb = qb.And(t.QuestionID+" = ?", filter.QuestionID)
	}
	query, args, err := qb.OrderBy(t.SubmittedAt, false).Limit(limit).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build submission list query: %w", err)
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to list submissions", "userId", filter.UserID, "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	records := make([]*domain.SubmissionRecord, 0, len(rows))
	for _, found := range rows {
		record, err := found.toRecord()
		if err != nil {
			r.logger.Error("Failed to decode submission row", "submissionId", found.ID, "error", err)
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// EnsureTableExists creates the submissions table if it is missing
func (r *SubmissionRepository) EnsureTableExists(ctx context.Context) error {
	table := querybuilder.QualifiedTable(r.schema, domain.GetSubmissionTable().TableName())
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			scoring_group_id TEXT NOT NULL,
			question_id BIGINT NOT NULL,
			language VARCHAR(50) NOT NULL,
			source TEXT NOT NULL,
			status VARCHAR(20) NOT NULL,
			total_cases INTEGER NOT NULL,
			passed_cases INTEGER NOT NULL,
			hidden_passed_count INTEGER NOT NULL,
			first_failure JSONB,
			submitted_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`, table)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.Error("Failed to create submissions table", "error", err)
		return fmt.Errorf("failed to create submissions table: %w", err)
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS submissions_user_question_idx ON %s (user_id, question_id, submitted_at DESC)`, table)
	if _, err := r.db.ExecContext(ctx, index); err != nil {
		r.logger.Error("Failed to create submissions index", "error", err)
		return fmt.Errorf("failed to create submissions index: %w", err)
	}
	return nil
}
