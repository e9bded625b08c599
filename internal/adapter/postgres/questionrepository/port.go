// Package questionrepository reads question test cases from PostgreSQL
package questionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
	querybuilder "gitlab.com/fcv-2025.net/codejudge/internal/utils"
)

var _ secondary.TestCaseGateway = (*QuestionRepository)(nil)

// QuestionRepository implements the TestCaseGateway interface with PostgreSQL
type QuestionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	table  string
}

// NewQuestionRepository creates a new PostgreSQL question repository
func NewQuestionRepository(db *sqlx.DB, logger primary.Logger, schema string) *QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger,
		table:  querybuilder.QualifiedTable(schema, "questions"),
	}
}

// LoadCaseSet reads the stored case payload of a question and normalizes it
func (r *QuestionRepository) LoadCaseSet(ctx context.Context, questionID int64) (domain.TestCaseSet, error) {
	query := fmt.Sprintf(`SELECT testcases FROM %s WHERE quesid = $1`, r.table)

	var payload sql.NullString
	err := r.db.QueryRowContext(ctx, query, questionID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TestCaseSet{}, fmt.Errorf("%w: %d", errs.ErrQuestionNotFound, questionID)
		}
		r.logger.Error("Failed to load test cases", "questionId", questionID, "error", err)
		return domain.TestCaseSet{}, fmt.Errorf("failed to load test cases: %w", err)
	}

	if !payload.Valid {
		return domain.TestCaseSet{}, fmt.Errorf("%w: question %d has no test cases", errs.ErrMalformedTestCases, questionID)
	}

	set, err := domain.ParseTestCaseSet([]byte(payload.String))
	if err != nil {
		r.logger.Warn("Stored test cases are malformed", "questionId", questionID, "error", err)
		return domain.TestCaseSet{}, err
	}
	return set, nil
}
