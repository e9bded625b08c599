// Package scorerepository stores best scores in PostgreSQL
package scorerepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	querybuilder "gitlab.com/fcv-2025.net/codejudge/internal/utils"
)

var _ secondary.ScoreLedger = (*ScoreRepository)(nil)

// ScoreRepository implements the ScoreLedger interface with PostgreSQL
type ScoreRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	table  string
}

// NewScoreRepository creates a new PostgreSQL score repository
func NewScoreRepository(db *sqlx.DB, logger primary.Logger, schema string) *ScoreRepository {
	return &ScoreRepository{
		db:     db,
		logger: logger,
		table:  querybuilder.QualifiedTable(schema, "scores"),
	}
}

// UpsertBestScore keeps the greater of the stored and the candidate score.
// The comparison happens inside the statement, so concurrent submissions
// for the same key cannot lower the score.
func (r *ScoreRepository) UpsertBestScore(ctx context.Context, userID string, questionID int64, scoringGroupID string, candidate int) error {
	query := fmt.Sprintf(`
		INSERT INTO %s AS scores (user_id, question_id, scoring_group_id, score, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, question_id, scoring_group_id) DO UPDATE SET
			score = GREATEST(scores.score, EXCLUDED.score),
			updated_at = CASE
				WHEN EXCLUDED.score > scores.score THEN EXCLUDED.updated_at
				ELSE scores.updated_at
			END
	`, r.table)

	_, err := r.db.ExecContext(ctx, query, userID, questionID, scoringGroupID, candidate)
	if err != nil {
		r.logger.Error("Failed to upsert best score",
			"userId", userID,
			"questionId", questionID,
			"scoringGroupId", scoringGroupID,
			"error", err)
		return fmt.Errorf("failed to upsert best score: %w", err)
	}
	return nil
}

// GetBestScore returns nil, nil when nothing was recorded yet
func (r *ScoreRepository) GetBestScore(ctx context.Context, userID string, questionID int64, scoringGroupID string) (*domain.BestScore, error) {
	query := fmt.Sprintf(`
		SELECT user_id, question_id, scoring_group_id, score, updated_at
		FROM %s
		WHERE user_id = $1 AND question_id = $2 AND scoring_group_id = $3
	`, r.table)

	var score domain.BestScore
	err := r.db.GetContext(ctx, &score, query, userID, questionID, scoringGroupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get best score", "userId", userID, "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to get best score: %w", err)
	}
	return &score, nil
}

// EnsureTableExists creates the scores table if it is missing
func (r *ScoreRepository) EnsureTableExists(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			user_id TEXT NOT NULL,
			question_id BIGINT NOT NULL,
			scoring_group_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
			PRIMARY KEY (user_id, question_id, scoring_group_id)
		)
	`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.Error("Failed to create scores table", "error", err)
		return fmt.Errorf("failed to create scores table: %w", err)
	}
	return nil
}
