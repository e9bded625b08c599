package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

//go:generate mockgen -source=score.go -destination=mocks/score.go -package=mocks

// ScoreLedger keeps the best score per (user, question, scoring group)
type ScoreLedger interface {
	// UpsertBestScore stores candidate only if it beats the stored score, atomically
	UpsertBestScore(ctx context.Context, userID string, questionID int64, scoringGroupID string, candidate int) error

	GetBestScore(ctx context.Context, userID string, questionID int64, scoringGroupID string) (*domain.BestScore, error)
}
