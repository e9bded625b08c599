package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

//go:generate mockgen -source=submission.go -destination=mocks/submission.go -package=mocks

type SubmissionFilter struct {
	UserID     string
	QuestionID int64
	Limit      int
}

// SubmissionRepository stores graded submissions
type SubmissionRepository interface {
	SaveSubmission(ctx context.Context, record *domain.SubmissionRecord) error

	// GetSubmission returns nil, nil when no record exists
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.SubmissionRecord, error)

	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]*domain.SubmissionRecord, error)
}
