package judge

import (
	"context"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

// IJudgeService runs submitted source against a question's test cases
type IJudgeService interface {
	// PreviewRun executes every visible case and returns one result per case, in order.
	// It never stops early on a failing case.
	PreviewRun(ctx context.Context, languageID, source string, questionID int64) ([]domain.CaseResult, error)

	// GradeSubmission executes visible then hidden cases, stopping at the first failure,
	// and records the hidden pass count as the user's best score for the scoring group.
	GradeSubmission(ctx context.Context, submission *domain.Submission) (*domain.Verdict, error)
}
