package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

//go:generate mockgen -source=testcases.go -destination=mocks/testcases.go -package=mocks

// TestCaseGateway loads the normalized case set of a question
type TestCaseGateway interface {
	LoadCaseSet(ctx context.Context, questionID int64) (domain.TestCaseSet, error)
}
