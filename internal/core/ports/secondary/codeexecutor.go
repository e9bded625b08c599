package secondary

import (
	"context"
	"time"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

//go:generate mockgen -source=codeexecutor.go -destination=mocks/codeexecutor.go -package=mocks

type CodeExecutor interface {
	// Execute compiles (if needed) and runs source against stdin in a fresh
	// sandbox. Program failures are reported in the outcome; an error means
	// the sandbox itself could not be used.
	Execute(ctx context.Context, profile domain.LanguageProfile, source, stdin string, timeout time.Duration) (*domain.ExecutionOutcome, error)
}
