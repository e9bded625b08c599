package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/comparator"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/language"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

var _ IJudgeService = (*JudgeService)(nil)

const (
	modePreview = "preview"
	modeGrade   = "grade"

	outcomePassed       = "passed"
	outcomeWrongAnswer  = "wrong_answer"
	outcomeRuntimeError = "runtime_error"
	outcomeCompileError = "compile_error"
	outcomeTimeLimit    = "time_limit"
	statusError         = "error"
)

// JudgeService implements IJudgeService
type JudgeService struct {
	languages   language.ILanguageRegistry
	executor    secondary.CodeExecutor
	cases       secondary.TestCaseGateway
	ledger      secondary.ScoreLedger
	submissions secondary.SubmissionRepository
	metrics     secondary.JudgeMetrics
	logger      primary.Logger
	caseTimeout time.Duration
}

// NewJudgeService creates a new judge service. submissions and metrics may be nil.
func NewJudgeService(
	languages language.ILanguageRegistry,
	executor secondary.CodeExecutor,
	cases secondary.TestCaseGateway,
	ledger secondary.ScoreLedger,
	submissions secondary.SubmissionRepository,
	metrics secondary.JudgeMetrics,
	logger primary.Logger,
	caseTimeout time.Duration,
) *JudgeService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &JudgeService{
		languages:   languages,
		executor:    executor,
		cases:       cases,
		ledger:      ledger,
		submissions: submissions,
		metrics:     metrics,
		logger:      logger,
		caseTimeout: caseTimeout,
	}
}

func (s *JudgeService) PreviewRun(ctx context.Context, languageID, source string, questionID int64) ([]domain.CaseResult, error) {
	start := time.Now()
	profile, err := s.languages.Resolve(languageID)
	if err != nil {
		return nil, err
	}

	set, err := s.cases.LoadCaseSet(ctx, questionID)
	if err != nil {
		s.logger.Error("Failed to load test cases", "questionId", questionID, "error", err)
		return nil, err
	}
	if len(set.Visible) == 0 {
		return nil, fmt.Errorf("%w: question %d", errs.ErrNoVisibleCases, questionID)
	}

	s.logger.Info("Running preview", "questionId", questionID, "language", profile.ID, "cases", len(set.Visible))

	results := make([]domain.CaseResult, 0, len(set.Visible))
	for i, tc := range set.Visible {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Preview abandoned", "questionId", questionID, "executed", i, "error", err)
			return nil, err
		}
		result, err := s.runCase(ctx, profile, source, tc)
		if err != nil {
			s.metrics.ObserveEvaluation(modePreview, profile.ID, statusError, time.Since(start))
			return nil, err
		}
		results = append(results, result)
	}

	s.metrics.ObserveEvaluation(modePreview, profile.ID, previewStatus(results), time.Since(start))
	return results, nil
}

func (s *JudgeService) GradeSubmission(ctx context.Context, submission *domain.Submission) (*domain.Verdict, error) {
	start := time.Now()
	profile, err := s.languages.Resolve(submission.Language)
	if err != nil {
		return nil, err
	}

	set, err := s.cases.LoadCaseSet(ctx, submission.QuestionID)
	if err != nil {
		s.logger.Error("Failed to load test cases", "questionId", submission.QuestionID, "error", err)
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: question %d", errs.ErrNoCases, submission.QuestionID)
	}

	s.logger.Info("Grading submission",
		"submissionId", submission.ID,
		"userId", submission.UserID,
		"questionId", submission.QuestionID,
		"language", profile.ID,
		"cases", set.Len())

	verdict := &domain.Verdict{
		SubmissionID: submission.ID,
		Status:       domain.VerdictAccepted,
		TotalCases:   set.Len(),
	}
	for i, tc := range set.All() {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Grading abandoned", "submissionId", submission.ID, "executed", i, "error", err)
			return nil, err
		}
		result, err := s.runCase(ctx, profile, submission.Source, tc)
		if err != nil {
			s.metrics.ObserveEvaluation(modeGrade, profile.ID, statusError, time.Since(start))
			return nil, err
		}
		if !result.Passed {
			verdict.Status = domain.VerdictWrongAnswer
			verdict.FirstFailure = &result
			break
		}
		verdict.PassedCases++
		if set.IsHidden(i) {
			verdict.HiddenPassedCount++
		}
	}

	err = s.ledger.UpsertBestScore(ctx, submission.UserID, submission.QuestionID, submission.ScoringGroupID, verdict.HiddenPassedCount)
	s.metrics.ObserveScoreUpsert(err == nil)
	if err != nil {
		s.logger.Error("Failed to record score",
			"submissionId", submission.ID,
			"userId", submission.UserID,
			"questionId", submission.QuestionID,
			"error", err)
		s.metrics.ObserveEvaluation(modeGrade, profile.ID, statusError, time.Since(start))
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	s.saveHistory(ctx, submission, verdict)

	s.logger.Info("Submission graded",
		"submissionId", submission.ID,
		"status", verdict.Status,
		"passed", verdict.PassedCases,
		"hiddenPassed", verdict.HiddenPassedCount)
	s.metrics.ObserveEvaluation(modeGrade, profile.ID, string(verdict.Status), time.Since(start))
	return verdict, nil
}

// runCase executes one case and folds the outcome into a CaseResult.
// Only sandbox failures are returned as errors.
func (s *JudgeService) runCase(ctx context.Context, profile domain.LanguageProfile, source string, tc domain.TestCase) (domain.CaseResult, error) {
	outcome, err := s.executor.Execute(ctx, profile, source, tc.Input, s.caseTimeout)
	if err != nil {
		s.logger.Error("Sandbox execution failed", "language", profile.ID, "error", err)
		if errors.Is(err, errs.ErrSandboxUnavailable) {
			return domain.CaseResult{}, err
		}
		return domain.CaseResult{}, fmt.Errorf("%w: %w", errs.ErrSandboxUnavailable, err)
	}

	result := domain.CaseResult{
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		ActualOutput:   strings.TrimSpace(outcome.Stdout),
	}
	result.Error = caseError(outcome)
	result.Passed = !outcome.TimedOut &&
		!outcome.CompileFailed &&
		outcome.ExitCode == 0 &&
		comparator.Match(outcome.Stdout, tc.ExpectedOutput)

	s.metrics.ObserveCase(profile.ID, caseOutcome(outcome, result.Passed), outcome.Duration)
	return result, nil
}

func (s *JudgeService) saveHistory(ctx context.Context, submission *domain.Submission, verdict *domain.Verdict) {
	if s.submissions == nil {
		return
	}
	record := domain.NewSubmissionRecord(submission, verdict)
	if err := s.submissions.SaveSubmission(ctx, record); err != nil {
		s.logger.Warn("Failed to save submission history", "submissionId", submission.ID, "error", err)
	}
}

func caseError(outcome *domain.ExecutionOutcome) *string {
	stderr := strings.TrimSpace(outcome.Stderr)
	if outcome.TimedOut {
		msg := domain.TimeLimitExceeded
		if stderr != "" {
			msg += ": " + stderr
		}
		return &msg
	}
	if stderr == "" {
		if outcome.ExitCode != 0 {
			msg := fmt.Sprintf("exited with code %d", outcome.ExitCode)
			return &msg
		}
		return nil
	}
	return &stderr
}

func caseOutcome(outcome *domain.ExecutionOutcome, passed bool) string {
	switch {
	case outcome.CompileFailed:
		return outcomeCompileError
	case outcome.TimedOut:
		return outcomeTimeLimit
	case outcome.ExitCode != 0:
		return outcomeRuntimeError
	case passed:
		return outcomePassed
	default:
		return outcomeWrongAnswer
	}
}

func previewStatus(results []domain.CaseResult) string {
	for _, r := range results {
		if !r.Passed {
			return string(domain.VerdictWrongAnswer)
		}
	}
	return string(domain.VerdictAccepted)
}

type nopMetrics struct{}

func (nopMetrics) ObserveCase(string, string, time.Duration)               {}
func (nopMetrics) ObserveEvaluation(string, string, string, time.Duration) {}
func (nopMetrics) ObserveScoreUpsert(bool)                                 {}
