package judge

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary/mocks"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/language"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

const (
	doubler = "print(int(input())*2)"
	tripler = "print(int(input())*3)"
)

// scriptedExecutor multiplies the input by the factor found in the source.
type scriptedExecutor struct {
	inputs  []string
	outcome func(stdin string) (*domain.ExecutionOutcome, error)
}

func (e *scriptedExecutor) Execute(_ context.Context, _ domain.LanguageProfile, source, stdin string, _ time.Duration) (*domain.ExecutionOutcome, error) {
	e.inputs = append(e.inputs, stdin)
	if e.outcome != nil {
		return e.outcome(stdin)
	}
	factor := 2
	if source == tripler {
		factor = 3
	}
	n, err := strconv.Atoi(strings.TrimSpace(stdin))
	if err != nil {
		return &domain.ExecutionOutcome{Stderr: "ValueError", ExitCode: 1}, nil
	}
	return &domain.ExecutionOutcome{Stdout: strconv.Itoa(n*factor) + "\n"}, nil
}

type recordingMetrics struct {
	evaluations []string
	cases       []string
}

func (m *recordingMetrics) ObserveCase(_, outcome string, _ time.Duration) {
	m.cases = append(m.cases, outcome)
}

func (m *recordingMetrics) ObserveEvaluation(mode, _, status string, _ time.Duration) {
	m.evaluations = append(m.evaluations, mode+":"+status)
}

func (m *recordingMetrics) ObserveScoreUpsert(bool) {}

type fixture struct {
	svc         *JudgeService
	executor    *scriptedExecutor
	cases       *mocks.MockTestCaseGateway
	ledger      *mocks.MockScoreLedger
	submissions *mocks.MockSubmissionRepository
	metrics     *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	reg, err := language.NewRegistry(map[string]domain.LanguageProfile{
		"python": {Image: "python:3", RunCommand: "python3 {{source}}", FileExtension: "py"},
	})
	require.NoError(t, err)

	f := &fixture{
		executor:    &scriptedExecutor{},
		cases:       mocks.NewMockTestCaseGateway(ctrl),
		ledger:      mocks.NewMockScoreLedger(ctrl),
		submissions: mocks.NewMockSubmissionRepository(ctrl),
		metrics:     &recordingMetrics{},
	}
	f.svc = NewJudgeService(reg, f.executor, f.cases, f.ledger, f.submissions, f.metrics, logging.NewNopLogger(), time.Second)
	return f
}

func scenarioSet() domain.TestCaseSet {
	return domain.TestCaseSet{
		Visible: []domain.TestCase{{Input: "2", ExpectedOutput: "4"}},
		Hidden:  []domain.TestCase{{Input: "3", ExpectedOutput: "6"}},
	}
}

func TestPreviewRun_ScenarioA(t *testing.T) {
	f := newFixture(t)
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)

	results, err := f.svc.PreviewRun(context.Background(), "python", doubler, 7)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, domain.CaseResult{Input: "2", ExpectedOutput: "4", ActualOutput: "4", Passed: true}, results[0])
	assert.Equal(t, []string{"2"}, f.executor.inputs)
	assert.Equal(t, []string{"preview:Accepted"}, f.metrics.evaluations)
}

func TestGradeSubmission_ScenarioA(t *testing.T) {
	f := newFixture(t)
	sub := domain.NewSubmission("u1", "course-1", 7, "python", doubler)
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)
	f.ledger.EXPECT().UpsertBestScore(gomock.Any(), "u1", int64(7), "course-1", 1).Return(nil)
	f.submissions.EXPECT().SaveSubmission(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *domain.SubmissionRecord) error {
			assert.Equal(t, sub.ID, rec.ID)
			assert.Equal(t, domain.VerdictAccepted, rec.Status)
			return nil
		})

	verdict, err := f.svc.GradeSubmission(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictAccepted, verdict.Status)
	assert.Equal(t, 2, verdict.TotalCases)
	assert.Equal(t, 2, verdict.PassedCases)
	assert.Equal(t, 1, verdict.HiddenPassedCount)
	assert.Nil(t, verdict.FirstFailure)
	assert.Equal(t, sub.ID, verdict.SubmissionID)
}

func TestGradeSubmission_ScenarioB_StopsAtVisibleFailure(t *testing.T) {
	f := newFixture(t)
	sub := domain.NewSubmission("u1", "course-1", 7, "python", tripler)
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)
	f.ledger.EXPECT().UpsertBestScore(gomock.Any(), "u1", int64(7), "course-1", 0).Return(nil)
	f.submissions.EXPECT().SaveSubmission(gomock.Any(), gomock.Any()).Return(nil)

	verdict, err := f.svc.GradeSubmission(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictWrongAnswer, verdict.Status)
	assert.Equal(t, 2, verdict.TotalCases)
	assert.Equal(t, 0, verdict.PassedCases)
	assert.Equal(t, 0, verdict.HiddenPassedCount)
	require.NotNil(t, verdict.FirstFailure)
	assert.Equal(t, "2", verdict.FirstFailure.Input)
	assert.Equal(t, "6", verdict.FirstFailure.ActualOutput)
	assert.Equal(t, []string{"2"}, f.executor.inputs, "hidden case must not run")
}

func TestScenarioC_UnsupportedLanguageBeforeAnyIO(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PreviewRun(context.Background(), "cobol", "x", 7)
	assert.ErrorIs(t, err, errs.ErrUnsupportedLanguage)

	_, err = f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u1", "c1", 7, "cobol", "x"))
	assert.ErrorIs(t, err, errs.ErrUnsupportedLanguage)

	assert.Empty(t, f.executor.inputs)
}

func TestPreviewRun_DoesNotShortCircuit(t *testing.T) {
	f := newFixture(t)
	set := domain.TestCaseSet{
		Visible: []domain.TestCase{
			{Input: "1", ExpectedOutput: "0"},
			{Input: "x", ExpectedOutput: "0"},
			{Input: "5", ExpectedOutput: "10"},
		},
		Hidden: []domain.TestCase{{Input: "9", ExpectedOutput: "18"}},
	}
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(1)).Return(set, nil)

	results, err := f.svc.PreviewRun(context.Background(), "python", doubler, 1)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.False(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, "ValueError", *results[1].Error)
	assert.True(t, results[2].Passed)
	assert.Equal(t, []string{"1", "x", "5"}, f.executor.inputs)
}

func TestGradeSubmission_ShortCircuitCountsOnlyExecutedHiddenPasses(t *testing.T) {
	f := newFixture(t)
	set := domain.TestCaseSet{
		Visible: []domain.TestCase{{Input: "1", ExpectedOutput: "2"}},
		Hidden: []domain.TestCase{
			{Input: "2", ExpectedOutput: "4"},
			{Input: "3", ExpectedOutput: "7"},
			{Input: "4", ExpectedOutput: "8"},
		},
	}
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(3)).Return(set, nil)
	f.ledger.EXPECT().UpsertBestScore(gomock.Any(), "u2", int64(3), "g", 1).Return(nil)
	f.submissions.EXPECT().SaveSubmission(gomock.Any(), gomock.Any()).Return(nil)

	verdict, err := f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u2", "g", 3, "python", doubler))
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictWrongAnswer, verdict.Status)
	assert.Equal(t, 4, verdict.TotalCases)
	assert.Equal(t, 2, verdict.PassedCases)
	assert.Equal(t, 1, verdict.HiddenPassedCount)
	assert.Equal(t, "3", verdict.FirstFailure.Input)
	assert.Equal(t, []string{"1", "2", "3"}, f.executor.inputs)
}

func TestGradeSubmission_CompileErrorIsAVerdict(t *testing.T) {
	f := newFixture(t)
	f.executor.outcome = func(string) (*domain.ExecutionOutcome, error) {
		return &domain.ExecutionOutcome{Stderr: "main.c:1: error: expected ';'\n", ExitCode: 1, CompileFailed: true}, nil
	}
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)
	f.ledger.EXPECT().UpsertBestScore(gomock.Any(), "u1", int64(7), "c1", 0).Return(nil)
	f.submissions.EXPECT().SaveSubmission(gomock.Any(), gomock.Any()).Return(nil)

	verdict, err := f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u1", "c1", 7, "python", "x"))
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictWrongAnswer, verdict.Status)
	require.NotNil(t, verdict.FirstFailure.Error)
	assert.Equal(t, "main.c:1: error: expected ';'", *verdict.FirstFailure.Error)
	assert.Equal(t, []string{"compile_error"}, f.metrics.cases)
}

func TestPreviewRun_TimeoutIsReportedPerCase(t *testing.T) {
	f := newFixture(t)
	f.executor.outcome = func(string) (*domain.ExecutionOutcome, error) {
		return &domain.ExecutionOutcome{Stdout: "4", TimedOut: true, ExitCode: -1}, nil
	}
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)

	results, err := f.svc.PreviewRun(context.Background(), "python", doubler, 7)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed, "a timed out run never passes")
	require.NotNil(t, results[0].Error)
	assert.Equal(t, domain.TimeLimitExceeded, *results[0].Error)
}

func TestGradeSubmission_SandboxUnavailableAborts(t *testing.T) {
	f := newFixture(t)
	f.executor.outcome = func(string) (*domain.ExecutionOutcome, error) {
		return nil, errors.New("docker daemon not reachable")
	}
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)

	_, err := f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u1", "c1", 7, "python", doubler))
	assert.ErrorIs(t, err, errs.ErrSandboxUnavailable)
	assert.Equal(t, []string{"grade:error"}, f.metrics.evaluations)
}

func TestLoadFailuresAbortBeforeExecution(t *testing.T) {
	f := newFixture(t)
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(404)).Return(domain.TestCaseSet{}, errs.ErrQuestionNotFound).Times(2)

	_, err := f.svc.PreviewRun(context.Background(), "python", doubler, 404)
	assert.ErrorIs(t, err, errs.ErrQuestionNotFound)
	_, err = f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u1", "c1", 404, "python", doubler))
	assert.ErrorIs(t, err, errs.ErrQuestionNotFound)

	assert.Empty(t, f.executor.inputs)
}

func TestEmptyCaseSets(t *testing.T) {
	f := newFixture(t)
	hiddenOnly := domain.TestCaseSet{Hidden: []domain.TestCase{{Input: "1", ExpectedOutput: "2"}}}
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(1)).Return(hiddenOnly, nil)
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(2)).Return(domain.TestCaseSet{}, nil)

	_, err := f.svc.PreviewRun(context.Background(), "python", doubler, 1)
	assert.ErrorIs(t, err, errs.ErrNoVisibleCases)

	_, err = f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u1", "c1", 2, "python", doubler))
	assert.ErrorIs(t, err, errs.ErrNoCases)

	assert.Empty(t, f.executor.inputs)
}

func TestGradeSubmission_LedgerFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)
	f.ledger.EXPECT().UpsertBestScore(gomock.Any(), "u1", int64(7), "c1", 1).Return(errors.New("connection reset"))

	_, err := f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u1", "c1", 7, "python", doubler))
	assert.ErrorContains(t, err, "connection reset")
}

func TestGradeSubmission_HistoryFailureDoesNotMaskVerdict(t *testing.T) {
	f := newFixture(t)
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)
	f.ledger.EXPECT().UpsertBestScore(gomock.Any(), "u1", int64(7), "c1", 1).Return(nil)
	f.submissions.EXPECT().SaveSubmission(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	verdict, err := f.svc.GradeSubmission(context.Background(), domain.NewSubmission("u1", "c1", 7, "python", doubler))
	require.NoError(t, err)
	assert.True(t, verdict.Accepted())
}

func TestGradeSubmission_StopsWhenCallerGoesAway(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.executor.outcome = func(stdin string) (*domain.ExecutionOutcome, error) {
		cancel()
		return &domain.ExecutionOutcome{Stdout: "4"}, nil
	}
	f.cases.EXPECT().LoadCaseSet(gomock.Any(), int64(7)).Return(scenarioSet(), nil)

	_, err := f.svc.GradeSubmission(ctx, domain.NewSubmission("u1", "c1", 7, "python", doubler))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"2"}, f.executor.inputs, "no new case starts after cancellation")
}
