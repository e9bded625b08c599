package solutions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

type stubJudge struct {
	previewResults []domain.CaseResult
	verdict        *domain.Verdict
	err            error

	gotLanguage   string
	gotQuestionID int64
	gotSubmission *domain.Submission
}

func (s *stubJudge) PreviewRun(ctx context.Context, languageID, source string, questionID int64) ([]domain.CaseResult, error) {
	s.gotLanguage = languageID
	s.gotQuestionID = questionID
	return s.previewResults, s.err
}

func (s *stubJudge) GradeSubmission(ctx context.Context, submission *domain.Submission) (*domain.Verdict, error) {
	s.gotSubmission = submission
	return s.verdict, s.err
}

func passthrough(next http.Handler) http.Handler { return next }

// asUser stands in for the JWT middleware
func asUser(userID string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(handlers.WithIdentity(r.Context(), primary.Identity{UserID: userID})))
		})
	}
}

func newRouter(judge *stubJudge, auth mux.MiddlewareFunc) *mux.Router {
	router := mux.NewRouter()
	NewSolutionHandler(judge, logging.NewNopLogger()).RegisterRoutes(router, auth, passthrough)
	return router
}

func do(router http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestRun(t *testing.T) {
	judge := &stubJudge{previewResults: []domain.CaseResult{
		{Input: "2", ExpectedOutput: "4", ActualOutput: "4", Passed: true},
	}}
	router := newRouter(judge, asUser("u1"))

	rec := do(router, "/api/solutions/run", `{"language":"python","solution":"print(4)","questionId":"12"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "python", judge.gotLanguage)
	assert.Equal(t, int64(12), judge.gotQuestionID)
	assert.JSONEq(t, `{"results":[{"input":"2","expected_output":"4","user_output":"4","passed":true,"error":null}]}`, rec.Body.String())
}

func TestRun_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.ErrUnsupportedLanguage, http.StatusBadRequest},
		{errs.ErrNoVisibleCases, http.StatusBadRequest},
		{errs.ErrQuestionNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: bad", errs.ErrMalformedTestCases), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: docker down", errs.ErrSandboxUnavailable), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		router := newRouter(&stubJudge{err: tc.err}, asUser("u1"))
		rec := do(router, "/api/solutions/run", `{"language":"python","solution":"","questionId":1}`)
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

func TestRun_InvalidBody(t *testing.T) {
	router := newRouter(&stubJudge{}, asUser("u1"))

	assert.Equal(t, http.StatusBadRequest, do(router, "/api/solutions/run", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, "/api/solutions/run", `{"language":"python"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, "/api/solutions/run", `{"questionId":"abc"}`).Code)
}

func TestSubmit(t *testing.T) {
	id := uuid.New()
	judge := &stubJudge{verdict: &domain.Verdict{
		SubmissionID:      id,
		Status:            domain.VerdictAccepted,
		TotalCases:        5,
		PassedCases:       5,
		HiddenPassedCount: 2,
	}}
	router := newRouter(judge, asUser("student-9"))

	rec := do(router, "/api/solutions/submit", `{"language":"cpp","solution":"int main(){}","questionId":3,"courseId":17}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, judge.gotSubmission)
	assert.Equal(t, "student-9", judge.gotSubmission.UserID)
	assert.Equal(t, "17", judge.gotSubmission.ScoringGroupID)
	assert.Equal(t, int64(3), judge.gotSubmission.QuestionID)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id.String(), body["submission_id"])
	assert.Equal(t, "Accepted", body["status"])
	assert.Equal(t, float64(2), body["hidden_passed_count"])
	assert.Nil(t, body["failed_case"])
}

func TestSubmit_RequiresIdentityAndCourse(t *testing.T) {
	router := newRouter(&stubJudge{}, passthrough)
	rec := do(router, "/api/solutions/submit", `{"language":"cpp","questionId":3,"courseId":"c1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	router = newRouter(&stubJudge{}, asUser("u1"))
	rec = do(router, "/api/solutions/submit", `{"language":"cpp","questionId":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_InternalErrorHidden(t *testing.T) {
	router := newRouter(&stubJudge{err: fmt.Errorf("failed to record score: %w", assert.AnError)}, asUser("u1"))

	rec := do(router, "/api/solutions/submit", `{"language":"cpp","questionId":3,"courseId":"c1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "record score")
}
