package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.ErrUnsupportedLanguage, http.StatusBadRequest},
		{errs.ErrNoVisibleCases, http.StatusBadRequest},
		{fmt.Errorf("load: %w", errs.ErrQuestionNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad json", errs.ErrMalformedTestCases), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: daemon down", errs.ErrSandboxUnavailable), http.StatusServiceUnavailable},
		{errs.ErrRateLimited, http.StatusTooManyRequests},
		{errs.ErrInvalidToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestWriteErrorFrom_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorFrom(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"internal error","status_code":500}`, rec.Body.String())
}
