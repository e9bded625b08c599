package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// StatusFor maps a judge error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnsupportedLanguage),
		errors.Is(err, errs.ErrNoCases),
		errors.Is(err, errs.ErrNoVisibleCases),
		errors.Is(err, errs.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrQuestionNotFound),
		errors.Is(err, errs.ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrMalformedTestCases):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrSandboxUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrMissingToken),
		errors.Is(err, errs.ErrInvalidToken),
		errors.Is(err, errs.ErrMissingUserID):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorFrom writes err with its mapped status. Unmapped errors are
// reported without their detail.
func WriteErrorFrom(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = errs.ErrInternal.Error()
	}
	WriteError(w, ErrorMessage{Message: message, StatusCode: status})
}
