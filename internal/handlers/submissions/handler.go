package submissions

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

// SubmissionHandler serves the caller's graded submission history
type SubmissionHandler struct {
	submissions secondary.SubmissionRepository
	logger      primary.Logger
}

func NewSubmissionHandler(submissions secondary.SubmissionRepository, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		logger:      logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router, auth mux.MiddlewareFunc) {
	router.Handle("/api/submissions", auth(http.HandlerFunc(h.ListSubmissions))).Methods("GET")
	router.Handle("/api/submissions/{submissionId}", auth(http.HandlerFunc(h.GetSubmission))).Methods("GET")
}

// GetSubmission returns one stored submission. Records of other users are
// reported as missing.
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.IdentityFrom(r.Context())
	if !ok {
		response.WriteErrorFrom(w, errs.ErrMissingUserID)
		return
	}

	idStr := mux.Vars(r)["submissionId"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Debug("Invalid submission ID", "id", idStr)
		response.WriteErrorFrom(w, fmt.Errorf("%w: invalid submission id", errs.ErrInvalidRequest))
		return
	}

	record, err := h.submissions.GetSubmission(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get submission", "error", err)
		response.WriteErrorFrom(w, err)
		return
	}
	if record == nil || record.UserID != identity.UserID {
		response.WriteErrorFrom(w, errs.ErrSubmissionNotFound)
		return
	}

	response.WriteSuccess(w, record)
}

// ListSubmissions returns the caller's latest submissions, optionally for one question
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.IdentityFrom(r.Context())
	if !ok {
		response.WriteErrorFrom(w, errs.ErrMissingUserID)
		return
	}

	filter := secondary.SubmissionFilter{UserID: identity.UserID}
	query := r.URL.Query()
	if raw := query.Get("questionId"); raw != "" {
		questionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.WriteErrorFrom(w, fmt.Errorf("%w: invalid questionId", errs.ErrInvalidRequest))
			return
		}
		filter.QuestionID = questionID
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.WriteErrorFrom(w, fmt.Errorf("%w: invalid limit", errs.ErrInvalidRequest))
			return
		}
		filter.Limit = limit
	}

	records, err := h.submissions.ListSubmissions(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		response.WriteErrorFrom(w, err)
		return
	}
	if records == nil {
		records = []*domain.SubmissionRecord{}
	}

	response.WriteSuccess(w, map[string][]*domain.SubmissionRecord{"submissions": records})
}
