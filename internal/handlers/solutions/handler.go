package solutions

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/judge"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

// SolutionHandler handles run and submit requests
type SolutionHandler struct {
	judgeService judge.IJudgeService
	logger       primary.Logger
}

// NewSolutionHandler creates a new solution handler
func NewSolutionHandler(judgeService judge.IJudgeService, logger primary.Logger) *SolutionHandler {
	return &SolutionHandler{
		judgeService: judgeService,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for SolutionHandler. Both routes
// pass through admit; submit also requires an authenticated caller.
func (h *SolutionHandler) RegisterRoutes(router *mux.Router, auth, admit mux.MiddlewareFunc) {
	router.Handle("/api/solutions/run", admit(http.HandlerFunc(h.Run))).Methods("POST")
	router.Handle("/api/solutions/submit", auth(admit(http.HandlerFunc(h.Submit)))).Methods("POST")
}

// Run executes the solution against the visible cases of a question
func (h *SolutionHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Failed to decode request", "error", err)
		response.WriteErrorFrom(w, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err))
		return
	}
	if req.QuestionID <= 0 {
		response.WriteErrorFrom(w, fmt.Errorf("%w: questionId is required", errs.ErrInvalidRequest))
		return
	}

	results, err := h.judgeService.PreviewRun(r.Context(), req.Language, req.Solution, int64(req.QuestionID))
	if err != nil {
		h.writeFailure(w, "Failed to run solution", err)
		return
	}

	response.WriteSuccess(w, RunResponse{Results: results})
}

// Submit grades the solution against every case and records the score
func (h *SolutionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.IdentityFrom(r.Context())
	if !ok {
		response.WriteErrorFrom(w, errs.ErrMissingUserID)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Failed to decode request", "error", err)
		response.WriteErrorFrom(w, fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err))
		return
	}
	if req.QuestionID <= 0 {
		response.WriteErrorFrom(w, fmt.Errorf("%w: questionId is required", errs.ErrInvalidRequest))
		return
	}
	if req.CourseID == "" {
		response.WriteErrorFrom(w, fmt.Errorf("%w: courseId is required", errs.ErrInvalidRequest))
		return
	}

	submission := domain.NewSubmission(identity.UserID, string(req.CourseID), int64(req.QuestionID), req.Language, req.Solution)
	verdict, err := h.judgeService.GradeSubmission(r.Context(), submission)
	if err != nil {
		h.writeFailure(w, "Failed to grade submission", err)
		return
	}

	response.WriteSuccess(w, verdict)
}

func (h *SolutionHandler) writeFailure(w http.ResponseWriter, msg string, err error) {
	if response.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(msg, "error", err)
	} else {
		h.logger.Debug(msg, "error", err)
	}
	response.WriteErrorFrom(w, err)
}
