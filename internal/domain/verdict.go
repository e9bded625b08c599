package domain

import "github.com/google/uuid"

type VerdictStatus string

const (
	VerdictAccepted    VerdictStatus = "Accepted"
	VerdictWrongAnswer VerdictStatus = "WrongAnswer"
)

// Verdict is the outcome of grading a submission
type Verdict struct {
	SubmissionID      uuid.UUID     `json:"submission_id"`
	Status            VerdictStatus `json:"status"`
	TotalCases        int           `json:"total_cases"`
	PassedCases       int           `json:"passed_cases"`
	HiddenPassedCount int           `json:"hidden_passed_count"`
	FirstFailure      *CaseResult   `json:"failed_case"`
}

func (v Verdict) Accepted() bool {
	return v.Status == VerdictAccepted
}
