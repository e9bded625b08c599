package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents source code submitted for grading
type Submission struct {
	ID             uuid.UUID
	UserID         string
	ScoringGroupID string
	QuestionID     int64
	Language       string
	Source         string
	SubmittedAt    time.Time
}

// NewSubmission creates a new submission
func NewSubmission(userID, scoringGroupID string, questionID int64, language, source string) *Submission {
	return &Submission{
		ID:             uuid.New(),
		UserID:         userID,
		ScoringGroupID: scoringGroupID,
		QuestionID:     questionID,
		Language:       language,
		Source:         source,
		SubmittedAt:    time.Now(),
	}
}

// SubmissionRecord is the stored summary of a graded submission
type SubmissionRecord struct {
	ID                uuid.UUID     `db:"id" json:"submission_id"`
	UserID            string        `db:"user_id" json:"user_id"`
	ScoringGroupID    string        `db:"scoring_group_id" json:"course_id"`
	QuestionID        int64         `db:"question_id" json:"question_id"`
	Language          string        `db:"language" json:"language"`
	Source            string        `db:"source" json:"solution"`
	Status            VerdictStatus `db:"status" json:"status"`
	TotalCases        int           `db:"total_cases" json:"total_cases"`
	PassedCases       int           `db:"passed_cases" json:"passed_cases"`
	HiddenPassedCount int           `db:"hidden_passed_count" json:"hidden_passed_count"`
	FirstFailure      *CaseResult   `db:"-" json:"failed_case"`
	SubmittedAt       time.Time     `db:"submitted_at" json:"submitted_at"`
}

// NewSubmissionRecord combines a submission and its verdict
func NewSubmissionRecord(sub *Submission, verdict *Verdict) *SubmissionRecord {
	return &SubmissionRecord{
		ID:                sub.ID,
		UserID:            sub.UserID,
		ScoringGroupID:    sub.ScoringGroupID,
		QuestionID:        sub.QuestionID,
		Language:          sub.Language,
		Source:            sub.Source,
		Status:            verdict.Status,
		TotalCases:        verdict.TotalCases,
		PassedCases:       verdict.PassedCases,
		HiddenPassedCount: verdict.HiddenPassedCount,
		FirstFailure:      verdict.FirstFailure,
		SubmittedAt:       sub.SubmittedAt,
	}
}

type SubmissionTable struct {
	ID                string
	UserID            string
	ScoringGroupID    string
	QuestionID        string
	Language          string
	Source            string
	Status            string
	TotalCases        string
	PassedCases       string
	HiddenPassedCount string
	FirstFailure      string
	SubmittedAt       string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:                "id",
		UserID:            "user_id",
		ScoringGroupID:    "scoring_group_id",
		QuestionID:        "question_id",
		Language:          "language",
		Source:            "source",
		Status:            "status",
		TotalCases:        "total_cases",
		PassedCases:       "passed_cases",
		HiddenPassedCount: "hidden_passed_count",
		FirstFailure:      "first_failure",
		SubmittedAt:       "submitted_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}
