package solutions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
)

// NumericID accepts a JSON number or a string holding one.
type NumericID int64

func (id *NumericID) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = NumericID(value)
	return nil
}

// TextID accepts a JSON string or number and keeps its text.
type TextID string

func (id *TextID) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*id = TextID(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = TextID(number.String())
	return nil
}

// RunRequest represents a request to run a solution against the visible cases
type RunRequest struct {
	Language   string    `json:"language"`
	Solution   string    `json:"solution"`
	QuestionID NumericID `json:"questionId"`
}

type RunResponse struct {
	Results []domain.CaseResult `json:"results"`
}

// SubmitRequest represents a graded submission
type SubmitRequest struct {
	Language   string    `json:"language"`
	Solution   string    `json:"solution"`
	QuestionID NumericID `json:"questionId"`
	CourseID   TextID    `json:"courseId"`
}
