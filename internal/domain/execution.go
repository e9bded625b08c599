package domain

import "time"

// TimeLimitExceeded is the error text reported for a case that ran out of time.
const TimeLimitExceeded = "time limit exceeded"

// ExecutionOutcome is the raw result of running one program on one input.
// A failing program is described here; it is never an error.
type ExecutionOutcome struct {
	Stdout        string        `json:"stdout"`
	Stderr        string        `json:"stderr"`
	ExitCode      int           `json:"exit_code"`
	TimedOut      bool          `json:"timed_out"`
	CompileFailed bool          `json:"compile_failed"`
	Duration      time.Duration `json:"duration"`
}

// CaseResult is the judged result of one test case
type CaseResult struct {
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expected_output"`
	ActualOutput   string  `json:"user_output"`
	Passed         bool    `json:"passed"`
	Error          *string `json:"error"`
}
