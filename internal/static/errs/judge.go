package errs

import "errors"

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrMalformedTestCases  = errors.New("malformed test cases")
	ErrNoCases             = errors.New("question has no test cases")
	ErrNoVisibleCases      = errors.New("question has no visible test cases")
	// ErrSandboxUnavailable is returned when the sandbox itself fails, never
	// when the submitted program does.
	ErrSandboxUnavailable = errors.New("sandbox unavailable")
	ErrInternal           = errors.New("internal error")
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrRateLimited        = errors.New("too many requests")
	ErrSubmissionNotFound = errors.New("submission not found")
)
