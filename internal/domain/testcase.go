package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

// VisibleCaseCount is how many cases of a flat case list are shown to the student.
const VisibleCaseCount = 3

// TestCase represents a single input/expected-output pair
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// TestCaseSet is the normalized, ordered case list of a question.
// Visible cases always come first; order is significant for grading.
type TestCaseSet struct {
	Visible []TestCase `json:"examples"`
	Hidden  []TestCase `json:"hidden"`
}

// All returns visible cases followed by hidden cases.
func (s TestCaseSet) All() []TestCase {
	all := make([]TestCase, 0, len(s.Visible)+len(s.Hidden))
	all = append(all, s.Visible...)
	return append(all, s.Hidden...)
}

func (s TestCaseSet) Len() int {
	return len(s.Visible) + len(s.Hidden)
}

// IsHidden reports whether the case at position i of All() is hidden.
func (s TestCaseSet) IsHidden(i int) bool {
	return i >= len(s.Visible)
}

// ParseTestCaseSet normalizes a stored case payload. Two shapes are accepted:
// a flat array (the first VisibleCaseCount entries are visible) and an object
// with "examples" and "hidden" arrays. Either shape may arrive wrapped in a
// JSON string literal, which is unwrapped once.
func ParseTestCaseSet(raw []byte) (TestCaseSet, error) {
	return parseTestCaseSet(raw, true)
}

func parseTestCaseSet(raw []byte, allowString bool) (TestCaseSet, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return TestCaseSet{}, fmt.Errorf("%w: empty payload", errs.ErrMalformedTestCases)
	}

	switch trimmed[0] {
	case '[':
		var flat []TestCase
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return TestCaseSet{}, fmt.Errorf("%w: %v", errs.ErrMalformedTestCases, err)
		}
		return splitFlat(flat), nil
	case '{':
		var partitioned struct {
			Examples *[]TestCase `json:"examples"`
			Hidden   *[]TestCase `json:"hidden"`
		}
		if err := json.Unmarshal(trimmed, &partitioned); err != nil {
			return TestCaseSet{}, fmt.Errorf("%w: %v", errs.ErrMalformedTestCases, err)
		}
		if partitioned.Examples == nil && partitioned.Hidden == nil {
			return TestCaseSet{}, fmt.Errorf("%w: object has neither examples nor hidden", errs.ErrMalformedTestCases)
		}
		set := TestCaseSet{Visible: []TestCase{}, Hidden: []TestCase{}}
		if partitioned.Examples != nil {
			set.Visible = *partitioned.Examples
		}
		if partitioned.Hidden != nil {
			set.Hidden = *partitioned.Hidden
		}
		return set, nil
	case '"':
		if !allowString {
			return TestCaseSet{}, fmt.Errorf("%w: nested string encoding", errs.ErrMalformedTestCases)
		}
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return TestCaseSet{}, fmt.Errorf("%w: %v", errs.ErrMalformedTestCases, err)
		}
		return parseTestCaseSet([]byte(inner), false)
	default:
		return TestCaseSet{}, fmt.Errorf("%w: unexpected payload shape", errs.ErrMalformedTestCases)
	}
}

func splitFlat(flat []TestCase) TestCaseSet {
	n := min(VisibleCaseCount, len(flat))
	set := TestCaseSet{
		Visible: make([]TestCase, n),
		Hidden:  make([]TestCase, len(flat)-n),
	}
	copy(set.Visible, flat[:n])
	copy(set.Hidden, flat[n:])
	return set
}
