package secondary

import (
	"context"
	"time"
)

// Step is one process started inside an isolated session.
type Step struct {
	Name string
	Argv []string
	// StdinFile is relative to the workspace, empty for no input.
	StdinFile string
}

type Limits struct {
	MemoryBytes    int64
	PidsLimit      int64
	MaxOutputBytes int64
}

// Invocation describes one isolated session over a prepared workspace.
// Steps run in order and the session stops at the first non-zero exit.
type Invocation struct {
	RunID     string
	Image     string
	Workspace string
	Steps     []Step
	Timeout   time.Duration
	Limits    Limits
}

type StepResult struct {
	Name     string
	Stdout   string
	Stderr   string
	ExitCode int
}

// RawResult holds the result of every step that started. When TimedOut is
// set the last entry belongs to the step that was killed.
type RawResult struct {
	Steps    []StepResult
	TimedOut bool
	Duration time.Duration
}

func (r *RawResult) Last() StepResult {
	if len(r.Steps) == 0 {
		return StepResult{}
	}
	return r.Steps[len(r.Steps)-1]
}

// Isolator runs an invocation under a wall-clock budget and kills every
// process it started once the budget is spent.
type Isolator interface {
	Run(ctx context.Context, inv Invocation) (*RawResult, error)
}
