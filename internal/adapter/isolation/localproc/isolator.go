// Package localproc runs invocations as plain host processes. It enforces the
// time budget and kills whole process trees, but provides no isolation, so it
// is meant for development machines and tests.
package localproc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/isolation"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
)

var _ secondary.Isolator = (*Isolator)(nil)

// waitDelay bounds how long Wait keeps draining pipes after the process is killed.
const waitDelay = 500 * time.Millisecond

type Isolator struct {
	logger primary.Logger
}

func NewIsolator(logger primary.Logger) *Isolator {
	return &Isolator{logger: logger}
}

func (i *Isolator) Run(ctx context.Context, inv secondary.Invocation) (*secondary.RawResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	start := time.Now()
	result := &secondary.RawResult{}
	for _, step := range inv.Steps {
		stepResult, killed, err := i.runStep(runCtx, inv, step)
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, *stepResult)

		if killed {
			result.TimedOut = true
			i.logger.Debug("Run exceeded its time budget", "runId", inv.RunID, "step", step.Name)
			break
		}
		if stepResult.ExitCode != 0 {
			break
		}
	}
	result.Duration = time.Since(start)
	return result, nil
}

// runStep reports killed when the budget ran out before the step exited cleanly.
func (i *Isolator) runStep(ctx context.Context, inv secondary.Invocation, step secondary.Step) (*secondary.StepResult, bool, error) {
	if len(step.Argv) == 0 {
		return nil, false, fmt.Errorf("step %q has no command", step.Name)
	}

	cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...)
	cmd.Dir = inv.Workspace
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	stdout := isolation.NewLimitedBuffer(inv.Limits.MaxOutputBytes)
	stderr := isolation.NewLimitedBuffer(inv.Limits.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if step.StdinFile != "" {
		in, err := os.Open(filepath.Join(inv.Workspace, step.StdinFile))
		if err != nil {
			return nil, false, fmt.Errorf("failed to open stdin for step %q: %w", step.Name, err)
		}
		defer in.Close()
		cmd.Stdin = in
	}

	if err := cmd.Start(); err != nil {
		// The deadline may already be spent by an earlier step.
		if ctx.Err() != nil {
			return &secondary.StepResult{Name: step.Name, ExitCode: -1}, true, nil
		}
		return nil, false, fmt.Errorf("failed to start step %q: %w", step.Name, err)
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.Is(err, exec.ErrWaitDelay), errors.As(err, &exitErr):
	default:
		if ctx.Err() == nil {
			return nil, false, fmt.Errorf("failed to wait for step %q: %w", step.Name, err)
		}
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	killed := ctx.Err() != nil && exitCode != 0
	return &secondary.StepResult{
		Name:     step.Name,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, killed, nil
}
