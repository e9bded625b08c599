// Package sandbox prepares a private workspace for each run, builds the
// compile/run plan for a language profile and hands it to an isolator.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/domain"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

var _ secondary.CodeExecutor = (*Executor)(nil)

const (
	stepCompile = "compile"
	stepRun     = "run"

	workspacePrefix = "run-"
)

type Config struct {
	// WorkspaceRoot is the directory under which per-run workspaces are created
	WorkspaceRoot string
	Limits        secondary.Limits
}

// Executor implements secondary.CodeExecutor on top of an Isolator
type Executor struct {
	isolator secondary.Isolator
	cfg      Config
	logger   primary.Logger
}

func NewExecutor(isolator secondary.Isolator, cfg Config, logger primary.Logger) *Executor {
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = filepath.Join(os.TempDir(), "codejudge")
	}
	return &Executor{
		isolator: isolator,
		cfg:      cfg,
		logger:   logger,
	}
}

// fileNames are the workspace-relative names used by one run
type fileNames struct {
	source string
	input  string
	binary string
}

func newFileNames(runID, extension string) fileNames {
	return fileNames{
		source: fmt.Sprintf("code-%s.%s", runID, strings.TrimPrefix(extension, ".")),
		input:  fmt.Sprintf("input-%s.txt", runID),
		binary: fmt.Sprintf("bin-%s", runID),
	}
}

func (e *Executor) Execute(ctx context.Context, profile domain.LanguageProfile, source, stdin string, timeout time.Duration) (*domain.ExecutionOutcome, error) {
	runID := uuid.NewString()
	names := newFileNames(runID, profile.FileExtension)

	steps, err := buildSteps(profile, names)
	if err != nil {
		e.logger.Error("Invalid command template", "language", profile.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrSandboxUnavailable, err)
	}

	workspace, err := e.prepareWorkspace(runID, names, source, stdin)
	if workspace != "" {
		defer e.releaseWorkspace(runID, workspace)
	}
	if err != nil {
		e.logger.Error("Failed to prepare workspace", "runId", runID, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrSandboxUnavailable, err)
	}

	inv := secondary.Invocation{
		RunID:     runID,
		Image:     profile.Image,
		Workspace: workspace,
		Steps:     steps,
		Timeout:   timeout,
		Limits:    e.cfg.Limits,
	}

	e.logger.Debug("Starting sandbox run", "runId", runID, "language", profile.ID, "steps", len(steps), "timeout", timeout)

	// Once started, a run is only bounded by its own timeout. The workspace
	// must outlive every process that may still be using it.
	raw, err := e.isolator.Run(context.WithoutCancel(ctx), inv)
	if err != nil {
		e.logger.Error("Isolator failed", "runId", runID, "language", profile.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrSandboxUnavailable, err)
	}

	outcome := toOutcome(raw, profile.NeedsCompile())
	e.logger.Debug("Sandbox run finished",
		"runId", runID,
		"exitCode", outcome.ExitCode,
		"timedOut", outcome.TimedOut,
		"compileFailed", outcome.CompileFailed,
		"duration", outcome.Duration)
	return outcome, nil
}

func (e *Executor) prepareWorkspace(runID string, names fileNames, source, stdin string) (string, error) {
	if err := os.MkdirAll(e.cfg.WorkspaceRoot, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace root: %w", err)
	}
	workspace := filepath.Join(e.cfg.WorkspaceRoot, workspacePrefix+runID)
	if err := os.Mkdir(workspace, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}
	// The sandboxed user may differ from ours and must be able to write the binary.
	if err := os.Chmod(workspace, 0o777); err != nil {
		return workspace, fmt.Errorf("failed to open workspace permissions: %w", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, names.source), []byte(source), 0o644); err != nil {
		return workspace, fmt.Errorf("failed to write source: %w", err)
	}
	if err := os.WriteFile(filepath.Join(workspace, names.input), []byte(stdin), 0o644); err != nil {
		return workspace, fmt.Errorf("failed to write input: %w", err)
	}
	return workspace, nil
}

func (e *Executor) releaseWorkspace(runID, workspace string) {
	if err := os.RemoveAll(workspace); err != nil {
		e.logger.Warn("Failed to remove workspace", "runId", runID, "workspace", workspace, "error", err)
	}
}

func buildSteps(profile domain.LanguageProfile, names fileNames) ([]secondary.Step, error) {
	steps := make([]secondary.Step, 0, 2)
	if profile.NeedsCompile() {
		argv, err := expandTemplate(*profile.CompileCommand, names)
		if err != nil {
			return nil, fmt.Errorf("compile command of %q: %w", profile.ID, err)
		}
		steps = append(steps, secondary.Step{Name: stepCompile, Argv: argv})
	}

	argv, err := expandTemplate(profile.RunCommand, names)
	if err != nil {
		return nil, fmt.Errorf("run command of %q: %w", profile.ID, err)
	}
	steps = append(steps, secondary.Step{Name: stepRun, Argv: argv, StdinFile: names.input})
	return steps, nil
}

// expandTemplate splits a command template into words and substitutes
// placeholders inside each word. File names never pass through a shell.
func expandTemplate(template string, names fileNames) ([]string, error) {
	words, err := shlex.Split(template)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("empty command")
	}
	replacer := strings.NewReplacer(
		domain.PlaceholderSource, names.source,
		domain.PlaceholderBinary, names.binary,
	)
	for i, w := range words {
		words[i] = replacer.Replace(w)
	}
	return words, nil
}

func toOutcome(raw *secondary.RawResult, hasCompileStep bool) *domain.ExecutionOutcome {
	last := raw.Last()
	outcome := &domain.ExecutionOutcome{
		Stdout:   last.Stdout,
		Stderr:   last.Stderr,
		ExitCode: last.ExitCode,
		TimedOut: raw.TimedOut,
		Duration: raw.Duration,
	}
	if raw.TimedOut {
		outcome.Stdout = ""
		return outcome
	}
	if hasCompileStep && last.Name == stepCompile && last.ExitCode != 0 {
		outcome.CompileFailed = true
		outcome.Stdout = ""
		if strings.TrimSpace(last.Stderr) == "" {
			outcome.Stderr = last.Stdout
		}
	}
	return outcome
}
