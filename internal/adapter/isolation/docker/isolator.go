// Package docker runs invocations inside a throwaway container per run.
// The run workspace is bind-mounted into the container and every step is an
// exec in that container, so compile output is visible to the run step.
package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/isolation"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
)

var _ secondary.Isolator = (*Isolator)(nil)

const (
	defaultContainerWorkdir = "/workspace"
	defaultPidsLimit        = 64
	removeTimeout           = 10 * time.Second
	inspectPollInterval     = 10 * time.Millisecond
	runLabel                = "codejudge.run"
)

type Config struct {
	// LocalRoot is the workspace root as seen by this process.
	LocalRoot string
	// HostRoot is the same directory as seen by the docker daemon. Empty
	// when both see the same path.
	HostRoot         string
	ContainerWorkdir string
	CPUQuota         int64
}

type Isolator struct {
	api    engine
	cfg    Config
	logger primary.Logger
}

func NewIsolator(cfg Config, logger primary.Logger) (*Isolator, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return newIsolator(clientEngine{cli: cli}, cfg, logger), nil
}

func newIsolator(api engine, cfg Config, logger primary.Logger) *Isolator {
	if cfg.ContainerWorkdir == "" {
		cfg.ContainerWorkdir = defaultContainerWorkdir
	}
	return &Isolator{api: api, cfg: cfg, logger: logger}
}

// Ping checks that the daemon answers
func (d *Isolator) Ping(ctx context.Context) error {
	return d.api.Ping(ctx)
}

func (d *Isolator) Close() error {
	return d.api.Close()
}

func (d *Isolator) Run(ctx context.Context, inv secondary.Invocation) (*secondary.RawResult, error) {
	bind, err := d.hostPath(inv.Workspace)
	if err != nil {
		return nil, err
	}

	pidsLimit := inv.Limits.PidsLimit
	if pidsLimit <= 0 {
		pidsLimit = defaultPidsLimit
	}
	cpuQuota := d.cfg.CPUQuota
	if cpuQuota <= 0 {
		cpuQuota = 100000
	}

	containerID, err := d.api.ContainerCreate(ctx, &container.Config{
		Image:           inv.Image,
		Cmd:             []string{"sleep", "infinity"},
		Tty:             false,
		NetworkDisabled: true,
		WorkingDir:      d.cfg.ContainerWorkdir,
		Labels:          map[string]string{runLabel: inv.RunID},
	}, &container.HostConfig{
		Binds: []string{fmt.Sprintf("%s:%s:rw", bind, d.cfg.ContainerWorkdir)},
		Resources: container.Resources{
			Memory:     inv.Limits.MemoryBytes,
			MemorySwap: inv.Limits.MemoryBytes,
			CPUQuota:   cpuQuota,
			PidsLimit:  &pidsLimit,
		},
		NetworkMode: "none",
		SecurityOpt: []string{"no-new-privileges"},
		CapDrop:     []string{"ALL"},
		Tmpfs: map[string]string{
			"/tmp": "rw,noexec,nosuid,size=16m,mode=1777",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	removed := false
	remove := func() {
		if removed {
			return
		}
		removed = true
		rmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), removeTimeout)
		defer cancel()
		if err := d.api.ContainerRemove(rmCtx, containerID); err != nil {
			d.logger.Warn("Failed to remove container", "runId", inv.RunID, "container", containerID, "error", err)
		}
	}
	defer remove()

	if err := d.api.ContainerStart(ctx, containerID); err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	deadline := time.NewTimer(inv.Timeout)
	defer deadline.Stop()

	start := time.Now()
	result := &secondary.RawResult{}
	for _, step := range inv.Steps {
		stepResult, timedOut, err := d.runStep(ctx, containerID, inv, step, deadline.C, remove)
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, *stepResult)
		if timedOut {
			result.TimedOut = true
			d.logger.Debug("Run exceeded its time budget", "runId", inv.RunID, "step", step.Name)
			break
		}
		if stepResult.ExitCode != 0 {
			break
		}
	}
	result.Duration = time.Since(start)
	return result, nil
}

// runStep execs one step. When the deadline fires first, either while output
// is streaming or while waiting for the exit code, kill removes the container,
// which terminates every process in it.
func (d *Isolator) runStep(
	ctx context.Context,
	containerID string,
	inv secondary.Invocation,
	step secondary.Step,
	deadline <-chan time.Time,
	kill func(),
) (*secondary.StepResult, bool, error) {
	var stdin *os.File
	if step.StdinFile != "" {
		f, err := os.Open(filepath.Join(inv.Workspace, step.StdinFile))
		if err != nil {
			return nil, false, fmt.Errorf("failed to open stdin for step %q: %w", step.Name, err)
		}
		defer f.Close()
		stdin = f
	}

	execID, err := d.api.ExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          step.Argv,
		WorkingDir:   d.cfg.ContainerWorkdir,
		AttachStdout: true,
		AttachStderr: true,
		AttachStdin:  stdin != nil,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create %s exec: %w", step.Name, err)
	}

	attach, err := d.api.ExecAttach(ctx, execID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to attach %s exec: %w", step.Name, err)
	}
	defer attach.Close()

	if stdin != nil {
		go func() {
			_, _ = io.Copy(attach, stdin)
			_ = attach.CloseWrite()
		}()
	}

	stdout := isolation.NewLimitedBuffer(inv.Limits.MaxOutputBytes)
	stderr := isolation.NewLimitedBuffer(inv.Limits.MaxOutputBytes)
	done := make(chan error, 1)
	go func() {
		_, err := stdcopy.StdCopy(stdout, stderr, attach)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, false, fmt.Errorf("failed to read %s output: %w", step.Name, err)
		}
	case <-deadline:
		kill()
		_ = attach.Close()
		<-done
		return &secondary.StepResult{
			Name:     step.Name,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
		}, true, nil
	}

	exitCode, timedOut, err := d.waitExitCode(ctx, execID, deadline)
	if err != nil {
		return nil, false, err
	}
	if timedOut {
		kill()
	}
	return &secondary.StepResult{
		Name:     step.Name,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, timedOut, nil
}

// waitExitCode polls until the exec is no longer running. The output stream
// can close well before the process exits, e.g. when it closes its own
// stdout and stderr, so the deadline still applies here.
func (d *Isolator) waitExitCode(ctx context.Context, execID string, deadline <-chan time.Time) (int, bool, error) {
	poll := time.NewTicker(inspectPollInterval)
	defer poll.Stop()
	for {
		inspect, err := d.api.ExecInspect(ctx, execID)
		if err != nil {
			return 0, false, fmt.Errorf("failed to inspect exec: %w", err)
		}
		if !inspect.Running {
			return inspect.ExitCode, false, nil
		}
		select {
		case <-ctx.Done():
			return 0, false, ctx.Err()
		case <-deadline:
			return -1, true, nil
		case <-poll.C:
		}
	}
}

func (d *Isolator) hostPath(workspace string) (string, error) {
	if d.cfg.HostRoot == "" || d.cfg.LocalRoot == "" {
		return workspace, nil
	}
	rel, err := filepath.Rel(d.cfg.LocalRoot, workspace)
	if err != nil {
		return "", fmt.Errorf("workspace %s is outside %s: %w", workspace, d.cfg.LocalRoot, err)
	}
	return filepath.Join(d.cfg.HostRoot, rel), nil
}

// EnsureImages pulls every image that is not present locally yet
func (d *Isolator) EnsureImages(ctx context.Context, images []string) error {
	for _, img := range images {
		if err := d.ensureImage(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

func (d *Isolator) ensureImage(ctx context.Context, img string) error {
	if d.api.ImageExists(ctx, img) {
		return nil
	}

	d.logger.Info("Pulling docker image", "image", img)
	reader, err := d.api.ImagePull(ctx, img)
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", img, err)
	}
	defer reader.Close()

	// the pull only completes once the progress stream is drained
	_, _ = io.Copy(io.Discard, reader)

	d.logger.Info("Pulled docker image", "image", img)
	return nil
}
