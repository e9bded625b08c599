package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const sweepParallelism = 4

// SweepStaleWorkspaces removes run workspaces last modified before cutoff.
// They are left behind only when the process died mid-run. It returns the
// number of workspaces removed.
func (e *Executor) SweepStaleWorkspaces(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(e.cfg.WorkspaceRoot)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list workspace root: %w", err)
	}

	var removed atomic.Int64
	var g errgroup.Group
	g.SetLimit(sweepParallelism)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workspacePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		path := filepath.Join(e.cfg.WorkspaceRoot, entry.Name())
		g.Go(func() error {
			if err := os.RemoveAll(path); err != nil {
				e.logger.Warn("Failed to remove stale workspace", "workspace", path, "error", err)
				return nil
			}
			removed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(removed.Load()), ctx.Err()
}
