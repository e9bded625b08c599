package schedulerengine

import (
	"context"
	"time"

	"gitlab.com/fcv-2025.net/codejudge/internal/config"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
)

// WorkspaceSweeper removes sandbox workspaces older than cutoff
type WorkspaceSweeper interface {
	SweepStaleWorkspaces(ctx context.Context, cutoff time.Time) (int, error)
}

// SchedulerEngine runs the periodic maintenance of the judge host
type SchedulerEngine struct {
	JudgeCfg *config.JudgeConfig
	sweeper  WorkspaceSweeper
	logger   primary.Logger
}

func NewSchedulerEngine(
	judgeCfg *config.JudgeConfig,
	sweeper WorkspaceSweeper,
	logger primary.Logger,
) *SchedulerEngine {
	return &SchedulerEngine{
		JudgeCfg: judgeCfg,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// StartMaintenanceEngine sweeps once immediately and then on every interval
// until ctx is done.
func (s *SchedulerEngine) StartMaintenanceEngine(ctx context.Context) {
	if s.JudgeCfg.WorkspaceSweepInterval <= 0 {
		s.logger.Info("Workspace sweeping disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(s.JudgeCfg.WorkspaceSweepInterval)
		defer ticker.Stop()

		s.SweepWorkspaces(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepWorkspaces(ctx)
			}
		}
	}()
}

func (s *SchedulerEngine) SweepWorkspaces(ctx context.Context) {
	cutoff := time.Now().Add(-s.JudgeCfg.WorkspaceMaxAge)
	removed, err := s.sweeper.SweepStaleWorkspaces(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to sweep workspaces", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("Removed stale workspaces", "count", removed)
	}
}
