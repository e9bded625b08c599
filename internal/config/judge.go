package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	BackendDocker = "docker"
	BackendLocal  = "local"
)

type JudgeConfig struct {
	// CaseTimeout is the wall-clock budget of one case, compile step included
	CaseTimeout       time.Duration
	WorkspaceRoot     string
	WorkspaceHostRoot string
	IsolationBackend  string
	MemoryLimitBytes  int64
	PidsLimit         int64
	MaxOutputBytes    int64
	LanguagesFile     string
	PullImages        bool
	// Leftover workspaces older than WorkspaceMaxAge are removed every
	// WorkspaceSweepInterval. A zero interval disables sweeping.
	WorkspaceSweepInterval time.Duration
	WorkspaceMaxAge        time.Duration
}

func NewJudgeConfig() *JudgeConfig {
	backend := strings.ToLower(getEnv("ISOLATION_BACKEND", BackendDocker))
	if backend != BackendLocal {
		backend = BackendDocker
	}
	return &JudgeConfig{
		CaseTimeout:       getDurationEnv("JUDGE_CASE_TIMEOUT_MS", 10000, time.Millisecond),
		WorkspaceRoot:     getEnv("WORKSPACE_ROOT", filepath.Join(os.TempDir(), "codejudge")),
		WorkspaceHostRoot: getEnv("WORKSPACE_HOST_ROOT", ""),
		IsolationBackend:  backend,
		MemoryLimitBytes:  int64(getIntEnv("SANDBOX_MEMORY_LIMIT_MB", 256)) << 20,
		PidsLimit:         int64(getIntEnv("SANDBOX_PIDS_LIMIT", 64)),
		MaxOutputBytes:    int64(getIntEnv("MAX_OUTPUT_BYTES", 1<<20)),
		LanguagesFile:     getEnv("LANGUAGES_FILE", ""),
		PullImages:        getBoolEnv("PULL_IMAGES", false),

		WorkspaceSweepInterval: getDurationEnv("WORKSPACE_SWEEP_INTERVAL_SEC", 300, time.Second),
		WorkspaceMaxAge:        getDurationEnv("WORKSPACE_MAX_AGE_SEC", 1800, time.Second),
	}
}
