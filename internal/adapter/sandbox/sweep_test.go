package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/logging"
)

func TestSweepStaleWorkspaces(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-time.Hour)

	mkdir := func(name string, mtime time.Time) string {
		path := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(path, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(path, "code.py"), []byte("print(1)"), 0o644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
		return path
	}
	stale := mkdir("run-stale", old)
	fresh := mkdir("run-fresh", time.Now())
	foreign := mkdir("keep-me", old)

	e := NewExecutor(&recordingIsolator{}, Config{WorkspaceRoot: root}, logging.NewNopLogger())
	removed, err := e.SweepStaleWorkspaces(context.Background(), time.Now().Add(-time.Minute))

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, fresh)
	assert.DirExists(t, foreign)
}

func TestSweepStaleWorkspaces_MissingRoot(t *testing.T) {
	e := NewExecutor(&recordingIsolator{}, Config{WorkspaceRoot: filepath.Join(t.TempDir(), "absent")}, logging.NewNopLogger())

	removed, err := e.SweepStaleWorkspaces(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
