package gitutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()
	run := func(env []string, args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), env...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run(nil, "init", "-q")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "guides"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guides", "intro.md"), []byte("# Intro\n"), 0o644))
	run(nil, "add", ".")
	env := []string{
		"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_AUTHOR_DATE=2023-03-01T12:00:00Z", "GIT_COMMITTER_DATE=2023-03-01T12:00:00Z",
	}
	run(env, "commit", "-q", "-m", "initial")
	return dir
}

func TestOpen_RejectsPlainDirectory(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	_, err := Open("git", t.TempDir(), time.Second*5)
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestRepository_TrackedFilesAndCommitTime(t *testing.T) {
	dir := initRepo(t)
	repo, err := Open("git", dir, 0)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.md"), []byte("# Draft\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.tmp\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.tmp"), []byte("x"), 0o644))

	files, err := repo.ListFiles(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{".gitignore", "draft.md", "guides/intro.md"}, files)

	stamp, err := repo.LastCommitTime(context.Background(), "guides/intro.md")
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC), stamp)

	untracked, err := repo.LastCommitTime(context.Background(), "guides/missing.md")
	require.NoError(t, err)
	require.True(t, untracked.IsZero())
}
