package gitutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Repository wraps the git CLI for a working tree containing site content.
type Repository struct {
	Dir            string
	GitPath        string
	CommandTimeout time.Duration
	mu             sync.Mutex
}

// ErrNotRepository indicates the directory is not inside a git working tree.
var ErrNotRepository = errors.New("not a git working tree")

// Open checks that dir belongs to a git working tree.
func Open(gitPath, dir string, timeout time.Duration) (*Repository, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if strings.TrimSpace(gitPath) == "" {
		gitPath = "git"
	}
	repo := &Repository{Dir: dir, GitPath: gitPath, CommandTimeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := repo.command(ctx, "rev-parse", "--is-inside-work-tree").Output()
	if err != nil || strings.TrimSpace(string(out)) != "true" {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	return repo, nil
}

// ListFiles returns tracked files plus untracked files that are not ignored, relative to Dir.
func (r *Repository) ListFiles(ctx context.Context) ([]string, error) {
	ctx, cancel := r.ensureContext(ctx)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	out, err := r.command(ctx, "ls-files", "--cached", "--others", "--exclude-standard").Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	seen := make(map[string]struct{})
	files := make([]string, 0, 64)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		files = append(files, line)
	}
	sort.Strings(files)
	return files, nil
}

// LastCommitTime returns the committer time of the newest commit touching path.
// A path without history yields the zero time.
func (r *Repository) LastCommitTime(ctx context.Context, path string) (time.Time, error) {
	ctx, cancel := r.ensureContext(ctx)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	out, err := r.command(ctx, "log", "-n1", "--format=%ct", "--", filepath.ToSlash(path)).Output()
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", path, err)
	}
	raw := strings.TrimSpace(string(out))
	if raw == "" {
		return time.Time{}, nil
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", path, err)
	}
	return time.Unix(seconds, 0).UTC(), nil
}

func (r *Repository) command(ctx context.Context, args ...string) *exec.Cmd {
	if ctx == nil {
		ctx = context.Background()
	}

	baseArgs := []string{
		"-c", "credential.helper=", // Disable credential helper to prevent daemon spawning
		"-c", "core.quotepath=off",
	}
	fullArgs := append(baseArgs, args...)

	cmd := exec.CommandContext(ctx, r.GitPath, fullArgs...)
	cmd.Dir = r.Dir
	return cmd
}

func (r *Repository) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.CommandTimeout)
}
