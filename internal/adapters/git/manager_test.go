package git_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lode/internal/adapters/git"
)

func TestResolveRef_FullCommitSkipsRemote(t *testing.T) {
	m := git.NewManager(t.TempDir())

	commit := "0123456789abcdef0123456789abcdef01234567"
	// An unreachable URL proves no remote call happens for full commits.
	got, err := m.ResolveRef(context.Background(), "file:///nonexistent", commit)
	require.NoError(t, err)
	assert.Equal(t, commit, got)
}

func TestResolveRef_AndCheckout_LocalRepo(t *testing.T) {
	requireGit(t)

	repo := initRepo(t)
	m := git.NewManager(t.TempDir())

	commit, err := m.ResolveRef(context.Background(), repo, "")
	require.NoError(t, err)
	require.Len(t, commit, 40)

	dir, err := m.Checkout(context.Background(), repo, commit)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "lode.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: pinned-pkg")

	// Second checkout of the same commit is served from cache.
	again, err := m.Checkout(context.Background(), repo, commit)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestResolveRef_UnknownRefFails(t *testing.T) {
	requireGit(t)

	repo := initRepo(t)
	m := git.NewManager(t.TempDir())

	_, err := m.ResolveRef(context.Background(), repo, "no-such-branch")
	assert.Error(t, err)
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	}

	run("init", "--quiet")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lode.yaml"),
		[]byte("package:\n  name: pinned-pkg\n  version: \"1.0.0\"\n"), 0o644))
	run("add", ".")
	run("commit", "--quiet", "-m", "initial")

	return dir
}
