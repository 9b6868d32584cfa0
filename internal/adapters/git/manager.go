// Package git shells out to the git CLI to pin and materialize git-sourced
// packages.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manager resolves git refs to commits and produces checkouts. Checkouts are
// cached by commit, so repeated resolves of the same pin never touch the
// network twice.
type Manager struct {
	// cacheDir holds one checkout per (repo, commit).
	cacheDir string
}

// NewManager creates a Manager whose checkouts live under cacheDir.
func NewManager(cacheDir string) *Manager {
	return &Manager{cacheDir: filepath.Clean(cacheDir)}
}

// ResolveRef resolves a ref (branch, tag or commit prefix) against a remote
// repository to a full commit hash. An empty ref resolves HEAD.
func (m *Manager) ResolveRef(ctx context.Context, url, ref string) (string, error) {
	if ref == "" {
		ref = "HEAD"
	}
	if isFullCommit(ref) {
		return ref, nil
	}

	//nolint:gosec // url and ref come from validated requirement sources
	cmd := exec.CommandContext(ctx, "git", "ls-remote", url, ref, ref+"^{}")
	output, err := cmd.Output()
	if err != nil {
		return "", m.commandError(err, url, "failed to list remote refs")
	}

	// ls-remote prints "<hash>\t<refname>" lines; the peeled ^{} entry of
	// an annotated tag comes last and wins.
	var commit string
	for line := range strings.Lines(string(output)) {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			commit = fields[0]
		}
	}
	if commit == "" {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrNotFound, "ref not found in remote"), "url", url), "ref", ref)
	}
	return commit, nil
}

// Checkout materializes the tree of one commit and returns its directory.
func (m *Manager) Checkout(ctx context.Context, url, commit string) (string, error) {
	dir := filepath.Join(m.cacheDir, sanitize(url), commit)
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return dir, nil
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create checkout directory")
	}

	steps := [][]string{
		{"init", "--quiet", dir},
		{"-C", dir, "fetch", "--quiet", "--depth", "1", url, commit},
		{"-C", dir, "checkout", "--quiet", commit},
	}
	for _, args := range steps {
		//nolint:gosec // args are constructed from validated inputs
		cmd := exec.CommandContext(ctx, "git", args...)
		if _, err := cmd.Output(); err != nil {
			_ = os.RemoveAll(dir)
			return "", m.commandError(err, url, "failed to check out commit")
		}
	}

	return dir, nil
}

func (m *Manager) commandError(err error, url, msg string) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		gitErr := zerr.Wrap(domain.ErrNetwork, msg)
		gitErr = zerr.With(gitErr, "url", url)
		return zerr.With(gitErr, "stderr", stderr)
	}
	return zerr.With(zerr.Wrap(err, msg), "url", url)
}

func isFullCommit(ref string) bool {
	if len(ref) != 40 {
		return false
	}
	for _, c := range ref {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func sanitize(url string) string {
	r := strings.NewReplacer("://", "_", "/", "_", ":", "_", "@", "_")
	return r.Replace(url)
}
