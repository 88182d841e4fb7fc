// Package git reads manifests from a git repository via the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/asimihsan/release_gate/internal/metrics"
	"github.com/asimihsan/release_gate/pkg/gate"
)

// Messages git prints when a revision or path at a revision is missing.
var notFoundMarkers = []string{
	"does not exist in",
	"exists on disk, but not in",
	"invalid object name",
	"unknown revision",
	"bad revision",
	"not a valid object name",
	"ambiguous argument",
}

// Provider implements gate.ManifestSource for a git repository.
type Provider struct {
	repoDir string
	path    string
	gitBin  string
}

var _ gate.ManifestSource = (*Provider)(nil)

// NewProvider creates a provider reading path (relative to the repository
// root) from the repository at repoDir.
func NewProvider(repoDir, path string) *Provider {
	return &Provider{repoDir: repoDir, path: path, gitBin: "git"}
}

// Describe implements gate.ManifestSource.
func (p *Provider) Describe() gate.Schema {
	return gate.Schema{
		ID:          "git",
		Description: "Manifest read from git history",
	}
}

// Fetch implements gate.ManifestSource using `git show <revision>:<path>`.
func (p *Provider) Fetch(ctx context.Context, revision string) (gate.Manifest, error) {
	timer := prometheus.NewTimer(metrics.SourceFetchLatency.WithLabelValues("git"))
	defer timer.ObserveDuration()

	if revision == "" {
		revision = "HEAD"
	}

	out, err := p.run(ctx, "show", revision+":"+p.path)
	if err != nil {
		return gate.Manifest{}, err
	}

	return gate.Manifest{
		Revision: revision,
		Path:     p.path,
		Content:  out,
	}, nil
}

// ResolveRevision returns the full commit hash for revision.
func (p *Provider) ResolveRevision(ctx context.Context, revision string) (string, error) {
	out, err := p.run(ctx, "rev-parse", "--verify", "--quiet", revision+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (p *Provider) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, p.gitBin, append([]string{"-C", p.repoDir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		metrics.SourceFetchErrors.WithLabelValues("git", "context").Inc()
		return "", fmt.Errorf("git %s: %w", args[0], ctxErr)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The binary could not be started at all.
		metrics.SourceFetchErrors.WithLabelValues("git", "exec").Inc()
		return "", fmt.Errorf("%w: running git: %v", gate.ErrSourceUnavailable, err)
	}

	msg := strings.TrimSpace(stderr.String())
	if isNotFound(msg) || (args[0] == "rev-parse" && msg == "") {
		metrics.SourceFetchErrors.WithLabelValues("git", "not_found").Inc()
		return "", fmt.Errorf("%w: git %s: %s", gate.ErrRevisionNotFound, strings.Join(args, " "), msg)
	}

	metrics.SourceFetchErrors.WithLabelValues("git", fmt.Sprintf("exit_%d", exitErr.ExitCode())).Inc()
	return "", fmt.Errorf("%w: git %s failed: %s", gate.ErrSourceUnavailable, args[0], msg)
}

func isNotFound(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
