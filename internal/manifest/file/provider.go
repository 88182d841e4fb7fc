// Package file provides the working-tree manifest source
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/asimihsan/release_gate/internal/metrics"
	"github.com/asimihsan/release_gate/pkg/gate"
)

// WorktreeRevision names the uncommitted working tree.
const WorktreeRevision = "WORKTREE"

// Provider implements gate.ManifestSource for a manifest on local disk.
type Provider struct {
	root string
	path string
}

var _ gate.ManifestSource = (*Provider)(nil)

// NewProvider creates a provider reading path relative to root.
func NewProvider(root, path string) *Provider {
	return &Provider{root: root, path: path}
}

// Describe implements gate.ManifestSource.
func (p *Provider) Describe() gate.Schema {
	return gate.Schema{
		ID:          "file",
		Description: "Manifest read from the working tree",
	}
}

// Fetch implements gate.ManifestSource. Only the working tree is served:
// revision must be "" or WorktreeRevision.
func (p *Provider) Fetch(ctx context.Context, revision string) (gate.Manifest, error) {
	timer := prometheus.NewTimer(metrics.SourceFetchLatency.WithLabelValues("file"))
	defer timer.ObserveDuration()

	if revision != "" && revision != WorktreeRevision {
		metrics.SourceFetchErrors.WithLabelValues("file", "revision").Inc()
		return gate.Manifest{}, fmt.Errorf("%w: file source serves only the working tree, not %q", gate.ErrRevisionNotFound, revision)
	}
	if err := ctx.Err(); err != nil {
		return gate.Manifest{}, err
	}

	full := p.path
	if !filepath.IsAbs(full) {
		full = filepath.Join(p.root, p.path)
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.SourceFetchErrors.WithLabelValues("file", "not_found").Inc()
		return gate.Manifest{}, fmt.Errorf("%w: %s", gate.ErrRevisionNotFound, full)
	}
	if err != nil {
		metrics.SourceFetchErrors.WithLabelValues("file", "read").Inc()
		return gate.Manifest{}, fmt.Errorf("%w: reading %s: %v", gate.ErrSourceUnavailable, full, err)
	}

	return gate.Manifest{
		Revision: WorktreeRevision,
		Path:     p.path,
		Content:  string(data),
	}, nil
}
