package mock

import (
	"context"

	"github.com/asimihsan/release_gate/pkg/gate"
)

// Provider implements gate.ManifestSource with controllable in-memory contents.
type Provider struct {
	SourceID    string
	Path        string
	Contents    map[string]string // revision => manifest text
	Err         error
	Description string
}

var _ gate.ManifestSource = (*Provider)(nil)

// NewProvider creates a new mock provider with no revisions.
func NewProvider(id, description string) *Provider {
	return &Provider{
		SourceID:    id,
		Path:        "pyproject.toml",
		Contents:    make(map[string]string),
		Description: description,
	}
}

// WithRevision stores content for a revision.
func (p *Provider) WithRevision(revision, content string) *Provider {
	p.Contents[revision] = content
	return p
}

// WithVersion stores a minimal manifest declaring version at revision.
func (p *Provider) WithVersion(revision, version string) *Provider {
	return p.WithRevision(revision, "[tool.poetry]\nversion = \""+version+"\"\n")
}

// WithError configures the provider to return the specified error.
func (p *Provider) WithError(err error) *Provider {
	p.Err = err
	return p
}

// Describe implements gate.ManifestSource.
func (p *Provider) Describe() gate.Schema {
	return gate.Schema{
		ID:          p.SourceID,
		Description: p.Description,
	}
}

// Fetch implements gate.ManifestSource.
func (p *Provider) Fetch(ctx context.Context, revision string) (gate.Manifest, error) {
	if p.Err != nil {
		return gate.Manifest{}, p.Err
	}
	if err := ctx.Err(); err != nil {
		return gate.Manifest{}, err
	}

	content, ok := p.Contents[revision]
	if !ok {
		return gate.Manifest{}, gate.ErrRevisionNotFound
	}
	return gate.Manifest{Revision: revision, Path: p.Path, Content: content}, nil
}
