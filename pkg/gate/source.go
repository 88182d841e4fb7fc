package gate

import "context"

// Manifest is the text of a project manifest as of a revision.
type Manifest struct {
	Revision string
	Path     string
	Content  string
	// Present is false when the revision could not be retrieved.
	Present bool
}

// Schema provides metadata about a ManifestSource.
type Schema struct {
	ID          string
	Description string
}

// ManifestSource retrieves manifest text at a revision.
type ManifestSource interface {
	Describe() Schema
	// Fetch reads the manifest as of revision. Must return ErrRevisionNotFound
	// when the revision, or the manifest at that revision, does not exist, and
	// ErrSourceUnavailable for transport failures.
	Fetch(ctx context.Context, revision string) (Manifest, error)
}
