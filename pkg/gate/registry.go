package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Role names the revision a manifest is read for.
type Role string

const (
	RoleCurrent  Role = "current"
	RolePrevious Role = "previous"
)

// Binding ties a role to the source and revision it is read from.
type Binding struct {
	Source   ManifestSource
	Revision string
}

// SnapshotOpts lets the caller bound fetch latency.
type SnapshotOpts struct {
	PerSourceTimeout time.Duration // enforced with ctx.WithTimeout; zero => none
}

// Snapshot holds both manifests collected for one evaluation.
type Snapshot struct {
	Current  Manifest
	Previous Manifest
	// PreviousErr is the recovered error, if any, from fetching the previous
	// manifest. It is informational; Previous.Present is false when set.
	PreviousErr error
}

// SourceRegistry binds manifest sources to roles and collects them.
type SourceRegistry struct {
	bindings map[Role]Binding
	mu       sync.RWMutex
}

// NewSourceRegistry creates a new empty SourceRegistry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		bindings: make(map[Role]Binding),
	}
}

// Bind assigns a source and revision to a role.
// An existing binding for the role is replaced.
func (r *SourceRegistry) Bind(role Role, source ManifestSource, revision string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings[role] = Binding{Source: source, Revision: revision}
}

// Binding retrieves the binding for a role.
func (r *SourceRegistry) Binding(role Role) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.bindings[role]
	return b, exists
}

// Snapshot collects the current and previous manifests without a timeout.
func (r *SourceRegistry) Snapshot(ctx context.Context) (Snapshot, error) {
	return r.SnapshotWithOpts(ctx, SnapshotOpts{})
}

// SnapshotWithOpts fetches the current and previous manifests in parallel.
//
// A current manifest that cannot be fetched is fatal and the returned error
// wraps ErrManifestUnavailable. A previous manifest that cannot be fetched,
// or has no binding, is recorded in PreviousErr and treated as absent.
func (r *SourceRegistry) SnapshotWithOpts(ctx context.Context, opts SnapshotOpts) (Snapshot, error) {
	r.mu.RLock()
	bindings := make(map[Role]Binding, len(r.bindings))
	for role, b := range r.bindings {
		bindings[role] = b
	}
	r.mu.RUnlock()

	if _, ok := bindings[RoleCurrent]; !ok {
		return Snapshot{}, fmt.Errorf("%w: no source bound for %s", ErrManifestUnavailable, RoleCurrent)
	}

	g, gctx := errgroup.WithContext(ctx)

	type result struct {
		role     Role
		manifest Manifest
		err      error
	}
	results := make(chan result, len(bindings))

	for role, b := range bindings {
		g.Go(func() error {
			fctx := gctx
			if opts.PerSourceTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(gctx, opts.PerSourceTimeout)
				defer cancel()
			}

			m, err := b.Source.Fetch(fctx, b.Revision)
			if err != nil {
				results <- result{role: role, err: fmt.Errorf("fetching %s manifest at %q from %s: %w", role, b.Revision, b.Source.Describe().ID, err)}
				return nil // errors are collected via the channel
			}
			m.Present = true
			results <- result{role: role, manifest: m}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	close(results)

	var snap Snapshot
	if _, ok := bindings[RolePrevious]; !ok {
		snap.PreviousErr = fmt.Errorf("%w: no source bound for %s", ErrRevisionNotFound, RolePrevious)
	}

	for res := range results {
		switch res.role {
		case RoleCurrent:
			if res.err != nil {
				return Snapshot{}, fmt.Errorf("%w: %v", ErrManifestUnavailable, res.err)
			}
			snap.Current = res.manifest
		case RolePrevious:
			if res.err != nil {
				snap.PreviousErr = res.err
				snap.Previous = Manifest{Revision: bindings[RolePrevious].Revision}
				continue
			}
			snap.Previous = res.manifest
		}
	}

	return snap, nil
}
