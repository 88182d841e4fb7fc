// Package rawhttp reads manifests from a raw content HTTP endpoint, such as
// https://raw.githubusercontent.com/<owner>/<repo>. It lets shallow CI
// checkouts read the parent revision without fetching history.
package rawhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/asimihsan/release_gate/internal/metrics"
	"github.com/asimihsan/release_gate/pkg/gate"
)

// maxManifestBytes bounds how much of a response body is read.
const maxManifestBytes = 1 << 20

type cacheEntry struct {
	manifest gate.Manifest
	expiry   time.Time
}

// Provider implements gate.ManifestSource for a raw content endpoint serving
// <baseURL>/<revision>/<path>.
type Provider struct {
	baseURL    string
	path       string
	token      string
	httpClient *http.Client
	cacheTTL   time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

var _ gate.ManifestSource = (*Provider)(nil)

// NewProvider creates a new raw content provider. token, when non-empty, is
// sent as a bearer token.
func NewProvider(baseURL, path, token string, cacheTTL time.Duration) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       strings.TrimLeft(path, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cacheTTL:   cacheTTL,
		cache:      make(map[string]cacheEntry),
	}
}

// Describe implements gate.ManifestSource.
func (p *Provider) Describe() gate.Schema {
	return gate.Schema{
		ID:          "http",
		Description: "Manifest read from a raw content endpoint",
	}
}

// Fetch implements gate.ManifestSource.
func (p *Provider) Fetch(ctx context.Context, revision string) (gate.Manifest, error) {
	timer := prometheus.NewTimer(metrics.SourceFetchLatency.WithLabelValues("http"))
	defer timer.ObserveDuration()

	if revision == "" {
		return gate.Manifest{}, fmt.Errorf("%w: http source needs an explicit revision", gate.ErrRevisionNotFound)
	}

	// Check cache first
	p.mu.RLock()
	if e, ok := p.cache[revision]; ok && time.Now().Before(e.expiry) {
		p.mu.RUnlock()
		return e.manifest, nil
	}
	p.mu.RUnlock()

	u := fmt.Sprintf("%s/%s/%s", p.baseURL, url.PathEscape(revision), p.path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		metrics.SourceFetchErrors.WithLabelValues("http", "request_creation").Inc()
		return gate.Manifest{}, fmt.Errorf("creating request: %w", err)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		metrics.SourceFetchErrors.WithLabelValues("http", "http_error").Inc()
		return gate.Manifest{}, fmt.Errorf("%w: %v", gate.ErrSourceUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			metrics.SourceFetchErrors.WithLabelValues("http", "body_close_error").Inc()
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.SourceFetchErrors.WithLabelValues("http", "not_found").Inc()
		return gate.Manifest{}, fmt.Errorf("%w: %s", gate.ErrRevisionNotFound, u)
	case resp.StatusCode != http.StatusOK:
		metrics.SourceFetchErrors.WithLabelValues("http", fmt.Sprintf("status_%d", resp.StatusCode)).Inc()
		return gate.Manifest{}, fmt.Errorf("%w: unexpected status code %d", gate.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		metrics.SourceFetchErrors.WithLabelValues("http", "read_error").Inc()
		return gate.Manifest{}, fmt.Errorf("%w: reading body: %v", gate.ErrSourceUnavailable, err)
	}

	m := gate.Manifest{Revision: revision, Path: p.path, Content: string(body)}

	p.mu.Lock()
	p.cache[revision] = cacheEntry{manifest: m, expiry: time.Now().Add(p.cacheTTL)}
	p.mu.Unlock()

	return m, nil
}
