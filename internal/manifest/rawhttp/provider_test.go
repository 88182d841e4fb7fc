package rawhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimihsan/release_gate/internal/manifest/rawhttp_mock"
	"github.com/asimihsan/release_gate/pkg/gate"
)

func TestProvider_Fetch(t *testing.T) {
	server := rawhttp_mock.NewServer()
	defer server.Close()

	server.SetFile("abc123", "pyproject.toml", "version = \"0.1.3-beta\"\n")
	server.SetFile("def456", "pyproject.toml", "version = \"0.1.2-beta\"\n")

	tests := []struct {
		name     string
		revision string
		want     string
		wantErr  error
	}{
		{name: "current revision", revision: "abc123", want: "0.1.3-beta"},
		{name: "parent revision", revision: "def456", want: "0.1.2-beta"},
		{name: "unknown revision", revision: "000000", wantErr: gate.ErrRevisionNotFound},
		{name: "empty revision", revision: "", wantErr: gate.ErrRevisionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(server.URL(), "/pyproject.toml", "", time.Minute)

			m, err := p.Fetch(context.Background(), tt.revision)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.revision, m.Revision)
			assert.Equal(t, "pyproject.toml", m.Path)
			assert.Equal(t, tt.want, gate.ExtractVersion(m.Content))
		})
	}
}

func TestProvider_Cache(t *testing.T) {
	server := rawhttp_mock.NewServer()
	defer server.Close()
	server.SetFile("abc123", "pyproject.toml", "version = \"1\"")

	p := NewProvider(server.URL(), "pyproject.toml", "", 50*time.Millisecond)

	_, err := p.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	_, err = p.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, 1, server.Requests())

	// Wait for cache to expire
	time.Sleep(100 * time.Millisecond)

	server.SetFile("abc123", "pyproject.toml", "version = \"2\"")
	m, err := p.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, 2, server.Requests())
	assert.Equal(t, "2", gate.ExtractVersion(m.Content))
}

func TestProvider_ErrorHandling(t *testing.T) {
	server := rawhttp_mock.NewServer()
	defer server.Close()
	server.FailWith(http.StatusInternalServerError)

	p := NewProvider(server.URL(), "pyproject.toml", "", time.Second)

	// Server error should return ErrSourceUnavailable
	_, err := p.Fetch(context.Background(), "abc123")
	assert.Error(t, err)
	assert.True(t, gate.IsWrappingError(err, gate.ErrSourceUnavailable))

	// Invalid URL should return error
	badProvider := NewProvider("http://invalid-url-that-wont-resolve", "pyproject.toml", "", time.Second)
	_, err = badProvider.Fetch(context.Background(), "abc123")
	assert.Error(t, err)
	assert.True(t, gate.IsWrappingError(err, gate.ErrSourceUnavailable))
}

func TestProvider_BearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("version = \"1.0\""))
	}))
	defer server.Close()

	p := NewProvider(server.URL, "pyproject.toml", "s3cret", time.Second)
	_, err := p.Fetch(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", gotAuth)
}
