package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimihsan/release_gate/internal/config"
	"github.com/asimihsan/release_gate/pkg/gate"
)

// stubLoader replaces Pkl evaluation so tests do not need the pkl binary.
func stubLoader(t *testing.T, fn func(ctx context.Context, path string) (*config.AppConfig, error)) *int {
	t.Helper()
	calls := 0
	orig := loadModule
	loadModule = func(ctx context.Context, path string) (*config.AppConfig, error) {
		calls++
		return fn(ctx, path)
	}
	t.Cleanup(func() {
		loadModule = orig
		cachedConfig.Store((*snapshot)(nil))
	})
	return &calls
}

func TestLoadFromPathWithSHA(t *testing.T) {
	content := []byte("amends \"AppConfig.pkl\"\n")
	path := filepath.Join(t.TempDir(), "local.pkl")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	calls := stubLoader(t, func(_ context.Context, _ string) (*config.AppConfig, error) {
		return &config.AppConfig{Manifest: &config.Manifest{Path: "Cargo.toml"}}, nil
	})

	cfg, sha, err := LoadFromPathWithSHA(context.Background(), path)
	require.NoError(t, err)

	want := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(want[:]), sha)
	assert.Equal(t, "Cargo.toml", cfg.Manifest.Path)
	assert.NotNil(t, cfg.Sources, "missing sections are filled with defaults")

	// Second load of an unchanged file comes from the cache
	cfg2, sha2, err := LoadFromPathWithSHA(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, cfg, cfg2)
	assert.Equal(t, sha, sha2)
	assert.Equal(t, 1, *calls)
}

func TestLoadFromPathWithSHA_Errors(t *testing.T) {
	stubLoader(t, func(_ context.Context, _ string) (*config.AppConfig, error) {
		return nil, errors.New("pkl: cannot find module")
	})

	_, _, err := LoadFromPathWithSHA(context.Background(), filepath.Join(t.TempDir(), "missing.pkl"))
	assert.ErrorIs(t, err, gate.ErrConfigLoad)

	path := filepath.Join(t.TempDir(), "broken.pkl")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))
	_, _, err = LoadFromPathWithSHA(context.Background(), path)
	assert.ErrorIs(t, err, gate.ErrConfigLoad)
	assert.Contains(t, err.Error(), "cannot find module")
}
