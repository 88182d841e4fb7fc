package config

import (
	"testing"
	"time"

	"github.com/apple/pkl-go/pkl"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "pyproject.toml", cfg.Manifest.Path)
	assert.Equal(t, "HEAD^", cfg.Manifest.PreviousRevision)
	assert.Equal(t, 10*time.Second, cfg.Sources.Timeout.GoDuration())
	assert.Equal(t, 7, cfg.Image.ShortShaLength)
	assert.True(t, cfg.Policy.Enabled)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Default(), Normalize(nil))

	cfg := Normalize(&AppConfig{
		Manifest: &Manifest{Path: "Cargo.toml", Source: "file"},
		Sources:  &Sources{Timeout: &pkl.Duration{Value: 2, Unit: pkl.Second}},
	})

	assert.Equal(t, "Cargo.toml", cfg.Manifest.Path)
	assert.Equal(t, 2*time.Second, cfg.Sources.Timeout.GoDuration())
	assert.Equal(t, 5*time.Minute, cfg.Sources.CacheTTL.GoDuration())
	assert.NotNil(t, cfg.Image)
	assert.NotNil(t, cfg.Policy)
	assert.NotNil(t, cfg.Audit)
	assert.NotNil(t, cfg.Prometheus)
}
