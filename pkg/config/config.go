package config

import (
	"context"

	"github.com/asimihsan/release_gate/internal/config"
	"github.com/asimihsan/release_gate/pkg/config/loader"
)

// DefaultID identifies the built-in configuration in audit records.
const DefaultID = "default"

// Evaluate loads the Pkl configuration at path and returns it with its ID
// (the SHA-256 of the file). An empty path yields the built-in defaults.
func Evaluate(ctx context.Context, path string) (*config.AppConfig, string, error) {
	if path == "" {
		return config.Default(), DefaultID, nil
	}
	return loader.LoadFromPathWithSHA(ctx, path)
}
