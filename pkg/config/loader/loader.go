package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/asimihsan/release_gate/internal/config"
	"github.com/asimihsan/release_gate/pkg/gate"
)

// Snapshot represents a cached configuration with metadata
type snapshot struct {
	path  string
	cfg   *config.AppConfig
	sha   string    // SHA-256 hash of the file content
	mtime time.Time // Last modification time
}

// Cached configuration for atomic access
var cachedConfig atomic.Value // *snapshot

// loadModule evaluates a Pkl module; replaced in tests.
var loadModule = config.LoadFromPath

// LoadFromPathWithSHA loads and caches a PKL configuration file and returns the config along with its SHA
func LoadFromPathWithSHA(ctx context.Context, path string) (*config.AppConfig, string, error) {
	// Get absolute path for better error handling
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: resolving %s: %v", gate.ErrConfigLoad, path, err)
	}

	// Get file info for modification time
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", gate.ErrConfigLoad, err)
	}

	// Check if we have a cached version of the same file and modification time
	if cached, ok := cachedConfig.Load().(*snapshot); ok && cached != nil {
		if cached.path == absPath && cached.mtime.Equal(fileInfo.ModTime()) {
			return cached.cfg, cached.sha, nil
		}
	}

	// Read file content for SHA computation
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", gate.ErrConfigLoad, err)
	}

	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	cfg, err := loadModule(ctx, absPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: evaluating %s: %v", gate.ErrConfigLoad, absPath, err)
	}
	cfg = config.Normalize(cfg)

	cachedConfig.Store(&snapshot{
		path:  absPath,
		cfg:   cfg,
		sha:   hashStr,
		mtime: fileInfo.ModTime(),
	})

	return cfg, hashStr, nil
}
