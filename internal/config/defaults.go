package config

import "github.com/apple/pkl-go/pkl"

// Default returns the configuration used when no Pkl module is given. It
// mirrors the defaults declared in policy/AppConfig.pkl.
func Default() *AppConfig {
	return &AppConfig{
		Manifest: &Manifest{
			Path:             "pyproject.toml",
			VersionKey:       "version",
			Source:           "git",
			RepoDir:          ".",
			CurrentRevision:  "HEAD",
			PreviousRevision: "HEAD^",
		},
		Sources: &Sources{
			Timeout:  &pkl.Duration{Value: 10, Unit: pkl.Second},
			CacheTTL: &pkl.Duration{Value: 5, Unit: pkl.Minute},
		},
		Image: &Image{
			ShortShaLength: 7,
		},
		Policy: &Policy{
			Enabled: true,
			Query:   "data.release.response",
		},
		Audit:      &Audit{},
		Prometheus: &Prometheus{},
	}
}

// Normalize fills nil sections of a loaded configuration with defaults.
func Normalize(cfg *AppConfig) *AppConfig {
	def := Default()
	if cfg == nil {
		return def
	}
	if cfg.Manifest == nil {
		cfg.Manifest = def.Manifest
	}
	if cfg.Sources == nil {
		cfg.Sources = def.Sources
	}
	if cfg.Sources.Timeout == nil {
		cfg.Sources.Timeout = def.Sources.Timeout
	}
	if cfg.Sources.CacheTTL == nil {
		cfg.Sources.CacheTTL = def.Sources.CacheTTL
	}
	if cfg.Image == nil {
		cfg.Image = def.Image
	}
	if cfg.Policy == nil {
		cfg.Policy = def.Policy
	}
	if cfg.Audit == nil {
		cfg.Audit = def.Audit
	}
	if cfg.Prometheus == nil {
		cfg.Prometheus = def.Prometheus
	}
	return cfg
}
