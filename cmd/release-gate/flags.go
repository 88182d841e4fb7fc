package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/asimihsan/release_gate/internal/ci"
	"github.com/asimihsan/release_gate/internal/config"
)

type gateFlags struct {
	configPath      string
	manifest        string
	versionKey      string
	repo            string
	source          string
	currentRev      string
	previousRev     string
	rawBaseURL      string
	sha             string
	format          string
	policyPath      string
	noPolicy        bool
	auditDB         string
	metricsTextfile string
	logLevel        string
	logFormat       string

	fs *pflag.FlagSet
}

func parseGateFlags(args []string, env ci.Env) (*gateFlags, error) {
	f := &gateFlags{}
	fs := pflag.NewFlagSet("release-gate", pflag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", env.ConfigPath, "Pkl configuration module")
	fs.StringVar(&f.manifest, "manifest", "", "Manifest path relative to the repository root")
	fs.StringVar(&f.versionKey, "version-key", "", "Manifest identifier holding the version")
	fs.StringVar(&f.repo, "repo", "", "Repository directory")
	fs.StringVar(&f.source, "source", "", "Manifest source: git, file or http")
	fs.StringVar(&f.currentRev, "current-rev", "", "Revision of the current manifest")
	fs.StringVar(&f.previousRev, "previous-rev", "", "Revision of the previous manifest")
	fs.StringVar(&f.rawBaseURL, "raw-base-url", "", "Raw content base URL for the http source")
	fs.StringVar(&f.sha, "sha", env.SHA, "Commit SHA used for the sha- image tag")
	fs.StringVar(&f.format, "format", "", "Output format: github, json or table")
	fs.StringVar(&f.policyPath, "policy", "", "Rego publish policy file")
	fs.BoolVar(&f.noPolicy, "no-policy", false, "Skip the publish policy")
	fs.StringVar(&f.auditDB, "audit-db", "", "SQLite decision history path")
	fs.StringVar(&f.metricsTextfile, "metrics-textfile", "", "Write metrics to this node exporter textfile")
	fs.StringVar(&f.logLevel, "log-level", env.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if f.format == "" {
		f.format = "table"
		if env.Actions {
			f.format = "github"
		}
	}
	f.fs = fs
	return f, nil
}

// apply overrides cfg with every flag that was set explicitly.
func (f *gateFlags) apply(cfg *config.AppConfig) {
	override := func(name string, dst *string, v string) {
		if f.fs.Changed(name) {
			*dst = v
		}
	}
	override("manifest", &cfg.Manifest.Path, f.manifest)
	override("version-key", &cfg.Manifest.VersionKey, f.versionKey)
	override("repo", &cfg.Manifest.RepoDir, f.repo)
	override("source", &cfg.Manifest.Source, f.source)
	override("current-rev", &cfg.Manifest.CurrentRevision, f.currentRev)
	override("previous-rev", &cfg.Manifest.PreviousRevision, f.previousRev)
	override("raw-base-url", &cfg.Manifest.RawBaseURL, f.rawBaseURL)
	override("policy", &cfg.Policy.Path, f.policyPath)
	override("audit-db", &cfg.Audit.DBPath, f.auditDB)
	override("metrics-textfile", &cfg.Prometheus.TextfilePath, f.metricsTextfile)
	if f.noPolicy {
		cfg.Policy.Enabled = false
	}
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	if level == "" {
		level = "info"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
}
