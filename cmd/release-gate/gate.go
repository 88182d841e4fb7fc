package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/asimihsan/release_gate/internal/audit/sqlite"
	"github.com/asimihsan/release_gate/internal/audit/stdout"
	"github.com/asimihsan/release_gate/internal/ci"
	"github.com/asimihsan/release_gate/internal/config"
	"github.com/asimihsan/release_gate/internal/decision"
	"github.com/asimihsan/release_gate/internal/engine/opa"
	"github.com/asimihsan/release_gate/internal/manifest/file"
	"github.com/asimihsan/release_gate/internal/manifest/git"
	"github.com/asimihsan/release_gate/internal/manifest/rawhttp"
	"github.com/asimihsan/release_gate/internal/metrics"
	"github.com/asimihsan/release_gate/internal/output"
	policyfile "github.com/asimihsan/release_gate/internal/policy/file"
	pkgconfig "github.com/asimihsan/release_gate/pkg/config"
	"github.com/asimihsan/release_gate/pkg/gate"
)

func runGate(ctx context.Context, args []string, stdoutW, stderr io.Writer) error {
	env, err := ci.LoadEnv()
	if err != nil {
		return err
	}
	return evaluate(ctx, args, env, stdoutW, stderr)
}

func evaluate(ctx context.Context, args []string, env ci.Env, stdoutW, stderr io.Writer) error {
	flags, err := parseGateFlags(args, env)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, flags.logLevel, flags.logFormat)
	if err != nil {
		return err
	}

	metrics.MustRegister()

	cfg, configID, err := pkgconfig.Evaluate(ctx, flags.configPath)
	if err != nil {
		return err
	}
	flags.apply(cfg)
	if cfg.Manifest.RepoDir == "." && env.Workspace != "" && !flags.fs.Changed("repo") {
		cfg.Manifest.RepoDir = env.Workspace
	}
	logger.DebugContext(ctx, "configuration loaded", "config_id", configID, "config", spew.Sdump(cfg))

	extractor, err := gate.NewExtractor(cfg.Manifest.VersionKey)
	if err != nil {
		return fmt.Errorf("%w: %v", gate.ErrConfigLoad, err)
	}

	registry, err := bindSources(ctx, cfg, env)
	if err != nil {
		return err
	}

	commitSHA := flags.sha
	if commitSHA == "" && cfg.Manifest.Source != "http" {
		repo := git.NewProvider(cfg.Manifest.RepoDir, cfg.Manifest.Path)
		if sha, err := repo.ResolveRevision(ctx, "HEAD"); err == nil {
			commitSHA = sha
		} else {
			logger.DebugContext(ctx, "commit SHA unknown, sha tag skipped", "error", err)
		}
	}

	auditors := []gate.AuditLogger{stdout.New(logger)}
	if cfg.Audit.DBPath != "" {
		dbPath := cfg.Audit.DBPath
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(cfg.Manifest.RepoDir, dbPath)
		}
		history, err := sqlite.Open(dbPath)
		if err != nil {
			return err
		}
		defer history.Close()
		auditors = append(auditors, history)
	}

	var (
		policies  gate.PolicyProvider
		evaluator gate.PolicyEngine
	)
	if cfg.Policy.Enabled {
		policies = policyfile.New(cfg.Policy.Path, cfg.Policy.Query)
		evaluator = opa.NewEngine()
	}

	engine := decision.NewEngine(registry, policies, evaluator, decision.Options{
		Extractor:      extractor,
		Snapshot:       gate.SnapshotOpts{PerSourceTimeout: cfg.Sources.Timeout.GoDuration()},
		CommitSHA:      commitSHA,
		ShortSHALength: cfg.Image.ShortShaLength,
		ConfigID:       configID,
	}, logger, auditors...)

	res, err := engine.Run(ctx)
	if path := cfg.Prometheus.TextfilePath; path != "" {
		if werr := metrics.WriteTextfile(path); werr != nil {
			logger.WarnContext(ctx, "failed to write metrics textfile", "path", path, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	signals := output.NewSignals(res.Decision, res.Tags, res.Verdict)
	if err := emit(signals, format, env, stdoutW, logger); err != nil {
		return err
	}

	if res.PublishDenied() {
		return fmt.Errorf("%w: %v", errPublishDenied, res.Verdict.DenyReasons)
	}
	return nil
}

// bindSources maps the configured source kind onto the current and
// previous roles.
func bindSources(ctx context.Context, cfg *config.AppConfig, env ci.Env) (*gate.SourceRegistry, error) {
	m := cfg.Manifest
	registry := gate.NewSourceRegistry()

	switch m.Source {
	case "git":
		repo := git.NewProvider(m.RepoDir, m.Path)
		if m.CurrentRevision == file.WorktreeRevision {
			registry.Bind(gate.RoleCurrent, file.NewProvider(m.RepoDir, m.Path), file.WorktreeRevision)
		} else {
			registry.Bind(gate.RoleCurrent, repo, m.CurrentRevision)
		}
		registry.Bind(gate.RolePrevious, repo, m.PreviousRevision)
	case "file":
		// Working tree for current, parent from history.
		registry.Bind(gate.RoleCurrent, file.NewProvider(m.RepoDir, m.Path), file.WorktreeRevision)
		registry.Bind(gate.RolePrevious, git.NewProvider(m.RepoDir, m.Path), m.PreviousRevision)
	case "http":
		base := m.RawBaseURL
		if base == "" {
			base = env.RepositoryRawURL()
		}
		if base == "" {
			return nil, fmt.Errorf("%w: http source needs a raw base URL or GITHUB_REPOSITORY", gate.ErrConfigLoad)
		}
		// Raw content endpoints only serve refs and SHAs.
		repo := git.NewProvider(m.RepoDir, m.Path)
		current, err := resolveRemoteRevision(ctx, repo, m.CurrentRevision, currentHint(m.CurrentRevision, env))
		if err != nil {
			return nil, err
		}
		hint, err := previousHint(m.PreviousRevision, env)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", gate.ErrConfigLoad, err)
		}
		previous, err := resolveRemoteRevision(ctx, repo, m.PreviousRevision, hint)
		if err != nil {
			return nil, err
		}
		src := rawhttp.NewProvider(base, m.Path, env.Token, cfg.Sources.CacheTTL.GoDuration())
		registry.Bind(gate.RoleCurrent, src, current)
		registry.Bind(gate.RolePrevious, src, previous)
	default:
		return nil, fmt.Errorf("%w: unknown manifest source %q", gate.ErrConfigLoad, m.Source)
	}
	return registry, nil
}

// isRelativeRef reports whether rev only has meaning against local history,
// such as HEAD, HEAD^ or main~2.
func isRelativeRef(rev string) bool {
	return rev == "" || strings.Contains(rev, "HEAD") || strings.ContainsAny(rev, "^~@:")
}

func isParentRef(rev string) bool {
	switch rev {
	case "HEAD^", "HEAD^1", "HEAD~", "HEAD~1":
		return true
	}
	return false
}

func currentHint(rev string, env ci.Env) string {
	if rev == "HEAD" {
		return env.SHA
	}
	return ""
}

// previousHint uses the push event's before SHA for the parent revision.
func previousHint(rev string, env ci.Env) (string, error) {
	if !isParentRef(rev) {
		return "", nil
	}
	return env.BeforeSHA()
}

// resolveRemoteRevision turns rev into something a raw content endpoint can
// serve: rev itself when it is absolute, else hint, else the commit local
// history resolves it to.
func resolveRemoteRevision(ctx context.Context, repo *git.Provider, rev, hint string) (string, error) {
	if !isRelativeRef(rev) {
		return rev, nil
	}
	if hint != "" {
		return hint, nil
	}
	sha, err := repo.ResolveRevision(ctx, rev)
	if err != nil {
		return "", fmt.Errorf("%w: http source cannot fetch relative revision %q and local history cannot resolve it (%v); pass a commit SHA", gate.ErrConfigLoad, rev, err)
	}
	return sha, nil
}

func emit(s output.Signals, format output.Format, env ci.Env, w io.Writer, logger *slog.Logger) error {
	if err := output.Write(w, format, s); err != nil {
		return err
	}
	if env.Output != "" {
		if err := output.AppendGitHubOutputFile(env.Output, s); err != nil {
			return err
		}
		logger.Debug("signals written to GITHUB_OUTPUT", "path", env.Output)
	}
	if env.StepSummary != "" {
		if err := output.AppendStepSummary(env.StepSummary, s); err != nil {
			// The summary is cosmetic.
			logger.Warn("failed to write step summary", "error", err)
		}
	}
	return nil
}
