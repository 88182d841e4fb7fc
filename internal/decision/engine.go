package decision

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/asimihsan/release_gate/internal/metrics"
	"github.com/asimihsan/release_gate/pkg/gate"
)

// Options configures an Engine.
type Options struct {
	Extractor gate.Extractor
	Snapshot  gate.SnapshotOpts
	// CommitSHA is the commit the image is built from; used for the sha- tag.
	CommitSHA      string
	ShortSHALength int
	ConfigID       string
}

// Result is everything produced by one run.
type Result struct {
	Snapshot gate.Snapshot
	Decision gate.Decision
	Tags     []string
	// Verdict is nil when no build is called for or no policy is configured.
	Verdict  *gate.Verdict
	PolicyID string
}

// PublishDenied reports whether a build is called for but the publish
// policy refused it.
func (r Result) PublishDenied() bool {
	return r.Decision.ShouldBuild && r.Verdict != nil && !r.Verdict.Allow
}

// Engine wires manifest collection, the gate, the publish policy and
// auditing together.
type Engine struct {
	registry  *gate.SourceRegistry
	policies  gate.PolicyProvider // nil => no publish policy
	evaluator gate.PolicyEngine
	auditors  []gate.AuditLogger
	opts      Options
	log       *slog.Logger
}

// NewEngine creates an engine. policies and evaluator may both be nil to
// skip the publish policy.
func NewEngine(registry *gate.SourceRegistry, policies gate.PolicyProvider, evaluator gate.PolicyEngine, opts Options, log *slog.Logger, auditors ...gate.AuditLogger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		registry:  registry,
		policies:  policies,
		evaluator: evaluator,
		auditors:  auditors,
		opts:      opts,
		log:       log,
	}
}

// Run evaluates the gate once.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	currentRev := e.revision(gate.RoleCurrent)

	snap, err := e.registry.SnapshotWithOpts(ctx, e.opts.Snapshot)
	if err != nil {
		e.auditError(ctx, err, currentRev, "")
		return Result{}, err
	}
	if snap.PreviousErr != nil {
		// No parent revision is the bootstrap case, not a failure.
		e.log.WarnContext(ctx, "previous manifest unavailable, treating version as empty",
			"revision", snap.Previous.Revision, "error", snap.PreviousErr)
	}

	d := gate.DecideSnapshot(snap, e.opts.Extractor)
	metrics.Decisions.WithLabelValues(strconv.FormatBool(d.ShouldBuild)).Inc()
	e.log.InfoContext(ctx, "gate decision",
		"should_build", d.ShouldBuild,
		"version", d.ResolvedVersion,
		"previous_version", d.PreviousVersion)
	if d.ResolvedVersion == "" {
		e.log.WarnContext(ctx, "no version declared in current manifest",
			"path", snap.Current.Path, "revision", snap.Current.Revision)
	}

	res := Result{
		Snapshot: snap,
		Decision: d,
		Tags:     gate.PlanTags(d, e.opts.CommitSHA, e.opts.ShortSHALength),
	}

	if d.ShouldBuild && e.policies != nil && e.evaluator != nil {
		verdict, policyID, err := e.evaluate(ctx, res)
		if err != nil {
			e.auditError(ctx, err, currentRev, policyID)
			return Result{}, err
		}
		res.Verdict = &verdict
		res.PolicyID = policyID
		if !verdict.Allow {
			metrics.PolicyDenials.Inc()
			e.log.WarnContext(ctx, "publish denied by policy", "reasons", verdict.DenyReasons)
		}
	}

	rec := gate.AuditRecord{
		Decision:         d,
		Verdict:          res.Verdict,
		Tags:             res.Tags,
		CurrentRevision:  snap.Current.Revision,
		PreviousRevision: snap.Previous.Revision,
		CommitSHA:        e.opts.CommitSHA,
		PolicyID:         res.PolicyID,
		ConfigID:         e.opts.ConfigID,
		EvalDuration:     time.Since(start),
	}
	for _, a := range e.auditors {
		if err := a.LogDecision(ctx, rec); err != nil {
			// Auditing never changes the outcome.
			e.log.ErrorContext(ctx, "failed to audit decision", "error", err)
		}
	}

	return res, nil
}

func (e *Engine) evaluate(ctx context.Context, res Result) (gate.Verdict, string, error) {
	bundle, err := e.policies.GetPolicyBundle(ctx)
	if err != nil {
		return gate.Verdict{}, "", err
	}

	input := gate.PolicyInput{
		ShouldBuild:     res.Decision.ShouldBuild,
		Version:         res.Decision.ResolvedVersion,
		PreviousVersion: res.Decision.PreviousVersion,
		Tags:            res.Tags,
	}
	verdict, err := e.evaluator.Evaluate(ctx, bundle, input)
	if err != nil {
		return gate.Verdict{}, bundle.ID(), err
	}
	return verdict, bundle.ID(), nil
}

func (e *Engine) auditError(ctx context.Context, err error, currentRev, policyID string) {
	e.log.ErrorContext(ctx, "gate evaluation failed", "error", err)
	for _, a := range e.auditors {
		if aerr := a.LogSystemError(ctx, err, currentRev, policyID, e.opts.ConfigID); aerr != nil {
			e.log.ErrorContext(ctx, "failed to audit error", "error", aerr)
		}
	}
}

func (e *Engine) revision(role gate.Role) string {
	if b, ok := e.registry.Binding(role); ok {
		return b.Revision
	}
	return ""
}
