package stdout

import (
	"context"
	"log/slog"

	"github.com/asimihsan/release_gate/pkg/gate"
)

// Logger implements gate.AuditLogger with structured records on a slog.Logger.
type Logger struct {
	log *slog.Logger
}

var _ gate.AuditLogger = (*Logger)(nil)

// New creates a new audit logger writing through log. A nil log uses
// slog.Default().
func New(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log.With("component", "audit")}
}

// LogDecision implements gate.AuditLogger.
func (l *Logger) LogDecision(ctx context.Context, rec gate.AuditRecord) error {
	attrs := []any{
		"should_build", rec.Decision.ShouldBuild,
		"version", rec.Decision.ResolvedVersion,
		"previous_version", rec.Decision.PreviousVersion,
		"current_revision", rec.CurrentRevision,
		"previous_revision", rec.PreviousRevision,
		"tags", rec.Tags,
		"policy_id", rec.PolicyID,
		"config_id", rec.ConfigID,
		"duration", rec.EvalDuration,
	}
	if rec.Verdict != nil {
		attrs = append(attrs, "publish_allowed", rec.Verdict.Allow, "deny_reasons", rec.Verdict.DenyReasons)
	}

	l.log.InfoContext(ctx, "audit decision", attrs...)
	return nil
}

// LogSystemError implements gate.AuditLogger.
func (l *Logger) LogSystemError(ctx context.Context, systemError error, currentRevision, policyID, configID string) error {
	l.log.ErrorContext(ctx, "audit system error",
		"error", systemError,
		"current_revision", currentRevision,
		"policy_id", policyID,
		"config_id", configID)
	return nil
}
