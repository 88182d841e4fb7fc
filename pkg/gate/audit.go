package gate

import (
	"context"
	"time"
)

// AuditRecord carries everything known about one evaluation.
type AuditRecord struct {
	Decision         Decision
	Verdict          *Verdict // nil when the policy was not evaluated
	Tags             []string
	CurrentRevision  string
	PreviousRevision string
	CommitSHA        string
	PolicyID         string
	ConfigID         string
	EvalDuration     time.Duration
}

// AuditLogger persists decision and error information.
type AuditLogger interface {
	// LogDecision records the outcome of a completed evaluation.
	LogDecision(ctx context.Context, rec AuditRecord) error

	// LogSystemError records failures that prevented a decision.
	// systemError: the specific error (e.g., ErrManifestUnavailable, ErrPolicyLoad).
	// policyID, configID: identifiers if available at the time of error.
	LogSystemError(ctx context.Context, systemError error, currentRevision, policyID, configID string) error
}
