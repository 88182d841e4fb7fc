// Package sqlite keeps a write-only history of gate decisions in SQLite.
// The history is never read back into a decision.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/asimihsan/release_gate/pkg/gate"
)

// Entry is one row of decision history.
type Entry struct {
	ID               int64
	RecordedAt       time.Time
	ShouldBuild      bool
	Version          string
	PreviousVersion  string
	CurrentRevision  string
	PreviousRevision string
	CommitSHA        string
	Tags             []string
	PublishAllowed   *bool
	DenyReasons      []string
	PolicyID         string
	ConfigID         string
	Duration         time.Duration
	Error            string
}

// Logger implements gate.AuditLogger backed by a SQLite database.
type Logger struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

var _ gate.AuditLogger = (*Logger)(nil)

// Open creates or opens the history database at dbPath.
func Open(dbPath string) (*Logger, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Logger{db: db, dbPath: resolved, now: time.Now}, nil
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("audit db path is empty")
	}
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		p = filepath.Join(home, p[2:])
	}
	return filepath.Clean(p), nil
}

// Path returns the resolved database path.
func (l *Logger) Path() string { return l.dbPath }

// Close closes the database.
func (l *Logger) Close() error { return l.db.Close() }

// LogDecision implements gate.AuditLogger.
func (l *Logger) LogDecision(ctx context.Context, rec gate.AuditRecord) error {
	var allowed any
	var reasons []string
	if rec.Verdict != nil {
		allowed = boolToInt(rec.Verdict.Allow)
		reasons = rec.Verdict.DenyReasons
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO decisions (
			recorded_at, should_build, version, previous_version,
			current_revision, previous_revision, commit_sha, tags,
			publish_allowed, deny_reasons, policy_id, config_id, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.now().UTC().Format(time.RFC3339Nano),
		boolToInt(rec.Decision.ShouldBuild),
		rec.Decision.ResolvedVersion,
		rec.Decision.PreviousVersion,
		rec.CurrentRevision,
		rec.PreviousRevision,
		rec.CommitSHA,
		strings.Join(rec.Tags, ","),
		allowed,
		strings.Join(reasons, "\n"),
		rec.PolicyID,
		rec.ConfigID,
		rec.EvalDuration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}

// LogSystemError implements gate.AuditLogger.
func (l *Logger) LogSystemError(ctx context.Context, systemError error, currentRevision, policyID, configID string) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO decisions (
			recorded_at, should_build, version, previous_version,
			current_revision, previous_revision, commit_sha, tags,
			publish_allowed, deny_reasons, policy_id, config_id, duration_ms, error
		) VALUES (?, 0, '', '', ?, '', '', '', NULL, '', ?, ?, 0, ?)`,
		l.now().UTC().Format(time.RFC3339Nano),
		currentRevision,
		policyID,
		configID,
		systemError.Error(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert system error: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *Logger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, recorded_at, should_build, version, previous_version,
			current_revision, previous_revision, commit_sha, tags,
			publish_allowed, deny_reasons, policy_id, config_id, duration_ms, error
		FROM decisions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			recordedAt  string
			shouldBuild int
			tags        string
			allowed     sql.NullInt64
			reasons     string
			durationMS  int64
		)
		if err := rows.Scan(&e.ID, &recordedAt, &shouldBuild, &e.Version, &e.PreviousVersion,
			&e.CurrentRevision, &e.PreviousRevision, &e.CommitSHA, &tags,
			&allowed, &reasons, &e.PolicyID, &e.ConfigID, &durationMS, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		e.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at %q: %w", recordedAt, err)
		}
		e.ShouldBuild = shouldBuild != 0
		e.Tags = splitNonEmpty(tags, ",")
		if allowed.Valid {
			v := allowed.Int64 != 0
			e.PublishAllowed = &v
		}
		e.DenyReasons = splitNonEmpty(reasons, "\n")
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}
