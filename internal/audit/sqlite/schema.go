package sqlite

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decisions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	should_build INTEGER NOT NULL,
	version TEXT NOT NULL,
	previous_version TEXT NOT NULL,
	current_revision TEXT NOT NULL,
	previous_revision TEXT NOT NULL,
	commit_sha TEXT NOT NULL,
	tags TEXT NOT NULL,
	publish_allowed INTEGER,
	deny_reasons TEXT NOT NULL,
	policy_id TEXT NOT NULL,
	config_id TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_decisions_recorded_at ON decisions(recorded_at);

INSERT OR IGNORE INTO schema_migrations(version, applied_at) VALUES (1, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'));
`
