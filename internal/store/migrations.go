package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 2

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	// Create the schema_version table if it does not exist.
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrate(1, migrationV1); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}
	if version < 2 {
		if err := db.migrate(2, migrationV2); err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
	}

	return nil
}

// migrationV1 creates the snapshot history tables.
var migrationV1 = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at    TEXT NOT NULL,
		command     TEXT NOT NULL,
		version     TEXT NOT NULL,
		source      TEXT NOT NULL DEFAULT '',
		label       TEXT NOT NULL DEFAULT '',
		fingerprint TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS aggregate_metrics (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
		metric_name  TEXT NOT NULL,
		metric_value REAL NOT NULL,
		detail       TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
	`CREATE INDEX IF NOT EXISTS idx_aggregate_name ON aggregate_metrics(metric_name)`,
}

// migrationV2 adds the computed-stats cache.
var migrationV2 = []string{
	`CREATE TABLE IF NOT EXISTS stats_cache (
		fingerprint    TEXT PRIMARY KEY,
		schema_version INTEGER NOT NULL,
		computed_at    TEXT NOT NULL,
		payload        TEXT NOT NULL
	)`,
}

// migrate applies statements and records version in one transaction.
func (db *DB) migrate(version int, statements []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return err
	}

	return tx.Commit()
}
