package store

import (
	"database/sql"
	"time"
)

// GetCachedStats returns the cached payload for fingerprint, or nil when
// there is none or it was written under another schema version.
func (db *DB) GetCachedStats(fingerprint string, schemaVersion int) (*CachedStats, error) {
	row := db.conn.QueryRow(
		"SELECT fingerprint, schema_version, computed_at, payload FROM stats_cache WHERE fingerprint = ?",
		fingerprint,
	)

	var c CachedStats
	var computedAt, payload string
	err := row.Scan(&c.Fingerprint, &c.SchemaVersion, &computedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.SchemaVersion != schemaVersion {
		return nil, nil
	}
	c.ComputedAt, _ = time.Parse(time.RFC3339, computedAt)
	c.Payload = []byte(payload)
	return &c, nil
}

// PutCachedStats stores or replaces the payload for a fingerprint.
func (db *DB) PutCachedStats(c *CachedStats) error {
	computedAt := c.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now()
	}
	_, err := db.conn.Exec(
		`INSERT INTO stats_cache (fingerprint, schema_version, computed_at, payload)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
		   schema_version = excluded.schema_version,
		   computed_at    = excluded.computed_at,
		   payload        = excluded.payload`,
		c.Fingerprint, c.SchemaVersion, computedAt.UTC().Format(time.RFC3339), string(c.Payload),
	)
	return err
}

// PruneCachedStats deletes cache rows computed before cutoff and returns how
// many were removed.
func (db *DB) PruneCachedStats(cutoff time.Time) (int64, error) {
	res, err := db.conn.Exec(
		"DELETE FROM stats_cache WHERE computed_at < ?",
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
