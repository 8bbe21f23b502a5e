package store

import (
	"database/sql"
	"time"
)

const snapshotColumns = "id, taken_at, command, version, source, label, fingerprint"

// CreateSnapshot inserts a new snapshot and returns its ID. TakenAt, when
// zero, defaults to now.
func (db *DB) CreateSnapshot(s *Snapshot) (int64, error) {
	takenAt := s.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	result, err := db.conn.Exec(
		"INSERT INTO snapshots (taken_at, command, version, source, label, fingerprint) VALUES (?, ?, ?, ?, ?, ?)",
		takenAt.UTC().Format(time.RFC3339), s.Command, s.Version, s.Source, s.Label, s.Fingerprint,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetLatestSnapshot returns the most recent snapshot, or nil if none exist.
func (db *DB) GetLatestSnapshot() (*Snapshot, error) {
	return db.GetSnapshotN(1)
}

// GetSnapshot returns a snapshot by ID.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id)
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot (1 = latest, 2 = previous, etc.).
func (db *DB) GetSnapshotN(n int) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	return scanSnapshot(row)
}

// GetRecentSnapshots returns up to limit snapshots, newest first.
func (db *DB) GetRecentSnapshots(limit int) ([]Snapshot, error) {
	rows, err := db.conn.Query(
		"SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snaps []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *s)
	}
	return snaps, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &takenAt, &s.Command, &s.Version, &s.Source, &s.Label, &s.Fingerprint)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// InsertAggregateMetric inserts an aggregate metric for a snapshot.
func (db *DB) InsertAggregateMetric(snapshotID int64, name string, value float64, detail string) error {
	_, err := db.conn.Exec(
		"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value, detail) VALUES (?, ?, ?, ?)",
		snapshotID, name, value, detail,
	)
	return err
}

// GetAggregateMetrics returns all aggregate metrics for a snapshot.
func (db *DB) GetAggregateMetrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics WHERE snapshot_id = ? ORDER BY id",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// GetMetricHistory returns the last limit values of one metric, oldest first.
func (db *DB) GetMetricHistory(name string, limit int) ([]MetricPoint, error) {
	rows, err := db.conn.Query(
		`SELECT s.id, s.taken_at, s.label, m.metric_value
		 FROM aggregate_metrics m JOIN snapshots s ON s.id = m.snapshot_id
		 WHERE m.metric_name = ?
		 ORDER BY s.id DESC LIMIT ?`,
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var points []MetricPoint
	for rows.Next() {
		var p MetricPoint
		var takenAt string
		if err := rows.Scan(&p.SnapshotID, &takenAt, &p.Label, &p.Value); err != nil {
			return nil, err
		}
		p.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// SchemaVersion returns the migration version recorded in the database.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	return v, err
}
