// Package store provides SQLite database access for libster snapshots and
// the computed-stats cache.
package store

import "time"

// Snapshot represents a point-in-time capture of one recap.
type Snapshot struct {
	ID          int64     `json:"id"`
	TakenAt     time.Time `json:"taken_at"`
	Command     string    `json:"command"`
	Version     string    `json:"version"`
	Source      string    `json:"source,omitempty"`
	Label       string    `json:"label,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
}

// AggregateMetric represents a named metric value within a snapshot.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// MetricPoint is one value of a metric on the snapshot timeline.
type MetricPoint struct {
	SnapshotID int64     `json:"snapshot_id"`
	TakenAt    time.Time `json:"taken_at"`
	Label      string    `json:"label,omitempty"`
	Value      float64   `json:"value"`
}

// CachedStats is one row of the computed-stats cache. Payload is the JSON
// encoding of the snapshot.
type CachedStats struct {
	Fingerprint   string    `json:"fingerprint"`
	SchemaVersion int       `json:"schema_version"`
	ComputedAt    time.Time `json:"computed_at"`
	Payload       []byte    `json:"-"`
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}
