// Package store persists regions, weather observations, and prediction
// records in SQLite. Observations and predictions are append-only; the
// core never updates or deletes rows.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database handle.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS soil_types (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	fire_risk_factor REAL NOT NULL,
	moisture_retention REAL NOT NULL,
	organic_matter REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS regions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	elevation REAL NOT NULL DEFAULT 0,
	soil_type_id INTEGER NOT NULL REFERENCES soil_types(id),
	vegetation_density REAL NOT NULL CHECK (vegetation_density BETWEEN 0 AND 1),
	climate_zone TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weather_observations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	region_id INTEGER NOT NULL REFERENCES regions(id),
	timestamp TIMESTAMP NOT NULL,
	temperature REAL NOT NULL,
	humidity REAL NOT NULL,
	wind_speed REAL NOT NULL,
	precipitation REAL NOT NULL,
	pressure REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_observations_region_ts
	ON weather_observations(region_id, timestamp);

CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	region_id INTEGER NOT NULL REFERENCES regions(id),
	prediction_date TIMESTAMP NOT NULL,
	risk_level TEXT NOT NULL,
	risk_score REAL NOT NULL,
	confidence REAL NOT NULL,
	features_used TEXT NOT NULL,
	model_version TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_predictions_region_date
	ON predictions(region_id, prediction_date DESC);
`

// Open opens (creating if needed) the SQLite database at path and
// bootstraps the schema. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	// SQLite tolerates a single writer; serialize access through one
	// connection instead of returning SQLITE_BUSY under parallel
	// assessments.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping reports database reachability for health checks.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
