// Package storage keeps a SQLite table of finished and abandoned runs.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run records.
type Store struct {
	db *sql.DB
}

// Run is one finished or abandoned play-through.
type Run struct {
	ID        int64
	Seed      string
	Config    string // chunk or pack the world was generated from
	Victory   bool
	Steps     int
	Frames    int64
	Segment   int // segment the player ended in
	CreatedAt time.Time
}

// Stats aggregates every stored run.
type Stats struct {
	Runs      int
	Wins      int
	BestSteps int // fewest steps in a won run, 0 if none
}

// Open opens the run database at dbPath, creating it and its directory on
// first use. dbPath is taken literally; callers expand "~" themselves.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate brings an empty file up to the runs schema.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '',
			victory INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			segment INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
		CREATE INDEX IF NOT EXISTS idx_runs_wins ON runs(victory, steps);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (seed, config, victory, steps, frames, segment)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Seed, r.Config, r.Victory, r.Steps, r.Frames, r.Segment,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the latest runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, seed, config, victory, steps, frames, segment, created_at
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// Wins retrieves won runs, fewest steps first.
func (s *Store) Wins(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, seed, config, victory, steps, frames, segment, created_at
		 FROM runs
		 WHERE victory = 1
		 ORDER BY steps ASC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// RunsForSeed retrieves every run of one seed, oldest first.
func (s *Store) RunsForSeed(seed string) ([]Run, error) {
	return s.queryRuns(
		`SELECT id, seed, config, victory, steps, frames, segment, created_at
		 FROM runs
		 WHERE seed = ?
		 ORDER BY id ASC`,
		seed,
	)
}

// Stats aggregates every stored run.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(victory), 0),
		        COALESCE(MIN(CASE WHEN victory = 1 THEN steps END), 0)
		 FROM runs`,
	).Scan(&st.Runs, &st.Wins, &st.BestSteps)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	return st, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.Config, &r.Victory, &r.Steps, &r.Frames, &r.Segment, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.CreatedAt = createdTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// createdTime reads created_at, which the driver returns as a time.Time or as
// CURRENT_TIMESTAMP text depending on how the row was written.
func createdTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.DateTime, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
