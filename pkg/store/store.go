// Package store provides a SQLite-backed cache of rendered segments, keyed
// by seed, backing the render-queue batch tool.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Job is one cached render record.
type Job struct {
	Seed        string
	WAVPath     string
	TimelinePath string
	FrameCount  int
	Digest      string
	RenderedAt  time.Time
	Status      string // "queued", "running", "done", "failed"
}

// Store manages the render job cache.
type Store struct {
	db *sql.DB
}

// Open creates or opens the render cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	logrus.WithField("db_path", path).Info("render cache initialized")
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS render_jobs (
		seed TEXT PRIMARY KEY,
		wav_path TEXT NOT NULL DEFAULT '',
		timeline_path TEXT NOT NULL DEFAULT '',
		frame_count INTEGER NOT NULL DEFAULT 0,
		digest TEXT NOT NULL DEFAULT '',
		rendered_at DATETIME,
		status TEXT NOT NULL DEFAULT 'queued'
	);
	CREATE INDEX IF NOT EXISTS idx_render_jobs_status ON render_jobs(status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create tables: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Enqueue inserts a seed into the queue if it is not already present.
func (s *Store) Enqueue(seedHex string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO render_jobs (seed, status) VALUES (?, 'queued')`,
		seedHex,
	)
	if err != nil {
		return fmt.Errorf("store: enqueue %s: %w", seedHex, err)
	}
	return nil
}

// MarkRunning transitions a job to "running".
func (s *Store) MarkRunning(seedHex string) error {
	_, err := s.db.Exec(`UPDATE render_jobs SET status = 'running' WHERE seed = ?`, seedHex)
	if err != nil {
		return fmt.Errorf("store: mark running %s: %w", seedHex, err)
	}
	return nil
}

// MarkDone records a completed render.
func (s *Store) MarkDone(seedHex, wavPath, timelinePath string, frameCount int, digest string) error {
	_, err := s.db.Exec(`
		UPDATE render_jobs
		SET wav_path = ?, timeline_path = ?, frame_count = ?, digest = ?,
		    rendered_at = ?, status = 'done'
		WHERE seed = ?
	`, wavPath, timelinePath, frameCount, digest, time.Now(), seedHex)
	if err != nil {
		return fmt.Errorf("store: mark done %s: %w", seedHex, err)
	}
	return nil
}

// MarkFailed records a failed render attempt.
func (s *Store) MarkFailed(seedHex string) error {
	_, err := s.db.Exec(`UPDATE render_jobs SET status = 'failed' WHERE seed = ?`, seedHex)
	if err != nil {
		return fmt.Errorf("store: mark failed %s: %w", seedHex, err)
	}
	return nil
}

// Queued returns every job still awaiting render, oldest-enqueued first (by
// rowid, since SQLite's implicit rowid tracks insertion order).
func (s *Store) Queued() ([]Job, error) {
	return s.byStatus("queued")
}

// All returns every job in the cache regardless of status.
func (s *Store) All() ([]Job, error) {
	rows, err := s.db.Query(`
		SELECT seed, wav_path, timeline_path, frame_count, digest, rendered_at, status
		FROM render_jobs ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list all: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *Store) byStatus(status string) ([]Job, error) {
	rows, err := s.db.Query(`
		SELECT seed, wav_path, timeline_path, frame_count, digest, rendered_at, status
		FROM render_jobs WHERE status = ? ORDER BY rowid
	`, status)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", status, err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJobs(rows *sql.Rows) ([]Job, error) {
	var jobs []Job
	for rows.Next() {
		var j Job
		var renderedAt sql.NullTime
		if err := rows.Scan(&j.Seed, &j.WAVPath, &j.TimelinePath, &j.FrameCount, &j.Digest, &renderedAt, &j.Status); err != nil {
			return nil, fmt.Errorf("store: scan job: %w", err)
		}
		if renderedAt.Valid {
			j.RenderedAt = renderedAt.Time
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
