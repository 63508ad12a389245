package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Status is the local lifecycle of one job: found when first seen,
// generated once a document exists, uploaded after Drive, tracked after
// the sheet row, failed as the terminal error state.
type Status string

const (
	StatusFound     Status = "found"
	StatusGenerated Status = "generated"
	StatusUploaded  Status = "uploaded"
	StatusTracked   Status = "tracked"
	StatusFailed    Status = "failed"
)

func validStatus(s Status) bool {
	switch s {
	case StatusFound, StatusGenerated, StatusUploaded, StatusTracked, StatusFailed:
		return true
	}
	return false
}

// TrackedJob is one row of the local tracker.
type TrackedJob struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Company    string `json:"company,omitempty"`
	Source     string `json:"source,omitempty"`
	Status     Status `json:"status"`
	ResumePath string `json:"resume_path,omitempty"`
	ResumeURL  string `json:"resume_url,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Tracker is the local SQLite mirror of everything the run touched. It
// answers "have I handled this URL before" across runs regardless of
// whether the Google side is configured.
type Tracker struct {
	db *sql.DB
}

// DefaultTrackerPath is ~/.go_apply/tracker.db.
func DefaultTrackerPath() (string, error) {
	dir, err := engine.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tracker.db"), nil
}

// OpenTracker opens (or creates) the tracker database at path.
func OpenTracker(path string) (*Tracker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("tracker: mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tracker: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initTrackerSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("tracker: init schema: %w", err)
	}
	return &Tracker{db: db}, nil
}

func initTrackerSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		url         TEXT NOT NULL UNIQUE,
		title       TEXT NOT NULL,
		company     TEXT,
		source      TEXT,
		status      TEXT NOT NULL DEFAULT 'found',
		resume_path TEXT,
		resume_url  TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`)
	return err
}

func (t *Tracker) Close() error { return t.db.Close() }

// Record inserts a posting with status found. A URL already present is
// left untouched; the return reports whether this run has seen it before.
func (t *Tracker) Record(ctx context.Context, p engine.JobPosting) (already bool, err error) {
	if p.URL == "" {
		return false, fmt.Errorf("tracker: posting has no URL")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := t.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO jobs (url, title, company, source, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.URL, p.Title, p.Company, p.Source, string(StatusFound), now, now,
	)
	if err != nil {
		return false, fmt.Errorf("tracker: record: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return true, nil
	}
	engine.IncrTrackerWrites()
	return false, nil
}

// SetStatus moves a tracked URL to a new lifecycle state.
func (t *Tracker) SetStatus(ctx context.Context, url string, status Status) error {
	if !validStatus(status) {
		return fmt.Errorf("tracker: invalid status %q (valid: found, generated, uploaded, tracked, failed)", status)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := t.db.ExecContext(ctx,
		`UPDATE jobs SET status=?, updated_at=? WHERE url=?`, string(status), now, url)
	if err != nil {
		return fmt.Errorf("tracker: set status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tracker: url not tracked: %s", url)
	}
	engine.IncrTrackerWrites()
	return nil
}

// SetResume attaches the generated document paths to a tracked URL.
func (t *Tracker) SetResume(ctx context.Context, url, localPath, remoteURL string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := t.db.ExecContext(ctx,
		`UPDATE jobs SET resume_path=?, resume_url=?, updated_at=? WHERE url=?`,
		localPath, remoteURL, now, url)
	if err != nil {
		return fmt.Errorf("tracker: set resume: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tracker: url not tracked: %s", url)
	}
	engine.IncrTrackerWrites()
	return nil
}

// List returns tracked jobs, optionally filtered by status, newest first.
func (t *Tracker) List(ctx context.Context, status Status, limit int) ([]TrackedJob, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		if !validStatus(status) {
			return nil, fmt.Errorf("tracker: invalid status %q", status)
		}
		rows, err = t.db.QueryContext(ctx,
			`SELECT id, url, title, company, source, status, resume_path, resume_url, created_at, updated_at
			 FROM jobs WHERE status = ? ORDER BY updated_at DESC LIMIT ?`, string(status), limit)
	} else {
		rows, err = t.db.QueryContext(ctx,
			`SELECT id, url, title, company, source, status, resume_path, resume_url, created_at, updated_at
			 FROM jobs ORDER BY updated_at DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("tracker: list: %w", err)
	}
	defer rows.Close()

	jobs := []TrackedJob{}
	for rows.Next() {
		var j TrackedJob
		var company, source, resumePath, resumeURL sql.NullString
		if err := rows.Scan(&j.ID, &j.URL, &j.Title, &company, &source, &j.Status,
			&resumePath, &resumeURL, &j.CreatedAt, &j.UpdatedAt); err != nil {
			continue
		}
		j.Company = company.String
		j.Source = source.String
		j.ResumePath = resumePath.String
		j.ResumeURL = resumeURL.String
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Get returns the tracked row for a URL, or nil when the URL is unknown.
func (t *Tracker) Get(ctx context.Context, url string) (*TrackedJob, error) {
	row := t.db.QueryRowContext(ctx,
		`SELECT id, url, title, company, source, status, resume_path, resume_url, created_at, updated_at
		 FROM jobs WHERE url = ?`, url)

	var j TrackedJob
	var company, source, resumePath, resumeURL sql.NullString
	err := row.Scan(&j.ID, &j.URL, &j.Title, &company, &source, &j.Status,
		&resumePath, &resumeURL, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tracker: get: %w", err)
	}
	j.Company = company.String
	j.Source = source.String
	j.ResumePath = resumePath.String
	j.ResumeURL = resumeURL.String
	return &j, nil
}
