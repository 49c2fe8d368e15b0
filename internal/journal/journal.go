// Package journal keeps a history of sync runs in a SQLite database so past
// results can be reviewed with `synclink history`.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/bamsammich/synclink/internal/stats"
)

// Run is one recorded sync run.
type Run struct {
	ID      string
	Started time.Time
	Elapsed time.Duration
	Src     string
	Dst     string
	DryRun  bool
	Stats   stats.Snapshot
	Err     string // empty on success
}

// Journal is an open history database.
type Journal struct {
	db   *sql.DB
	path string
}

// DefaultPath returns $XDG_STATE_HOME/synclink/history.db.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, "synclink", "history.db")
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	j := &Journal{db: db, path: path}
	if err := j.init(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) init() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			started    INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			src        TEXT NOT NULL,
			dst        TEXT NOT NULL,
			dry_run    INTEGER NOT NULL,
			src_count  INTEGER NOT NULL,
			dst_count  INTEGER NOT NULL,
			mkdir      INTEGER NOT NULL,
			linked     INTEGER NOT NULL,
			relinked   INTEGER NOT NULL,
			unchanged  INTEGER NOT NULL,
			replaced   INTEGER NOT NULL,
			skipped    INTEGER NOT NULL,
			unlinked   INTEGER NOT NULL,
			rmdir      INTEGER NOT NULL,
			error      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_started ON runs (started);
	`)
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Record stores r. Recording the same ID twice replaces the earlier row.
//
//nolint:gocritic // hugeParam: Run is written once per process
func (j *Journal) Record(r Run) error {
	s := r.Stats
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs (
			id, started, elapsed_ms, src, dst, dry_run,
			src_count, dst_count, mkdir, linked, relinked, unchanged,
			replaced, skipped, unlinked, rmdir, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Started.UnixNano(), r.Elapsed.Milliseconds(), r.Src, r.Dst, r.DryRun,
		s.SourceEntries, s.DestEntries, s.DirsCreated, s.Linked, s.Relinked, s.Unchanged,
		s.Replaced, s.Skipped, s.FilesDeleted, s.DirsDeleted, r.Err,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(limit int) ([]Run, error) {
	rows, err := j.db.Query(`
		SELECT id, started, elapsed_ms, src, dst, dry_run,
			src_count, dst_count, mkdir, linked, relinked, unchanged,
			replaced, skipped, unlinked, rmdir, error
		FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r         Run
			started   int64
			elapsedMS int64
		)
		s := &r.Stats
		err := rows.Scan(&r.ID, &started, &elapsedMS, &r.Src, &r.Dst, &r.DryRun,
			&s.SourceEntries, &s.DestEntries, &s.DirsCreated, &s.Linked, &s.Relinked, &s.Unchanged,
			&s.Replaced, &s.Skipped, &s.FilesDeleted, &s.DirsDeleted, &r.Err)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started = time.Unix(0, started)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		s.Elapsed = r.Elapsed
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the path to the database file.
func (j *Journal) Path() string {
	return j.path
}
