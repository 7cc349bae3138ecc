package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jobmate/job-finder/internal/pipeline"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS finder_run (
	run_id      TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	stats       TEXT NOT NULL,
	warnings    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS finder_listing (
	listing_key  TEXT PRIMARY KEY,
	first_run_id TEXT NOT NULL REFERENCES finder_run(run_id),
	source       TEXT NOT NULL,
	title        TEXT NOT NULL,
	company      TEXT NOT NULL,
	location     TEXT NOT NULL,
	remote       INTEGER NOT NULL,
	url          TEXT NOT NULL,
	description  TEXT NOT NULL,
	published_at TEXT,
	tags         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS finder_selection (
	run_id      TEXT NOT NULL REFERENCES finder_run(run_id),
	listing_key TEXT NOT NULL REFERENCES finder_listing(listing_key),
	rank        INTEGER NOT NULL,
	score       INTEGER NOT NULL,
	age_days    INTEGER NOT NULL,
	reasons     TEXT NOT NULL,
	PRIMARY KEY (run_id, listing_key)
);`

// SQLite archives runs in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// DB exposes the handle for read queries.
func (s *SQLite) DB() *sql.DB { return s.db }

// SaveRun records res and its selected listings in one transaction.
func (s *SQLite) SaveRun(ctx context.Context, res *pipeline.Result) (SaveResult, error) {
	var out SaveResult
	stats, warnings, err := runJSON(res)
	if err != nil {
		return out, err
	}
	rs, err := rows(res.Listings)
	if err != nil {
		return out, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return out, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO finder_run (run_id, started_at, finished_at, stats, warnings) VALUES (?, ?, ?, ?, ?)`,
		res.RunID, res.StartedAt.UTC().Format(time.RFC3339), res.FinishedAt.UTC().Format(time.RFC3339), stats, warnings,
	); err != nil {
		return out, fmt.Errorf("insert run: %w", err)
	}

	for _, r := range rs {
		var published any
		if t, ok := r.publishedAt.(time.Time); ok {
			published = t.Format(time.RFC3339)
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO finder_listing (listing_key, first_run_id, source, title, company, location,
			                             remote, url, description, published_at, tags)
			 SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
			 WHERE NOT EXISTS (SELECT 1 FROM finder_listing WHERE listing_key = ?)`,
			r.key, res.RunID, r.source, r.title, r.company, r.location,
			r.remote, r.url, r.description, published, r.tags, r.key,
		)
		if err != nil {
			return SaveResult{}, fmt.Errorf("insert listing %s: %w", r.url, err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			out.Duplicates++
		} else {
			out.Inserted++
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO finder_selection (run_id, listing_key, rank, score, age_days, reasons) VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, r.key, r.rank, r.score, r.ageDays, r.reasons,
		); err != nil {
			return SaveResult{}, fmt.Errorf("insert selection %s: %w", r.url, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SaveResult{}, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }
