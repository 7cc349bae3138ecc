package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobmate/job-finder/internal/pipeline"
)

// DB is the subset of *pgxpool.Pool the archive needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS finder_run (
	run_id      UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	stats       JSONB NOT NULL,
	warnings    JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS finder_listing (
	listing_key   TEXT PRIMARY KEY,
	first_run_id  UUID NOT NULL REFERENCES finder_run(run_id),
	source        TEXT NOT NULL,
	title         TEXT NOT NULL,
	company       TEXT NOT NULL,
	location      TEXT NOT NULL,
	remote        BOOLEAN NOT NULL,
	url           TEXT NOT NULL,
	description   TEXT NOT NULL,
	published_at  TIMESTAMPTZ,
	tags          JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS finder_selection (
	run_id      UUID NOT NULL REFERENCES finder_run(run_id),
	listing_key TEXT NOT NULL REFERENCES finder_listing(listing_key),
	rank        INT NOT NULL,
	score       INT NOT NULL,
	age_days    INT NOT NULL,
	reasons     JSONB NOT NULL,
	PRIMARY KEY (run_id, listing_key)
)`

// Postgres archives runs in PostgreSQL.
type Postgres struct {
	db DB
}

// NewPostgres wraps db, typically a *pgxpool.Pool.
func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the archive tables when missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveRun records res and its selected listings in one transaction.
func (p *Postgres) SaveRun(ctx context.Context, res *pipeline.Result) (SaveResult, error) {
	var out SaveResult
	stats, warnings, err := runJSON(res)
	if err != nil {
		return out, err
	}
	rs, err := rows(res.Listings)
	if err != nil {
		return out, err
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return out, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx,
		`INSERT INTO finder_run (run_id, started_at, finished_at, stats, warnings)
		 VALUES ($1, $2, $3, $4::jsonb, $5::jsonb)`,
		res.RunID, res.StartedAt, res.FinishedAt, stats, warnings,
	); err != nil {
		return out, fmt.Errorf("insert run: %w", err)
	}

	for _, r := range rs {
		tag, err := tx.Exec(ctx,
			`INSERT INTO finder_listing (listing_key, first_run_id, source, title, company, location,
			                             remote, url, description, published_at, tags)
			 SELECT $1::text, $2::uuid, $3::text, $4::text, $5::text, $6::text,
			        $7::boolean, $8::text, $9::text, $10::timestamptz, $11::jsonb
			 WHERE NOT EXISTS (
			   SELECT 1 FROM finder_listing WHERE listing_key = $1::text
			 )`,
			r.key, res.RunID, r.source, r.title, r.company, r.location,
			r.remote, r.url, r.description, r.publishedAt, r.tags,
		)
		if err != nil {
			return SaveResult{}, fmt.Errorf("insert listing %s: %w", r.url, err)
		}
		if tag.RowsAffected() == 0 {
			out.Duplicates++
		} else {
			out.Inserted++
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO finder_selection (run_id, listing_key, rank, score, age_days, reasons)
			 VALUES ($1, $2, $3, $4, $5, $6::jsonb)`,
			res.RunID, r.key, r.rank, r.score, r.ageDays, r.reasons,
		); err != nil {
			return SaveResult{}, fmt.Errorf("insert selection %s: %w", r.url, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return SaveResult{}, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// Close is a no-op; the pool is owned by the caller.
func (p *Postgres) Close() error { return nil }
