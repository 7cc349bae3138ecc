package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"jobmate/job-finder/internal/config"
	"jobmate/job-finder/internal/db"
	"jobmate/job-finder/internal/events"
	"jobmate/job-finder/internal/logger"
	"jobmate/job-finder/internal/metrics"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/pipeline"
	"jobmate/job-finder/internal/scheduler"
	"jobmate/job-finder/internal/scraper"
	"jobmate/job-finder/internal/store"
)

// deps is everything a command needs, built from config and flags.
type deps struct {
	cfg     *config.Config
	log     logger.Logger
	profile model.Profile
	runner  *scheduler.Runner
	closers []func() error
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	_ = d.log.Sync()
	return errors.Join(errs...)
}

// loadDeps reads config and the profile, then connects the optional
// backends. reg may be nil to skip metrics.
func loadDeps(ctx context.Context, cmd *cobra.Command, reg prometheus.Registerer) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	profile := config.DefaultProfile()
	if path, _ := cmd.Flags().GetString("profile"); path != "" {
		if profile, err = config.LoadProfile(path); err != nil {
			return nil, err
		}
	}

	d := &deps{cfg: cfg, log: log, profile: profile}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	client := scraper.NewClient(cfg.FetchTimeout, cfg.UserAgent)
	sources := scraper.Catalogue(client, scraper.CatalogueOptions{
		AdzunaAppID:   cfg.AdzunaAppID,
		AdzunaAppKey:  cfg.AdzunaAppKey,
		AdzunaCountry: cfg.AdzunaCountry,
	})
	p := pipeline.New(sources, log, m, pipeline.Options{
		Timeout:     cfg.FetchTimeout,
		Retries:     cfg.FetchRetries,
		Concurrency: cfg.FetchConcurrency,
	})
	d.runner = &scheduler.Runner{Pipeline: p, Profile: profile, Log: log}

	if err := d.connect(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// connect opens the archive (Postgres preferred over SQLite) and the
// event publisher when configured.
func (d *deps) connect(ctx context.Context) error {
	switch {
	case d.cfg.DatabaseURL != "":
		d.log.Info("connecting to PostgreSQL")
		pool, err := db.NewPostgresPool(ctx, d.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { pool.Close(); return nil })
		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		d.runner.Store = pg
	case d.cfg.SQLitePath != "":
		s, err := store.OpenSQLite(ctx, d.cfg.SQLitePath)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, s.Close)
		d.runner.Store = s
	}

	if d.cfg.RedisURL != "" {
		d.log.Info("connecting to Redis")
		rdb, err := db.NewRedisClient(ctx, d.cfg.RedisURL)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, rdb.Close)
		d.runner.Events = events.NewPublisher(rdb, 0)
	}
	return nil
}
