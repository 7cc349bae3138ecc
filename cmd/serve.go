package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"jobmate/job-finder/internal/logger"
	"jobmate/job-finder/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run on a schedule and expose /health and /metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			d, err := loadDeps(ctx, cmd, reg)
			if err != nil {
				return err
			}
			defer d.Close()

			sched := scheduler.New(d.runner, d.log, d.cfg.ScrapeIntervalHours)
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%s", d.cfg.Port),
				Handler:      newMux(reg),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				d.log.Info("listening", logger.String("addr", srv.Addr), logger.String("version", version))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errc:
				return fmt.Errorf("http server: %w", err)
			}

			d.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				d.log.Warn("shutdown error", logger.Error(err))
			}
			return nil
		},
	}
}

func newMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "job-finder",
		"version": version,
	})
}
