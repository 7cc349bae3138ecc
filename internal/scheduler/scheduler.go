// Package scheduler wires up the cron job that periodically runs the
// pipeline in serve mode.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"jobmate/job-finder/internal/logger"
)

// Scheduler wraps robfig/cron and manages the run loop.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	log    logger.Logger
	spec   string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(runner *Runner, log logger.Logger, intervalHours int) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(logger.String("component", "scheduler"))
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger{log})),
		runner: runner,
		log:    log,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. It also runs once
// immediately so results exist without waiting for the first tick. A tick
// that fires while a run is still in progress is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{s.log})).
		Then(cron.FuncJob(func() { s.run(ctx) }))

	if _, err := s.cron.AddJob(s.spec, job); err != nil {
		return fmt.Errorf("cron.AddJob: %w", err)
	}

	s.cron.Start()
	s.log.Info("cron started", logger.String("spec", s.spec))

	go job.Run()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.log.Info("run cycle started")
	res, err := s.runner.RunOnce(ctx)
	if err != nil {
		s.log.Error("run cycle failed", logger.Error(err))
		return
	}
	s.log.Info("run cycle complete",
		logger.String("run_id", res.RunID),
		logger.Int("selected", len(res.Listings)))
}

// cronLogger adapts Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug(msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error(msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []any) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return fields
}
