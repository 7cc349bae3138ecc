package scheduler

import (
	"context"
	"fmt"

	"jobmate/job-finder/internal/events"
	"jobmate/job-finder/internal/logger"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/pipeline"
	"jobmate/job-finder/internal/store"
)

// Runner executes one pipeline run and hands the result to the optional
// archive and event sinks. Sink failures are logged and never fail the run.
type Runner struct {
	Pipeline *pipeline.Pipeline
	Profile  model.Profile
	Store    store.Store       // optional
	Events   *events.Publisher // optional
	Log      logger.Logger
}

// RunOnce runs the pipeline once.
func (r *Runner) RunOnce(ctx context.Context) (*pipeline.Result, error) {
	log := r.Log
	if log == nil {
		log = logger.NewNop()
	}

	res, err := r.Pipeline.Run(ctx, r.Profile)
	if err != nil {
		return nil, fmt.Errorf("pipeline run: %w", err)
	}

	newListings := -1
	if r.Store != nil {
		saved, err := r.Store.SaveRun(ctx, res)
		if err != nil {
			log.Warn("archive run failed", logger.String("run_id", res.RunID), logger.Error(err))
		} else {
			newListings = saved.Inserted
			log.Info("run archived",
				logger.String("run_id", res.RunID),
				logger.Int("inserted", saved.Inserted),
				logger.Int("duplicates", saved.Duplicates))
		}
	}

	if r.Events != nil {
		if err := r.Events.Publish(ctx, events.NewSummary(res, newListings)); err != nil {
			log.Warn("publish "+events.Channel+" failed", logger.String("run_id", res.RunID), logger.Error(err))
		}
	}
	return res, nil
}
