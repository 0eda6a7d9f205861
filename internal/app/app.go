package app

import (
	"context"
	"fmt"

	"github.com/alexalex89/viessmann-circular-pump-calendar/internal/config"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type runner interface {
	Run(ctx context.Context) error
}

// Application wires configuration and services and drives the runs.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	runner runner
}

// NewApplication loads the configuration and builds all dependencies, ready to Run().
func NewApplication(ctx context.Context, configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Application{cfg: cfg, deps: deps, runner: deps.SyncService}, nil
}

// Run performs a single run, or with schedule.cron set, keeps running on that schedule until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Schedule.Cron == "" {
		return a.runner.Run(ctx)
	}
	return a.runScheduled(ctx)
}

func (a *Application) runScheduled(ctx context.Context) error {
	logger := cron.VerbosePrintfLogger(log.StandardLogger())
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)

	job := cron.NewChain(cron.Recover(logger)).Then(cron.FuncJob(func() {
		if err := a.runner.Run(ctx); err != nil {
			log.Errorf("scheduled run failed: %v", err)
		}
	}))
	if _, err := c.AddJob(a.cfg.Schedule.Cron, job); err != nil {
		err := fmt.Errorf("invalid schedule.cron %q: %w", a.cfg.Schedule.Cron, err)
		log.Error(err)
		return err
	}

	log.Infof("Running now and then on schedule %q", a.cfg.Schedule.Cron)
	job.Run()

	c.Start()
	<-ctx.Done()
	log.Info("Stopping scheduler")
	<-c.Stop().Done()
	return nil
}
