// Package scheduler drives the periodic batch jobs. Each registered job is
// single-flight: a run still executing when the next tick fires is skipped,
// never started concurrently.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	c   *cron.Cron
	ctx context.Context
	log *slog.Logger
}

func New(ctx context.Context, log *slog.Logger) *Scheduler {
	cl := &cronLogger{log: log}
	return &Scheduler{
		c: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cl),
			cron.Recover(cl),
		)),
		ctx: ctx,
		log: log,
	}
}

// Register adds a job under a cron spec. Errors returned by the job are
// logged; the job runs again on its next tick regardless.
func (s *Scheduler) Register(spec, name string, job func(ctx context.Context) error) error {
	_, err := s.c.AddFunc(spec, func() {
		if err := job(s.ctx); err != nil {
			s.log.Error("scheduled job failed",
				slog.String("code", "JOB_ERROR"),
				slog.String("job", name),
				slog.Any("error", err),
			)
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("job registered",
		slog.String("code", "SYS_STARTUP"),
		slog.String("job", name),
		slog.String("schedule", spec),
	)
	return nil
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop halts scheduling and returns a context that is done once running
// jobs complete.
func (s *Scheduler) Stop() context.Context {
	return s.c.Stop()
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	log *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info("cron: "+msg, slog.Any("details", keysAndValues))
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, slog.Any("error", err), slog.Any("details", keysAndValues))
}
