// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/PabloGalante/throne-companions/internal/observability"
)

// DefaultPruneSchedule runs the memory prune job once an hour.
const DefaultPruneSchedule = "@hourly"

// Job is one unit of scheduled work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
	// Timeout bounds one run. Zero means no limit.
	Timeout time.Duration
}

// Validate checks a cron expression or descriptor such as @hourly.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Scheduler wraps a cron runner whose lifetime is bound to a context.
type Scheduler struct {
	jobs []Job
	log  *slog.Logger
}

func New(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, log: observability.WithFields("component", "scheduler")}
}

// Run registers the jobs, starts the runner and blocks until ctx is done.
// Overlapping runs of the same job are skipped. Running jobs are awaited
// before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := cronLogger{s.log}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	for _, j := range s.jobs {
		j := j
		if _, err := c.AddFunc(j.Schedule, func() { s.execute(ctx, j) }); err != nil {
			return fmt.Errorf("registering job %s (%s): %w", j.Name, j.Schedule, err)
		}
	}

	c.Start()
	s.log.Info("scheduler started", "jobs", len(s.jobs))

	<-ctx.Done()

	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) execute(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}
	runCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := j.Run(runCtx); err != nil {
		s.log.Error("job failed", "job", j.Name, "error", err)
		return
	}
	s.log.Info("job finished", "job", j.Name, "elapsed_ms", time.Since(start).Milliseconds())
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
