// Package scheduler runs the daily sweeps. Each run computes "today" in the
// configured zone at the moment it fires, so a late or repeated run only
// touches rows that are still due.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"gymcore/internal/calendar"
	"gymcore/internal/logger"
	"gymcore/internal/metrics"

	"github.com/robfig/cron/v3"
)

type Job string

const (
	JobLockerRelease    Job = "locker_release"
	JobMemberExpiry     Job = "member_expiry"
	JobInvoiceOverdue   Job = "invoice_overdue"
	JobRenewalReminders Job = "renewal_reminders"
)

// Jobs is the order a full run executes in.
var Jobs = []Job{JobLockerRelease, JobMemberExpiry, JobInvoiceOverdue, JobRenewalReminders}

func ParseJob(name string) (Job, error) {
	for _, j := range Jobs {
		if string(j) == name {
			return j, nil
		}
	}
	return "", fmt.Errorf("unknown job %q", name)
}

// Sweep changes the rows due on today and reports how many it touched.
type Sweep func(ctx context.Context, today time.Time) (int64, error)

type Tasks struct {
	ReleaseLockers Sweep
	ExpireMembers  Sweep
	MarkOverdue    Sweep
	RemindExpiring Sweep
}

type Scheduler struct {
	cron     *cron.Cron
	sweeps   map[Job]Sweep
	schedule string
	clock    calendar.Clock
	location *time.Location
}

func New(tasks Tasks, schedule string, location *time.Location, clock calendar.Clock) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.UTC
	}

	l := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		sweeps: map[Job]Sweep{
			JobLockerRelease:    tasks.ReleaseLockers,
			JobMemberExpiry:     tasks.ExpireMembers,
			JobInvoiceOverdue:   tasks.MarkOverdue,
			JobRenewalReminders: tasks.RemindExpiring,
		},
		schedule: schedule,
		clock:    clock,
		location: location,
	}
}

// Start registers the daily run and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunAll(context.Background(), s.Today())
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	logger.Info("scheduler started", "schedule", s.schedule, "timezone", s.location.String())
	return nil
}

// Stop waits for a running sweep to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	logger.Info("scheduler stopped")
}

func (s *Scheduler) Today() time.Time {
	return calendar.Today(s.clock, s.location)
}

// RunOnce runs job for the current day.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) (int64, error) {
	return s.RunAt(ctx, job, s.Today())
}

// RunAt runs job as if today were the given day.
func (s *Scheduler) RunAt(ctx context.Context, job Job, today time.Time) (int64, error) {
	sweep, ok := s.sweeps[job]
	if !ok || sweep == nil {
		return 0, fmt.Errorf("job %q is not configured", job)
	}

	start := time.Now()
	affected, err := sweep(ctx, today)
	metrics.RecordSweep(string(job), affected, err)
	if err != nil {
		logger.Error("sweep failed", "job", string(job), "date", today.Format("2006-01-02"), "error", err)
		return 0, err
	}

	logger.Info("sweep finished",
		"job", string(job),
		"date", today.Format("2006-01-02"),
		"affected", affected,
		"duration", time.Since(start).String(),
	)
	return affected, nil
}

// RunAll runs every job for today. A failing job does not stop the others;
// the first error is returned.
func (s *Scheduler) RunAll(ctx context.Context, today time.Time) error {
	var first error
	for _, job := range Jobs {
		if _, err := s.RunAt(ctx, job, today); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
