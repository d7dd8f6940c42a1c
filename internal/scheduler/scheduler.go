// Package scheduler runs the periodic jobs of the agent on a cron instance:
// the display tick, the settings backend poll and the daily audit cleanup.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultCleanupSchedule runs the audit cleanup at 03:00 every day.
const DefaultCleanupSchedule = "0 3 * * *"

// Jobs are the callbacks the scheduler fires. Nil jobs are not scheduled.
// Callbacks run on cron goroutines and should only post work elsewhere.
type Jobs struct {
	Tick    func()
	Poll    func()
	Cleanup func()
}

type Options struct {
	Interval        time.Duration
	PollInterval    time.Duration
	CleanupSchedule string
}

// Scheduler manages the cron entries. Changing the tick interval replaces
// only the tick entry.
type Scheduler struct {
	jobs Jobs
	opts Options

	cron       *cron.Cron
	tickID     cron.EntryID
	pollID     cron.EntryID
	cleanupID  cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func New(jobs Jobs, opts Options) *Scheduler {
	if opts.Interval < time.Second {
		opts.Interval = 5 * time.Second
	}
	if opts.CleanupSchedule == "" {
		opts.CleanupSchedule = DefaultCleanupSchedule
	}
	return &Scheduler{
		jobs: jobs,
		opts: opts,
		cron: cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// Start adds the jobs and starts the cron loop. The scheduler stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.jobs.Cleanup != nil {
		if err := ValidateCronSchedule(s.opts.CleanupSchedule); err != nil {
			return err
		}
		id, err := s.cron.AddFunc(s.opts.CleanupSchedule, s.jobs.Cleanup)
		if err != nil {
			return fmt.Errorf("failed to schedule cleanup job: %w", err)
		}
		s.cleanupID = id
	}
	if s.jobs.Poll != nil && s.opts.PollInterval > 0 {
		s.pollID = s.cron.Schedule(cron.Every(s.opts.PollInterval), cron.FuncJob(s.jobs.Poll))
	}
	if s.jobs.Tick != nil {
		s.tickID = s.cron.Schedule(cron.Every(s.opts.Interval), cron.FuncJob(s.jobs.Tick))
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Scheduler: started, tick every %v, poll every %v, cleanup '%s'",
		s.opts.Interval, s.opts.PollInterval, s.opts.CleanupSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop removes all entries and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	for _, id := range []cron.EntryID{s.tickID, s.pollID, s.cleanupID} {
		if id != 0 {
			s.cron.Remove(id)
		}
	}
	s.tickID, s.pollID, s.cleanupID = 0, 0, 0

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Scheduler: stopped")
}

// Reschedule cancels the pending tick and schedules it again with interval.
func (s *Scheduler) Reschedule(interval time.Duration) {
	if interval < time.Second {
		interval = time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.Interval == interval && s.tickID != 0 {
		return
	}
	s.opts.Interval = interval

	if !s.isRunning || s.jobs.Tick == nil {
		return
	}
	if s.tickID != 0 {
		s.cron.Remove(s.tickID)
	}
	s.tickID = s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.jobs.Tick))
	log.Printf("Scheduler: tick interval changed to %v", interval)
}

// RunNow fires the tick job immediately.
func (s *Scheduler) RunNow() {
	if s.jobs.Tick != nil {
		go s.jobs.Tick()
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Scheduler) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Interval
}

// GetNextRunTime returns when the next tick will occur.
func (s *Scheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || s.tickID == 0 {
		return nil
	}

	entry := s.cron.Entry(s.tickID)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	t := entry.Next
	return &t
}
