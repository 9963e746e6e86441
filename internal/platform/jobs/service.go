package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	JobIdempotencyPurge = "idempotency_purge"
	JobAuditRetention   = "audit_retention"
)

// Purger deletes rows older than a cutoff.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// Run is one finished job execution.
type Run struct {
	Type      string
	StartedAt time.Time
	Duration  time.Duration
	Details   any
	Err       error
}

type Service struct {
	queue     chan job
	schedules []schedule

	mu   sync.Mutex
	last map[string]Run
	now  func() time.Time
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

type schedule struct {
	job
	interval time.Duration
}

func New() *Service {
	return &Service{
		queue: make(chan job, 128),
		last:  map[string]Run{},
		now:   time.Now,
	}
}

// Every registers run to be enqueued once per interval after Start. A
// non-positive interval disables it.
func (s *Service) Every(jobType string, interval time.Duration, run func(context.Context) (any, error)) {
	if interval <= 0 {
		return
	}
	s.schedules = append(s.schedules, schedule{job: job{Type: jobType, Run: run}, interval: interval})
}

// Start runs the worker and every schedule until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	for _, sc := range s.schedules {
		go s.tick(ctx, sc)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// LastRun returns the most recent completed run of jobType.
func (s *Service) LastRun(jobType string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.last[jobType]
	return r, ok
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) tick(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.Type, sc.Run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	started := s.now()
	details, err := j.Run(ctx)
	run := Run{Type: j.Type, StartedAt: started, Duration: s.now().Sub(started), Details: details, Err: err}

	s.mu.Lock()
	s.last[j.Type] = run
	s.mu.Unlock()

	if err == nil {
		slog.Debug("job run completed", "jobType", j.Type, "details", details, "duration", run.Duration)
	}
	return details, err
}

// Retention builds a job that purges everything older than maxAge.
func Retention(p Purger, maxAge time.Duration, now func() time.Time) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		cutoff := now().Add(-maxAge)
		deleted, err := p.Purge(ctx, cutoff)
		return map[string]any{
			"cutoff":  cutoff,
			"deleted": deleted,
		}, err
	}
}
