package job

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/pkg/logger"
)

const logType = "job"

type Func func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	fn       Func
}

// Service runs registered jobs on their own tickers. A run is bounded by the
// job interval, so a stuck run never overlaps the next tick.
type Service struct {
	jobs []job
	wg   sync.WaitGroup
}

func NewService() *Service {
	return &Service{}
}

func (s *Service) RegisterJob(name string, interval time.Duration, fn Func) *Service {
	return s.TryRegisterJob(true, name, interval, fn)
}

// TryRegisterJob skips disabled jobs and jobs without a positive interval.
func (s *Service) TryRegisterJob(isEnabled bool, name string, interval time.Duration, fn Func) *Service {
	if !isEnabled || interval <= 0 {
		slog.Info("Job disabled", "job", name)
		return s
	}

	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})

	return s
}

// Start runs every job immediately and then on its interval until ctx is done.
func (s *Service) Start(ctx context.Context) {
	ctx = logger.SetLogType(ctx, logType)

	for _, j := range s.jobs {
		s.wg.Add(1)

		go s.loop(ctx, j)
	}
}

// Stop waits for running jobs; cancel the Start context first.
func (s *Service) Stop() {
	s.wg.Wait()
}

func (s *Service) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		s.run(ctx, j)

		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "Job stopped", "job", j.name)
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) run(ctx context.Context, j job) {
	runCtx, cancel := context.WithTimeout(ctx, j.interval)
	defer cancel()

	start := time.Now()

	err := safeCall(runCtx, j.fn)
	if err != nil {
		slog.ErrorContext(ctx, "Job failed", "job", j.name, "error", err)
		return
	}

	slog.DebugContext(ctx, "Job done", "job", j.name, "duration_ms", time.Since(start).Milliseconds())
}

func safeCall(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	return fn(ctx)
}
