// Package scheduler runs housekeeping tasks on a fixed interval in the
// background of the API process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFunc is one execution of a periodic task
type TaskFunc func(ctx context.Context) error

// Task is a named unit of work repeated every Interval
type Task struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run; zero means the interval
	Timeout time.Duration
	// RunOnStart executes the task once immediately after Start
	RunOnStart bool
	Run        TaskFunc
}

func (t Task) validate() error {
	if t.Name == "" || t.Interval <= 0 || t.Run == nil {
		return fmt.Errorf("%w: %q", ErrInvalidTask, t.Name)
	}
	return nil
}

// RunStats tracks the outcome of a task's runs
type RunStats struct {
	Runs      int64
	Failures  int64
	LastRunAt time.Time
	LastError string
}

// Scheduler manages periodic tasks, one goroutine per task
type Scheduler struct {
	logger *zap.Logger

	tasks  []Task
	stats  map[string]*RunStats
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates an idle scheduler
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger: logger,
		stats:  make(map[string]*RunStats),
	}
}

// Register adds a task. Tasks can only be added before Start.
func (s *Scheduler) Register(task Task) error {
	if err := task.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	if _, exists := s.stats[task.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, task.Name)
	}
	s.tasks = append(s.tasks, task)
	s.stats[task.Name] = &RunStats{}
	return nil
}

// Start launches every registered task. Calling it twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}

	s.logger.Info("Scheduler started", zap.Int("tasks", len(s.tasks)))
	return nil
}

// Stop cancels running tasks and waits for them until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Stats returns a copy of the run statistics of the named task
func (s *Scheduler) Stats(name string) (RunStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[name]
	if !ok {
		return RunStats{}, false
	}
	return *st, true
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	if task.RunOnStart {
		s.execute(ctx, task)
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, task)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, task Task) {
	timeout := task.Timeout
	if timeout <= 0 {
		timeout = task.Interval
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	err := s.runSafely(runCtx, task)

	s.mu.Lock()
	st := s.stats[task.Name]
	st.Runs++
	st.LastRunAt = started
	st.LastError = ""
	if err != nil {
		st.Failures++
		st.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled task failed",
			zap.String("task", task.Name),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Scheduled task completed",
		zap.String("task", task.Name),
		zap.Duration("duration", time.Since(started)),
	)
}

// runSafely keeps a panicking task from taking the process down
func (s *Scheduler) runSafely(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %q panicked: %v", task.Name, r)
		}
	}()
	return task.Run(ctx)
}
