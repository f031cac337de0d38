package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when registering a task on a started scheduler
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrInvalidTask is returned for tasks without a name, a positive interval or a run func
	ErrInvalidTask = errors.New("invalid scheduled task")

	// ErrDuplicateTask is returned when two tasks share a name
	ErrDuplicateTask = errors.New("scheduled task already registered")
)
