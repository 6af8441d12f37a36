package domain

import "context"

// ExecutableTask represents a unit of work the parallel executor can run
type ExecutableTask interface {
	// Name identifies the task in error messages
	Name() string

	// Execute runs the task and returns its result
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled reports whether the task should run at all
	IsEnabled() bool
}

// ParallelExecutor runs tasks concurrently with bounded parallelism
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
