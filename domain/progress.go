package domain

// ProgressManager manages progress reporting for long-running analyses
type ProgressManager interface {
	// StartTask creates a new progress task with a description and total count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress output is being shown
	IsInteractive() bool

	// Close cleans up all tasks
	Close()
}

// TaskProgress tracks the progress of a single task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}
