// Scheduler error taxonomy.

package coopsched_internal

import "errors"

// All scheduler failures are reported as return values; operations are atomic
// from the caller's point of view, so no cleanup is ever required.
var (
	// No task is scheduled:
	ErrEmpty = errors.New("empty")
	// The ISR handoff queue is saturated:
	ErrFull = errors.New("full")
	// The task was not in the expected state (remove, reschedule):
	ErrNotFound = errors.New("not found")
	// A nil task was submitted:
	ErrNilTask = errors.New("nil task")
)
