// Task descriptor.

package coopsched_internal

import (
	"fmt"
)

// A task binds a callable (function + opaque context, fixed at init) with a
// scheduled deadline and the embedded queue link cell. The task has no
// knowledge of which scheduler, if any, holds it; the link cell state is the
// only scheduling state it carries.
//
// The scheduler never allocates task storage: callers own the task memory and
// must keep it alive for as long as the task is linked or current.

// The task callable. ctx is the value bound at init, arg is the value passed
// to Call (the scheduler always passes nil).
type TaskFunc func(ctx any, arg any)

const (
	// Indexes into Task.uint64Stats:

	// How many times the task was invoked:
	TASK_STATS_CALL_COUNT = iota

	// Total runtime across invocations, in nanoseconds:
	TASK_STATS_TOTAL_RUNTIME

	// The longest single invocation, in nanoseconds:
	TASK_STATS_MAX_RUNTIME

	// Must be last:
	TASK_STATS_UINT64_LEN
)

type Task struct {
	// The callable, immutable after init:
	fn  TaskFunc
	ctx any
	// Optional display name, used in logs and stats:
	name string
	// The scheduled deadline; mutated only by the scheduler and the task
	// submission APIs:
	deadline Time
	// Queue membership:
	link DListCell
	// Profiling:
	uint64Stats [TASK_STATS_UINT64_LEN]uint64
}

// Init binds the callable and leaves the task detached with a zero deadline.
// It may be invoked on a task embedded in caller-owned storage; NewTask is
// the allocating convenience.
func (task *Task) Init(fn TaskFunc, ctx any, name string) *Task {
	task.fn = fn
	task.ctx = ctx
	task.name = name
	task.deadline = 0
	task.link = DListCell{owner: task}
	task.uint64Stats = [TASK_STATS_UINT64_LEN]uint64{}
	return task
}

func NewTask(fn TaskFunc, ctx any, name string) *Task {
	return new(Task).Init(fn, ctx, name)
}

func (task *Task) Name() string {
	return task.name
}

// Link returns the embedded cell, for scheduler use.
func (task *Task) Link() *DListCell {
	return &task.link
}

// IsScheduled returns true iff the task is currently linked into a queue.
func (task *Task) IsScheduled() bool {
	return task.link.IsLinked()
}

func (task *Task) SetTime(t Time) {
	task.deadline = t
}

func (task *Task) Time() Time {
	return task.deadline
}

// Call invokes the bound function. Runtime is measured on the platform
// monotonic counter regardless of the scheduler clock in effect.
func (task *Task) Call(arg any) {
	if task.fn == nil {
		return
	}
	startTs := monotonicNow()
	task.fn(task.ctx, arg)
	runtime := uint64(Since(startTs, monotonicNow()))
	task.uint64Stats[TASK_STATS_CALL_COUNT] += 1
	task.uint64Stats[TASK_STATS_TOTAL_RUNTIME] += runtime
	if runtime > task.uint64Stats[TASK_STATS_MAX_RUNTIME] {
		task.uint64Stats[TASK_STATS_MAX_RUNTIME] = runtime
	}
}

// SnapStats copies the current profiling counters.
func (task *Task) SnapStats() []uint64 {
	stats := make([]uint64, TASK_STATS_UINT64_LEN)
	copy(stats, task.uint64Stats[:])
	return stats
}

func (task *Task) String() string {
	name := task.name
	if name == "" {
		name = fmt.Sprintf("task@%p", task)
	}
	return name
}
