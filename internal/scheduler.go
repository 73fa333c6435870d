// Cooperative run-to-completion scheduler.

package coopsched_internal

//  Task Scheduling
//  ===============
//
// Each task carries a deadline, the earliest instant at which it becomes
// eligible to run. Tasks wait on a time-ordered queue; a task appears in the
// queue at most once.
//
//  Scheduler Architecture
//  ======================
//
//            main context               interrupt context
//
//        Submit{At,In,Now} -----+      ISRSubmit{At,In,Now}
//                               |               |
//                               v               v
//                       +--------------+ +-------------+
//                       |  Task Queue  | |  ISR Queue  |
//                       | (time order) | | (SPSC ring) |
//                       +--------------+ +-------------+
//                               ^               |
//                               |     drain     |
//                               +------<--------+
//                               |
//                               v
//                       +--------------+
//                       |     Step     |
//                       +--------------+
//                               |
//                               v
//                    ready task or idle task
//
//  Principles Of Operation
//  =======================
//
// The task queue is a circular sentinel-headed list sorted by deadline,
// nearest first. Main-context submissions insert in order directly;
// interrupt-context submissions park on the ISR ring and are transferred at
// the start of the next Step through the same unlink-then-insert path, which
// also restores the at-most-once queue invariant for them.
//
// Step picks the first task whose deadline has arrived, detaches it, marks it
// current and invokes it; when no task is ready it invokes the idle task
// instead. Tasks run to completion: there is no preemption among tasks and
// progress happens only between invocations. A running task may resubmit
// itself, reschedule relative to its own deadline (drift free) or submit
// further tasks.

import (
	"time"

	"github.com/docker/go-units"
)

const (
	SCHEDULER_CONFIG_ISR_QUEUE_SIZE_DEFAULT = ISR_QUEUE_SIZE_DEFAULT
)

const (
	// Indexes into Scheduler.uint64Stats:

	// How many Step calls were made:
	SCHEDULER_STATS_STEP_COUNT = iota

	// How many steps ran a ready task:
	SCHEDULER_STATS_TASK_RUN_COUNT

	// How many steps fell back to the idle task:
	SCHEDULER_STATS_IDLE_RUN_COUNT

	// How many tasks were transferred from the ISR queue:
	SCHEDULER_STATS_ISR_DRAIN_COUNT

	// How many main-context submissions were made:
	SCHEDULER_STATS_SUBMIT_COUNT

	// How many submissions displaced an already queued instance of the same
	// task:
	SCHEDULER_STATS_RESUBMIT_COUNT

	// How many tasks were removed before running:
	SCHEDULER_STATS_REMOVE_COUNT

	// Must be last:
	SCHEDULER_STATS_UINT64_LEN
)

// The task lifecycle, as observed via Status:
//
//	Idle -submit-> Scheduled -time passes-> Runnable -step-> Active -return-> Idle
//
// with reschedule looping Active back to Scheduled. There are no terminal
// states.
type TaskStatus int

var (
	// Detached and not current:
	TaskStatusIdle TaskStatus = 0
	// Queued with the deadline in the future:
	TaskStatusScheduled TaskStatus = 1
	// Queued with the deadline arrived:
	TaskStatusRunnable TaskStatus = 2
	// The task currently being invoked:
	TaskStatusActive TaskStatus = 3
)

var taskStatusMap = map[TaskStatus]string{
	TaskStatusIdle:      "Idle",
	TaskStatusScheduled: "Scheduled",
	TaskStatusRunnable:  "Runnable",
	TaskStatusActive:    "Active",
}

func (status TaskStatus) String() string {
	return taskStatusMap[status]
}

type SchedulerConfig struct {
	// The ISR handoff queue capacity, rounded up to a power of two. Any value
	// <= 0 selects the built-in default:
	IsrQueueSize int `yaml:"isr_queue_size"`
}

func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		IsrQueueSize: SCHEDULER_CONFIG_ISR_QUEUE_SIZE_DEFAULT,
	}
}

type Scheduler struct {
	// Sentinel head of the time-ordered task queue; next is the earliest
	// deadline, prev the latest:
	taskList DListCell
	// Interrupt-context handoff:
	isrQueue *IsrQueue
	// The task currently being invoked, nil between steps:
	currentTask *Task
	// Invoked when no task is ready; never nil, never queued:
	idleTask *Task
	// The default no-op idle task, used until replaced:
	defaultIdleTask Task
	// The time source:
	clockFunc ClockFunc
	// Wall clock creation time, for uptime reporting:
	createdTs time.Time
	// Stats:
	uint64Stats [SCHEDULER_STATS_UINT64_LEN]uint64
}

var schedulerLog = NewCompLogger("scheduler")

func NewScheduler(schedulerCfg *SchedulerConfig) (*Scheduler, error) {
	if schedulerCfg == nil {
		schedulerCfg = DefaultSchedulerConfig()
	}

	isrQueue, err := NewIsrQueue(schedulerCfg.IsrQueueSize)
	if err != nil {
		return nil, err
	}

	scheduler := &Scheduler{
		isrQueue:  isrQueue,
		clockFunc: DefaultClockFunc,
		createdTs: time.Now(),
	}
	scheduler.taskList.InitHead()
	scheduler.defaultIdleTask.Init(nil, nil, "idle")
	scheduler.idleTask = &scheduler.defaultIdleTask

	clockTick, err := GetSysClockTick()
	if err != nil {
		schedulerLog.Warnf("sys clock tick: %v", err)
		clockTick = 0
	}
	schedulerLog.Infof(
		"isr_queue_size=%d, sys_clock_tick=%s", isrQueue.Cap(), clockTick,
	)

	return scheduler, nil
}

// Reset detaches all queued tasks, clears the ISR queue and the current task.
// Idempotent, main context only.
func (scheduler *Scheduler) Reset() {
	n := 0
	for scheduler.taskList.PopFront() != nil {
		n++
	}
	scheduler.isrQueue.Reset()
	scheduler.currentTask = nil
	if n > 0 {
		schedulerLog.Infof(
			"reset: %d task(s) dropped, up %s",
			n, units.HumanDuration(time.Since(scheduler.createdTs)),
		)
	}
}

// insertTask places the detached task into the queue in deadline order. Equal
// deadlines go after incumbents, i.e. FIFO among ties.
func (scheduler *Scheduler) insertTask(task *Task) {
	deadline := task.Time()
	head := &scheduler.taskList
	for e := head.next; e != head; e = e.next {
		if TimePrecedes(deadline, e.Owner().Time()) {
			e.InsertBefore(task.Link())
			return
		}
	}
	head.PushBack(task.Link())
}

// submit is the single main-context submission path: the unconditional unlink
// makes submission idempotent and prevents runaway double insertion.
func (scheduler *Scheduler) submit(task *Task, deadline Time) error {
	if task == nil {
		return ErrNilTask
	}
	if task.Link().Unlink() {
		scheduler.uint64Stats[SCHEDULER_STATS_RESUBMIT_COUNT] += 1
	}
	task.SetTime(deadline)
	scheduler.insertTask(task)
	scheduler.uint64Stats[SCHEDULER_STATS_SUBMIT_COUNT] += 1
	return nil
}

// SubmitAt schedules the task to run at the given absolute time. An already
// queued task is first unlinked, then reinserted. Main context only.
func (scheduler *Scheduler) SubmitAt(task *Task, at Time) error {
	return scheduler.submit(task, at)
}

// SubmitIn schedules the task to run after the given delay from now. Main
// context only.
func (scheduler *Scheduler) SubmitIn(task *Task, in time.Duration) error {
	return scheduler.submit(task, TimeOffset(scheduler.clockFunc(), in))
}

// SubmitNow schedules the task to run as soon as possible. Main context only.
func (scheduler *Scheduler) SubmitNow(task *Task) error {
	return scheduler.submit(task, scheduler.clockFunc())
}

// RescheduleNow reschedules the currently running task to run again as soon
// as possible. ErrNotFound if no task is current.
func (scheduler *Scheduler) RescheduleNow() error {
	task := scheduler.currentTask
	if task == nil {
		return ErrNotFound
	}
	return scheduler.submit(task, scheduler.clockFunc())
}

// RescheduleIn reschedules the currently running task relative to its own
// deadline, not to the clock: a periodic task rescheduling by its interval
// gets the exact deadline series t0, t0+d, t0+2d, ... regardless of execution
// jitter. ErrNotFound if no task is current.
func (scheduler *Scheduler) RescheduleIn(in time.Duration) error {
	task := scheduler.currentTask
	if task == nil {
		return ErrNotFound
	}
	return scheduler.submit(task, TimeOffset(task.Time(), in))
}

// isrSubmit stamps the deadline and parks the task on the ISR queue; the task
// queue proper is never touched from interrupt context. Deduplication against
// an already queued instance happens at drain time.
func (scheduler *Scheduler) isrSubmit(task *Task, deadline Time) error {
	if task == nil {
		return ErrNilTask
	}
	task.SetTime(deadline)
	return scheduler.isrQueue.Put(task)
}

// ISRSubmitAt schedules the task from interrupt context for the given
// absolute time. ErrFull if the handoff queue is saturated.
func (scheduler *Scheduler) ISRSubmitAt(task *Task, at Time) error {
	return scheduler.isrSubmit(task, at)
}

// ISRSubmitIn schedules the task from interrupt context after the given
// delay, stamped against the clock at submission time. ErrFull if the handoff
// queue is saturated.
func (scheduler *Scheduler) ISRSubmitIn(task *Task, in time.Duration) error {
	return scheduler.isrSubmit(task, TimeOffset(scheduler.clockFunc(), in))
}

// ISRSubmitNow schedules the task from interrupt context to run as soon as
// possible. ErrFull if the handoff queue is saturated.
func (scheduler *Scheduler) ISRSubmitNow(task *Task) error {
	return scheduler.isrSubmit(task, scheduler.clockFunc())
}

// Remove cancels a pending task. ErrNotFound if the task is not queued.
func (scheduler *Scheduler) Remove(task *Task) error {
	if task == nil {
		return ErrNilTask
	}
	if !task.Link().Unlink() {
		return ErrNotFound
	}
	scheduler.uint64Stats[SCHEDULER_STATS_REMOVE_COUNT] += 1
	return nil
}

// Step runs one scheduler iteration: transfer any interrupt-context
// submissions into the queue, then invoke the first ready task, or the idle
// task when none is ready. Must not be called reentrantly, i.e. from within a
// task invocation.
func (scheduler *Scheduler) Step() error {
	now := scheduler.clockFunc()

	// Drain the ISR queue. Deadlines are absolute, so tasks stamped before
	// this step sort correctly even though now has advanced since:
	for {
		task := scheduler.isrQueue.Get()
		if task == nil {
			break
		}
		task.Link().Unlink()
		scheduler.insertTask(task)
		scheduler.uint64Stats[SCHEDULER_STATS_ISR_DRAIN_COUNT] += 1
	}

	// Select the first ready task, if any:
	runTask := scheduler.idleTask
	if first := scheduler.taskList.First(); first != nil && !TimeFollows(first.Owner().Time(), now) {
		first.Unlink()
		runTask = first.Owner()
		scheduler.uint64Stats[SCHEDULER_STATS_TASK_RUN_COUNT] += 1
	} else {
		scheduler.uint64Stats[SCHEDULER_STATS_IDLE_RUN_COUNT] += 1
	}

	scheduler.currentTask = runTask
	runTask.Call(nil)
	scheduler.currentTask = nil
	scheduler.uint64Stats[SCHEDULER_STATS_STEP_COUNT] += 1
	return nil
}

// Status reports the task lifecycle state at this instant.
func (scheduler *Scheduler) Status(task *Task) TaskStatus {
	switch {
	case task == nil:
		return TaskStatusIdle
	case task == scheduler.currentTask:
		return TaskStatusActive
	case !task.IsScheduled():
		return TaskStatusIdle
	case TimeFollows(task.Time(), scheduler.clockFunc()):
		return TaskStatusScheduled
	default:
		return TaskStatusRunnable
	}
}

// CurrentTask returns the task being invoked, nil between steps.
func (scheduler *Scheduler) CurrentTask() *Task {
	return scheduler.currentTask
}

// NextTask returns the earliest queued task w/o detaching it, nil if none.
func (scheduler *Scheduler) NextTask() *Task {
	first := scheduler.taskList.First()
	if first == nil {
		return nil
	}
	return first.Owner()
}

// NextDeadline returns the earliest queued deadline, ErrEmpty if no task is
// queued. Hosts may use it to bound the sleep until the next Step.
func (scheduler *Scheduler) NextDeadline() (Time, error) {
	task := scheduler.NextTask()
	if task == nil {
		return 0, ErrEmpty
	}
	return task.Time(), nil
}

func (scheduler *Scheduler) IsEmpty() bool {
	return scheduler.taskList.IsEmpty()
}

func (scheduler *Scheduler) TaskCount() int {
	return scheduler.taskList.Len()
}

// SetIdleTask replaces the idle task; the caller retains ownership. A nil
// argument restores the default no-op task. Rescheduling the idle task from
// within its own invocation is unsupported.
func (scheduler *Scheduler) SetIdleTask(task *Task) {
	if task == nil {
		task = &scheduler.defaultIdleTask
	}
	scheduler.idleTask = task
}

func (scheduler *Scheduler) IdleTask() *Task {
	return scheduler.idleTask
}

// SetClockFunc swaps the time source; nil restores the platform monotonic
// clock. Swapping during Step is undefined.
func (scheduler *Scheduler) SetClockFunc(clockFunc ClockFunc) {
	if clockFunc == nil {
		clockFunc = DefaultClockFunc
	}
	scheduler.clockFunc = clockFunc
}

func (scheduler *Scheduler) ClockFunc() ClockFunc {
	return scheduler.clockFunc
}

// SnapStats copies the current scheduler counters.
func (scheduler *Scheduler) SnapStats() []uint64 {
	stats := make([]uint64, SCHEDULER_STATS_UINT64_LEN)
	copy(stats, scheduler.uint64Stats[:])
	return stats
}
