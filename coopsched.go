// The public face of the scheduler for the users of this package

package coopsched

import (
	"io"

	"github.com/sirupsen/logrus"

	coopsched_internal "github.com/bgp59/coopsched/internal"
)

// A small cooperative task scheduler for single-threaded event loops, modeled
// after the discrete-time, run-to-completion schedulers of resource
// constrained embedded systems. The host drives Step in its main loop; tasks
// are submitted from the main context directly, or from "interrupt" context
// (any concurrent producer) through a non-blocking handoff queue.

// Core types:
type Time = coopsched_internal.Time
type ClockFunc = coopsched_internal.ClockFunc
type Task = coopsched_internal.Task
type TaskFunc = coopsched_internal.TaskFunc
type TaskStatus = coopsched_internal.TaskStatus
type Scheduler = coopsched_internal.Scheduler
type SchedulerConfig = coopsched_internal.SchedulerConfig
type CoopschedConfig = coopsched_internal.CoopschedConfig
type LoggerConfig = coopsched_internal.LoggerConfig

// Extras:
type Fsm = coopsched_internal.Fsm
type FsmState = coopsched_internal.FsmState
type FsmStateId = coopsched_internal.FsmStateId
type BitVec = coopsched_internal.BitVec
type Xorshift32 = coopsched_internal.Xorshift32
type AnsiTerm = coopsched_internal.AnsiTerm
type AnsiTermColor = coopsched_internal.AnsiTermColor

// Task profiling stat indexes, for use w/ (*Task).SnapStats():
const (
	TASK_STATS_CALL_COUNT    = coopsched_internal.TASK_STATS_CALL_COUNT
	TASK_STATS_TOTAL_RUNTIME = coopsched_internal.TASK_STATS_TOTAL_RUNTIME
	TASK_STATS_MAX_RUNTIME   = coopsched_internal.TASK_STATS_MAX_RUNTIME
)

// ANSI terminal colors:
const (
	ANSI_TERM_COLOR_BLACK   = coopsched_internal.ANSI_TERM_COLOR_BLACK
	ANSI_TERM_COLOR_RED     = coopsched_internal.ANSI_TERM_COLOR_RED
	ANSI_TERM_COLOR_GREEN   = coopsched_internal.ANSI_TERM_COLOR_GREEN
	ANSI_TERM_COLOR_YELLOW  = coopsched_internal.ANSI_TERM_COLOR_YELLOW
	ANSI_TERM_COLOR_BLUE    = coopsched_internal.ANSI_TERM_COLOR_BLUE
	ANSI_TERM_COLOR_MAGENTA = coopsched_internal.ANSI_TERM_COLOR_MAGENTA
	ANSI_TERM_COLOR_CYAN    = coopsched_internal.ANSI_TERM_COLOR_CYAN
	ANSI_TERM_COLOR_WHITE   = coopsched_internal.ANSI_TERM_COLOR_WHITE
	ANSI_TERM_COLOR_DEFAULT = coopsched_internal.ANSI_TERM_COLOR_DEFAULT
)

// Task lifecycle states:
var (
	TaskStatusIdle      = coopsched_internal.TaskStatusIdle
	TaskStatusScheduled = coopsched_internal.TaskStatusScheduled
	TaskStatusRunnable  = coopsched_internal.TaskStatusRunnable
	TaskStatusActive    = coopsched_internal.TaskStatusActive
)

// Error taxonomy:
var (
	ErrEmpty    = coopsched_internal.ErrEmpty
	ErrFull     = coopsched_internal.ErrFull
	ErrNotFound = coopsched_internal.ErrNotFound
	ErrNilTask  = coopsched_internal.ErrNilTask
)

// Time ordering helpers; comparisons should go through these rather than raw
// subtraction, they account for counter wrap:
var (
	TimePrecedes = coopsched_internal.TimePrecedes
	TimeFollows  = coopsched_internal.TimeFollows
	TimeOffset   = coopsched_internal.TimeOffset
)

// NewScheduler creates a scheduler; a nil config selects the defaults.
func NewScheduler(cfg *SchedulerConfig) (*Scheduler, error) {
	return coopsched_internal.NewScheduler(cfg)
}

// NewTask binds fn and ctx into a freshly allocated, detached task. For tasks
// embedded in caller-owned storage use (*Task).Init instead.
func NewTask(fn TaskFunc, ctx any, name string) *Task {
	return coopsched_internal.NewTask(fn, ctx, name)
}

func NewFsm(name string, states []FsmState, initial FsmStateId) (*Fsm, error) {
	return coopsched_internal.NewFsm(name, states, initial)
}

func NewBitVec(length int) *BitVec {
	return coopsched_internal.NewBitVec(length)
}

func NewXorshift32(seed uint32) *Xorshift32 {
	return coopsched_internal.NewXorshift32(seed)
}

func NewAnsiTerm(w io.Writer) *AnsiTerm {
	return coopsched_internal.NewAnsiTerm(w)
}

// DrunkenBishop renders a byte digest as OpenSSH-style randomart.
var DrunkenBishop = coopsched_internal.DrunkenBishop

// The default process-wide scheduler instance behind the package-level
// convenience for hosts that want exactly one:
var defaultScheduler *Scheduler

func Default() *Scheduler {
	if defaultScheduler == nil {
		defaultScheduler, _ = NewScheduler(nil)
	}
	return defaultScheduler
}

// LoadConfig loads the coopsched_config section of the YAML file and decodes
// the app_config section, if any, into appConfig. See internal/config.go for
// the expected file structure.
func LoadConfig(cfgFile string, appConfig any) (*CoopschedConfig, error) {
	return coopsched_internal.LoadConfig(cfgFile, appConfig, nil)
}

// SetLogger applies the logger configuration to the library's root logger.
func SetLogger(logCfg *LoggerConfig) error {
	return coopsched_internal.SetLogger(logCfg)
}

// The root logger. Needed only for tests where the logger is captured (see
// testutils/log_collector.go); its actual type is obscured.
func GetRootLogger() any { return coopsched_internal.RootLogger }

// Create a new component logger w/ comp=compName field:
func NewCompLogger(comp string) *logrus.Entry {
	return coopsched_internal.NewCompLogger(comp)
}
