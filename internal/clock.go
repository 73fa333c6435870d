// Scheduler clock abstraction.

package coopsched_internal

import (
	"time"
)

// The scheduler keeps time as an opaque scalar read from a swappable clock
// function. The default clock reads the platform monotonic counter (see
// clock_unix.go / clock_others.go); tests inject a virtual one.
//
// The time domain is modular: the scheduler never branches on raw magnitude
// comparison, only on the ordering helpers below, which remain correct across
// counter wrap as long as the compared instants are less than half the domain
// apart.

// Time is an absolute instant on the scheduler clock, in nanoseconds. Opaque
// to callers other than via the helpers in this file.
type Time int64

// ClockFunc returns the current scheduler time.
type ClockFunc func() Time

// TimePrecedes returns true iff a is strictly earlier than b, accounting for
// counter wrap.
func TimePrecedes(a, b Time) bool {
	return a-b < 0
}

// TimeFollows returns true iff a is strictly later than b, accounting for
// counter wrap.
func TimeFollows(a, b Time) bool {
	return b-a < 0
}

// TimeOffset returns t shifted by d within the time domain.
func TimeOffset(t Time, d time.Duration) Time {
	return t + Time(d)
}

// Since returns the duration from an earlier instant to a later one. The
// result is negative if to precedes from.
func Since(from, to Time) time.Duration {
	return time.Duration(to - from)
}

// DefaultClockFunc binds to the platform monotonic counter.
func DefaultClockFunc() Time {
	return monotonicNow()
}
