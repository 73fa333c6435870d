//go:build unix

package coopsched_internal

import (
	"time"

	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// Monotonic counter via clock_gettime(2), w/ a fallback on the runtime clock:
func monotonicNow() Time {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return Time(time.Since(clockEpoch))
	}
	return Time(ts.Nano())
}

var clockEpoch = time.Now()

// The kernel scheduling tick, for diagnostics; the clock itself has ns
// resolution.
func GetSysClockTick() (time.Duration, error) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, err
	}
	return time.Second / time.Duration(clktck), nil
}
