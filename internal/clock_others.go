//go:build !unix

package coopsched_internal

import (
	"time"
)

var clockEpoch = time.Now()

func monotonicNow() Time {
	return Time(time.Since(clockEpoch))
}

func GetSysClockTick() (time.Duration, error) {
	return time.Millisecond, nil
}
