// Tests for clock.go

package coopsched_internal

import (
	"math"
	"testing"
	"time"
)

func TestTimeOrdering(t *testing.T) {
	for _, tc := range []struct {
		a, b         Time
		wantPrecedes bool
		wantFollows  bool
	}{
		{0, 0, false, false},
		{0, 1, true, false},
		{1, 0, false, true},
		{-10, 10, true, false},
		// Wrap: a just below the top of the domain, b just past it. Raw
		// magnitude comparison would invert these:
		{math.MaxInt64 - 1, math.MinInt64 + 1, true, false},
		{math.MinInt64 + 1, math.MaxInt64 - 1, false, true},
	} {
		if got := TimePrecedes(tc.a, tc.b); got != tc.wantPrecedes {
			t.Errorf("TimePrecedes(%d, %d): want %v, got %v", tc.a, tc.b, tc.wantPrecedes, got)
		}
		if got := TimeFollows(tc.a, tc.b); got != tc.wantFollows {
			t.Errorf("TimeFollows(%d, %d): want %v, got %v", tc.a, tc.b, tc.wantFollows, got)
		}
	}
}

func TestTimeOffset(t *testing.T) {
	for _, tc := range []struct {
		t    Time
		d    time.Duration
		want Time
	}{
		{0, 0, 0},
		{100, 50 * time.Nanosecond, 150},
		{100, -50 * time.Nanosecond, 50},
		{math.MaxInt64, 1, math.MinInt64}, // wrap is part of the domain
	} {
		if got := TimeOffset(tc.t, tc.d); got != tc.want {
			t.Errorf("TimeOffset(%d, %d): want %d, got %d", tc.t, tc.d, tc.want, got)
		}
	}
}

func TestSince(t *testing.T) {
	if got := Since(100, 350); got != 250*time.Nanosecond {
		t.Errorf("Since(100, 350): want 250ns, got %s", got)
	}
	if got := Since(350, 100); got != -250*time.Nanosecond {
		t.Errorf("Since(350, 100): want -250ns, got %s", got)
	}
}

func TestDefaultClockMonotonic(t *testing.T) {
	a := DefaultClockFunc()
	time.Sleep(time.Millisecond)
	b := DefaultClockFunc()
	if !TimePrecedes(a, b) {
		t.Errorf("default clock not advancing: a=%d, b=%d", a, b)
	}
}
