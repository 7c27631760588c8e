package model

import (
	"testing"
	"time"
)

func TestTimeRemainingClampsAtZero(t *testing.T) {
	now := time.Now().UTC()

	if got := TimeRemaining(now.Add(time.Minute), now); got != time.Minute {
		t.Errorf("expected 1m, got %v", got)
	}
	if got := TimeRemaining(now.Add(-time.Minute), now); got != 0 {
		t.Errorf("expected clamp at zero, got %v", got)
	}
}

func TestExpiredBoundary(t *testing.T) {
	now := time.Now().UTC()

	if Expired(now.Add(time.Nanosecond), now) {
		t.Error("not expired one tick before the deadline")
	}
	// The deadline itself counts as expired.
	if !Expired(now, now) {
		t.Error("expected expiry exactly at the deadline")
	}
	if !Expired(now.Add(-time.Nanosecond), now) {
		t.Error("expected expiry past the deadline")
	}
}

func TestInWarningWindow(t *testing.T) {
	now := time.Now().UTC()
	threshold := 2 * time.Minute

	if InWarningWindow(now.Add(10*time.Minute), now, threshold) {
		t.Error("not in warning with 10m left")
	}
	if !InWarningWindow(now.Add(90*time.Second), now, threshold) {
		t.Error("expected warning with 90s left")
	}
	if InWarningWindow(now.Add(-time.Second), now, threshold) {
		t.Error("an expired deadline is not a warning")
	}
}
