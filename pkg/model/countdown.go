package model

import "time"

// TimeRemaining reports how long until expiry, clamped at zero. The engine
// carries no timers of its own; callers evaluate this on every read and wire
// it to whatever scheduling primitive their platform offers.
func TimeRemaining(expiry, now time.Time) time.Duration {
	d := expiry.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func Expired(expiry, now time.Time) bool {
	return !now.Before(expiry)
}

// InWarningWindow reports whether the remaining time has dropped below the
// client-visible urgency threshold without having expired yet.
func InWarningWindow(expiry, now time.Time, threshold time.Duration) bool {
	remaining := TimeRemaining(expiry, now)
	return remaining > 0 && remaining <= threshold
}
