package chat

import "time"

// Handle controls a scheduled reply. Stop reports whether the call
// prevented the reply from running.
type Handle interface {
	Stop() bool
}

// Scheduler defers a function call. Implementations must not invoke fn
// synchronously from AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
}

// TimerScheduler schedules with the runtime timer.
type TimerScheduler struct{}

// AfterFunc implements Scheduler. *time.Timer satisfies Handle directly.
func (TimerScheduler) AfterFunc(d time.Duration, fn func()) Handle {
	return time.AfterFunc(d, fn)
}
