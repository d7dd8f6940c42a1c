package presets

import "time"

// Clock supplies wall-clock time and one-shot timers to the debounce logic.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func())
}

// SystemClock runs timers on their own goroutines. Callers that need fn on a
// particular goroutine should wrap it.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
