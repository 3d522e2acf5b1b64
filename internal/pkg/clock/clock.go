package clock

import "time"

// Clocker supplies the current time. Code takes it as a dependency so
// tests can pin the clock to a fixed instant.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the real clock used outside of tests.
type TimeClocker struct{}

// New returns a TimeClocker backed by time.Now.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}
