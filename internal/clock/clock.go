// Package clock lets callers swap the system time for a fixed one in tests.
package clock

import "time"

// Clocker abstracts time.Now
type Clocker interface {
	Now() time.Time
}

// TimeClocker is backed by time.Now
type TimeClocker struct{}

// New returns a TimeClocker
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. Set moves it.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.T = t
}
