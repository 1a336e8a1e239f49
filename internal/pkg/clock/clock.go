// Package clock abstracts "now" so that expiry math and day-of-week
// pricing can be pinned to fixed instants in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// RealClock reads the system time. The fx graph provides one instance
// shared by every usecase.
type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a caller-controlled instant. Tests advance it with
// Set or Add to walk a session toward and past its expiry.
type MockClock struct {
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.currentTime
}

func (c *MockClock) Set(t time.Time) {
	c.currentTime = t
}

func (c *MockClock) Add(d time.Duration) {
	c.currentTime = c.currentTime.Add(d)
}
