package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// MockClock is safe for concurrent use. When step is non-zero every Now call
// advances the clock by step after reading it.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	step        time.Duration
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

func NewSteppingClock(t time.Time, step time.Duration) *MockClock {
	return &MockClock{currentTime: t, step: step}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.currentTime
	c.currentTime = c.currentTime.Add(c.step)
	return now
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
}

func (c *MockClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = c.currentTime.Add(d)
}
