package shared

import "time"

// Clock abstracts time so window boundaries and lifecycle timestamps can be
// controlled in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock reads the system time. All timestamps are UTC.
type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (r *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// MockClock is a manually advanced clock for tests. Sleep advances the clock
// instead of blocking.
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock starting at startTime, or at the current
// time if startTime is zero.
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now().UTC()
	}
	return &MockClock{CurrentTime: startTime}
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

func (m *MockClock) Sleep(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// SetTime pins the clock to a specific instant.
func (m *MockClock) SetTime(t time.Time) {
	m.CurrentTime = t
}
