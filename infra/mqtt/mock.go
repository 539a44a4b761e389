package mqtt

import (
	"fmt"
	"sync"

	"github.com/atvfleet/maintsched/core/model"
)

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Schedules []*model.Schedule
	Fail      bool
	mu        sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishSchedule records the schedule or returns an error if configured to fail.
func (m *MockPublisher) PublishSchedule(s *model.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Schedules = append(m.Schedules, s)
	return nil
}

// Published returns the schedules recorded so far.
func (m *MockPublisher) Published() []*model.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]*model.Schedule, len(m.Schedules))
	copy(cp, m.Schedules)
	return cp
}

// Close implements Publisher.
func (m *MockPublisher) Close() error { return nil }
