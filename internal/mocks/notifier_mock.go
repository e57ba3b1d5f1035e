package mocks

import (
	"sync"

	"github.com/yigit/unisphere-courses/internal/app/discussion"
	"github.com/yigit/unisphere-courses/internal/app/models"
)

// MockNotifier implements discussion.Notifier and records every event.
type MockNotifier struct {
	mu sync.RWMutex

	Created []models.Course
	Deleted []models.Course

	// OnEvent, when set, runs synchronously for every event. Tests use it to
	// observe store state at notification time.
	OnEvent func(action discussion.Action, course models.Course)
}

// Ensure MockNotifier implements discussion.Notifier at compile time.
var _ discussion.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) OnCourseCreated(course models.Course) {
	m.mu.Lock()
	m.Created = append(m.Created, course)
	hook := m.OnEvent
	m.mu.Unlock()
	if hook != nil {
		hook(discussion.ActionCreate, course)
	}
}

func (m *MockNotifier) OnCourseDeleted(course models.Course) {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, course)
	hook := m.OnEvent
	m.mu.Unlock()
	if hook != nil {
		hook(discussion.ActionDelete, course)
	}
}

// Calls returns the total number of events received.
func (m *MockNotifier) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Created) + len(m.Deleted)
}
