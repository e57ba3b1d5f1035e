// Package mocks provides in-memory implementations of the course store and
// discussion notifier for tests.
package mocks

import (
	"context"
	"sync"

	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/app/repositories"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
)

// MockCourseStore implements repositories.CourseStore in memory.
type MockCourseStore struct {
	mu sync.RWMutex

	courses map[string]*models.Course
	nextID  int64

	// Call tracking for verification
	ListCalls   int
	GetCalls    []string
	CreateCalls []models.Course
	DeleteCalls []string

	// Error injection for testing error scenarios
	ListError   error
	GetError    error
	CreateError error
	DeleteError error
}

// Ensure MockCourseStore implements repositories.CourseStore at compile time.
var _ repositories.CourseStore = (*MockCourseStore)(nil)

// NewMockCourseStore creates an empty store.
func NewMockCourseStore() *MockCourseStore {
	return &MockCourseStore{
		courses: make(map[string]*models.Course),
		nextID:  1,
	}
}

// SeedCourse adds a course without tracking the call.
func (m *MockCourseStore) SeedCourse(course models.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := course
	m.courses[c.Key()] = &c
	if c.CourseID >= m.nextID {
		m.nextID = c.CourseID + 1
	}
}

// Has reports whether a course with subject and id is stored.
func (m *MockCourseStore) Has(subject string, courseID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.courses[key(subject, courseID)]
	return ok
}

// Len returns the number of stored courses.
func (m *MockCourseStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.courses)
}

func key(subject string, courseID int64) string {
	return models.Course{CourseSubject: subject, CourseID: courseID}.Key()
}

func (m *MockCourseStore) List(ctx context.Context, pred repositories.CoursePredicate) ([]*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if m.ListError != nil {
		return nil, m.ListError
	}

	out := []*models.Course{}
	for _, c := range m.courses {
		if pred.Matches(*c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	repositories.SortCourses(out)
	return out, nil
}

func (m *MockCourseStore) Get(ctx context.Context, subject string, courseID int64) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key(subject, courseID))
	if m.GetError != nil {
		return nil, m.GetError
	}

	c, ok := m.courses[key(subject, courseID)]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

// Create stores the course. courseID must be unique across subjects; a zero
// courseID is assigned from an internal sequence.
func (m *MockCourseStore) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, *course)
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	c := *course
	if c.CourseID == 0 {
		c.CourseID = m.nextID
	}
	for _, existing := range m.courses {
		if existing.CourseID == c.CourseID {
			return nil, apperrors.ErrCourseAlreadyExists
		}
	}
	if c.CourseID >= m.nextID {
		m.nextID = c.CourseID + 1
	}

	m.courses[c.Key()] = &c
	cp := c
	return &cp, nil
}

func (m *MockCourseStore) Delete(ctx context.Context, subject string, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, key(subject, courseID))
	if m.DeleteError != nil {
		return m.DeleteError
	}

	k := key(subject, courseID)
	if _, ok := m.courses[k]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(m.courses, k)
	return nil
}
