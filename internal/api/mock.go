package api

import (
	"context"
	"sync"

	"github.com/ivasilev/secdojo/internal/course"
)

// MockClient is a deterministic Client for tests and offline demos. Each
// operation returns the configured value or error; calls are recorded.
type MockClient struct {
	mu sync.Mutex

	Courses    []course.Summary
	CoursesErr error

	Catalogs    map[string]*course.Catalog
	CatalogErr  error
	Lessons     map[string]*course.LessonDetail
	LessonErr   error
	CompleteErr error

	CatalogCalls  []string
	LessonCalls   []string
	CompleteCalls []string
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		Catalogs: make(map[string]*course.Catalog),
		Lessons:  make(map[string]*course.LessonDetail),
	}
}

func (m *MockClient) ListCourses(_ context.Context) ([]course.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CoursesErr != nil {
		return nil, m.CoursesErr
	}
	return m.Courses, nil
}

func (m *MockClient) FetchCatalog(_ context.Context, courseID string) (*course.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CatalogCalls = append(m.CatalogCalls, courseID)
	if m.CatalogErr != nil {
		return nil, m.CatalogErr
	}
	if c, ok := m.Catalogs[courseID]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (m *MockClient) FetchLesson(_ context.Context, contentID string) (*course.LessonDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LessonCalls = append(m.LessonCalls, contentID)
	if m.LessonErr != nil {
		return nil, m.LessonErr
	}
	if d, ok := m.Lessons[contentID]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (m *MockClient) CompleteLesson(_ context.Context, contentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls = append(m.CompleteCalls, contentID)
	if m.CompleteErr != nil {
		return m.CompleteErr
	}
	if d, ok := m.Lessons[contentID]; ok {
		copied := *d
		copied.Progress.Status = course.StatusCompleted
		copied.Progress.Percentage = 100
		m.Lessons[contentID] = &copied
	}
	return nil
}

// CompleteCount returns how many completion mutations were issued.
func (m *MockClient) CompleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CompleteCalls)
}
