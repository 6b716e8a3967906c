package homework

import (
	"context"
	"fmt"
	"sync"
)

// RepositoryMock is an in-memory Repository for tests.
type RepositoryMock struct {
	CourseList          []Course
	AssignmentsByCourse map[int][]Assignment
	EventsByType        map[string][]ScheduleEvent
	Missing             []OverdueItem
	Err                 error // returned by every call when set

	mu    sync.Mutex
	calls []string
}

var _ Repository = (*RepositoryMock)(nil)

func (repo *RepositoryMock) record(call string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls = append(repo.calls, call)
}

// Calls returns the calls made so far, e.g. "CalendarEvents([1 2], assignment)".
func (repo *RepositoryMock) Calls() []string {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return append([]string(nil), repo.calls...)
}

func (repo *RepositoryMock) Courses(_ context.Context) ([]Course, error) {
	repo.record("Courses()")
	if repo.Err != nil {
		return nil, repo.Err
	}
	return repo.CourseList, nil
}

func (repo *RepositoryMock) Assignments(_ context.Context, courseID int) ([]Assignment, error) {
	repo.record(fmt.Sprintf("Assignments(%d)", courseID))
	if repo.Err != nil {
		return nil, repo.Err
	}
	return repo.AssignmentsByCourse[courseID], nil
}

func (repo *RepositoryMock) CalendarEvents(_ context.Context, courseIDs []int, eventType string) ([]ScheduleEvent, error) {
	repo.record(fmt.Sprintf("CalendarEvents(%v, %s)", courseIDs, eventType))
	if repo.Err != nil {
		return nil, repo.Err
	}
	return repo.EventsByType[eventType], nil
}

func (repo *RepositoryMock) MissingSubmissions(_ context.Context) ([]OverdueItem, error) {
	repo.record("MissingSubmissions()")
	if repo.Err != nil {
		return nil, repo.Err
	}
	return repo.Missing, nil
}
