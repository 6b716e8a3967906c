package homework

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/homework/core"
)

// calendar event types
const (
	EventTypeEvent      = "event"
	EventTypeAssignment = "assignment"
)

type (
	// Repository is where the course records come from (the Canvas API in production).
	Repository interface {
		Courses(ctx context.Context) ([]Course, error)
		Assignments(ctx context.Context, courseID int) ([]Assignment, error)
		// CalendarEvents returns today's calendar items of the given type for all courses.
		CalendarEvents(ctx context.Context, courseIDs []int, eventType string) ([]ScheduleEvent, error)
		MissingSubmissions(ctx context.Context) ([]OverdueItem, error)
	}

	ServiceInterface interface {
		Courses(ctx context.Context) ([]Course, error)
		Assignments(ctx context.Context, courseID int) ([]Assignment, error)
		Today(ctx context.Context, courseIDs string) ([]ScheduleEvent, error)
		Overdue(ctx context.Context) ([]OverdueItem, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Courses(ctx context.Context) ([]Course, error) {
	courses, err := svc.repo.Courses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []Course{}
	}
	return courses, nil
}

func (svc *Service) Assignments(ctx context.Context, courseID int) ([]Assignment, error) {
	if courseID <= 0 {
		return nil, core.NewValidationError(ErrInvalidCourseIDs, core.FieldError{Field: "id", Error: ErrInvalidCourseIDs.Error()})
	}
	assignments, err := svc.repo.Assignments(ctx, courseID)
	if err != nil {
		return nil, errors.Wrapf(err, "querying assignments of course %d", courseID)
	}
	if assignments == nil {
		assignments = []Assignment{}
	}
	return assignments, nil
}

// Today returns today's events of the comma-separated courses: plain events first, then assignment events.
func (svc *Service) Today(ctx context.Context, courseIDs string) ([]ScheduleEvent, error) {
	ids, err := ParseCourseIDs(core.CleanString(courseIDs))
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "ids", Error: ErrInvalidCourseIDs.Error()})
	}
	if len(ids) == 0 {
		return []ScheduleEvent{}, nil
	}

	events, err := svc.repo.CalendarEvents(ctx, ids, EventTypeEvent)
	if err != nil {
		return nil, errors.Wrap(err, "querying calendar events")
	}
	assignmentEvents, err := svc.repo.CalendarEvents(ctx, ids, EventTypeAssignment)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignment events")
	}

	today := make([]ScheduleEvent, 0, len(events)+len(assignmentEvents))
	today = append(today, events...)
	today = append(today, assignmentEvents...)
	return today, nil
}

func (svc *Service) Overdue(ctx context.Context) ([]OverdueItem, error) {
	items, err := svc.repo.MissingSubmissions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying missing submissions")
	}
	if items == nil {
		items = []OverdueItem{}
	}
	return items, nil
}
