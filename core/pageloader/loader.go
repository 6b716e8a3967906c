package pageloader

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/homework/core"
	"github.com/trezcool/homework/core/homework"
)

// template names looked up in the Renderer
const (
	CourseTemplate     = "course_tmpl"
	AssignmentTemplate = "assignment_tmpl"
	EventTemplate      = "event_tmpl"
	OverdueTemplate    = "overdue_tmpl"
	DashboardTemplate  = "dashboard"
)

var nowFunc = time.Now // mockable

type (
	// Source serves the four resources of the dashboard:
	// courses.json, courses/<id>/assignments.json, courses/<ids>/today.json and overdue.json.
	Source interface {
		Courses(ctx context.Context) ([]homework.Course, error)
		Assignments(ctx context.Context, courseID int) ([]homework.Assignment, error)
		Today(ctx context.Context, courseIDs string) ([]homework.ScheduleEvent, error)
		Overdue(ctx context.Context) ([]homework.OverdueItem, error)
	}

	Renderer interface {
		Render(name string, ctx interface{}) (string, error)
	}

	// CourseView is the course_tmpl context.
	CourseView struct {
		homework.Course
		Active bool
	}

	// AssignmentView is the assignment_tmpl context.
	AssignmentView struct {
		homework.Assignment
		Due string
	}

	Options struct {
		Title string
		// MaxConcurrency bounds the assignment fetches running at once; 0 means one per course at once.
		MaxConcurrency int
		// Timeout bounds a whole page load; failed sections are reported on the Page.
		Timeout time.Duration
		// Location is the zone dates and times are shown in; nil means time.Local.
		Location *time.Location
	}

	Loader struct {
		src      Source
		renderer Renderer
		logger   core.Logger
		opts     Options
	}
)

func New(src Source, renderer Renderer, logger core.Logger, opts Options) *Loader {
	return &Loader{
		src:      src,
		renderer: renderer,
		logger:   logger,
		opts:     opts,
	}
}

// Initialize loads every section of the page.
// Courses and overdue items load concurrently; the schedule starts as soon as the course ids are known
// and each course fetches its assignments without waiting for the others.
// A failing section is logged and reported by Page.Failed; the error is only set when ctx is done.
func (l *Loader) Initialize(ctx context.Context) (*Page, error) {
	parent := ctx
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	page := newPage(l.opts.Title, nowFunc())

	var g errgroup.Group
	g.Go(func() error {
		l.loadCourses(ctx, page, &g)
		return nil
	})
	g.Go(func() error {
		overdue, err := l.LoadOverdue(ctx)
		page.Overdue = overdue
		if err != nil {
			l.failed(page, OverdueContainer, err)
		}
		return nil
	})
	_ = g.Wait()

	if err := parent.Err(); err != nil {
		return nil, errors.Wrap(err, "loading page")
	}
	return page, nil
}

func (l *Loader) loadCourses(ctx context.Context, page *Page, g *errgroup.Group) {
	courses, err := l.src.Courses(ctx)
	if err != nil {
		l.failed(page, CarouselContainer, errors.Wrap(err, "fetching courses"))
		return
	}

	courseIDs := homework.JoinCourseIDs(courses)
	page.CourseIDs = courseIDs
	g.Go(func() error {
		schedule, err := l.LoadSchedule(ctx, courseIDs)
		page.Schedule = schedule
		if err != nil {
			l.failed(page, ScheduleContainer, err)
		}
		return nil
	})

	var ag errgroup.Group
	if l.opts.MaxConcurrency > 0 {
		ag.SetLimit(l.opts.MaxConcurrency)
	}

	// cap is len(courses): append never moves the panes the goroutines below write to
	panes := make([]CoursePane, 0, len(courses))
	for i, course := range courses {
		active := i == 0
		markup, err := l.renderer.Render(CourseTemplate, CourseView{Course: course, Active: active})
		if err != nil {
			l.failed(page, CarouselContainer, errors.Wrapf(err, "rendering course %d", course.ID))
			break
		}
		panes = append(panes, CoursePane{
			Course:      course,
			Active:      active,
			Markup:      toHTML(markup),
			Assignments: newContainer(AssignmentsContainer(course.ID)),
		})

		pane := &panes[len(panes)-1]
		ag.Go(func() error {
			assignments, err := l.LoadAssignments(ctx, pane.Course)
			pane.Assignments = assignments
			if err != nil {
				l.failed(page, assignments.ID, err)
			}
			return nil
		})
	}
	page.Courses = panes
	_ = ag.Wait()
}

// LoadAssignments renders the assignments of a course that are not overdue yet, in response order.
func (l *Loader) LoadAssignments(ctx context.Context, course homework.Course) (Container, error) {
	container := newContainer(AssignmentsContainer(course.ID))

	assignments, err := l.src.Assignments(ctx, course.ID)
	if err != nil {
		return container, errors.Wrapf(err, "fetching assignments of course %d", course.ID)
	}

	now := nowFunc()
	for _, a := range assignments {
		if a.IsOverdue(now) {
			continue
		}
		a.DueAt = a.DueAt.In(l.location())
		markup, err := l.renderer.Render(AssignmentTemplate, AssignmentView{Assignment: a, Due: homework.DueLabel(a.DueAt)})
		if err != nil {
			return container, errors.Wrapf(err, "rendering assignment %d", a.ID)
		}
		container.Append(markup)
	}
	return container, nil
}

// LoadSchedule renders today's visible events of the comma-separated courses, in response order.
func (l *Loader) LoadSchedule(ctx context.Context, courseIDs string) (Container, error) {
	container := newContainer(ScheduleContainer)

	events, err := l.src.Today(ctx, courseIDs)
	if err != nil {
		return container, errors.Wrapf(err, "fetching today's events of courses %q", courseIDs)
	}

	for _, e := range events {
		if !e.Visible() {
			continue
		}
		e.StartAt, e.EndAt = e.StartAt.In(l.location()), e.EndAt.In(l.location())
		markup, err := l.renderer.Render(EventTemplate, e)
		if err != nil {
			return container, errors.Wrapf(err, "rendering event %q", e.Title)
		}
		container.Append(markup)
	}
	return container, nil
}

// LoadOverdue renders every overdue item, in response order.
func (l *Loader) LoadOverdue(ctx context.Context) (Container, error) {
	container := newContainer(OverdueContainer)

	items, err := l.src.Overdue(ctx)
	if err != nil {
		return container, errors.Wrap(err, "fetching overdue items")
	}

	for _, item := range items {
		item.DueAt = item.DueAt.In(l.location())
		markup, err := l.renderer.Render(OverdueTemplate, item)
		if err != nil {
			return container, errors.Wrapf(err, "rendering overdue item %d", item.ID)
		}
		container.Append(markup)
	}
	return container, nil
}

// RenderPage renders the whole dashboard document.
func (l *Loader) RenderPage(page *Page) (string, error) {
	html, err := l.renderer.Render(DashboardTemplate, page)
	if err != nil {
		return "", errors.Wrap(err, "rendering dashboard")
	}
	return html, nil
}

// Dashboard loads and renders the page in one go.
func (l *Loader) Dashboard(ctx context.Context) (string, error) {
	page, err := l.Initialize(ctx)
	if err != nil {
		return "", err
	}
	return l.RenderPage(page)
}

func (l *Loader) location() *time.Location {
	if l.opts.Location == nil {
		return time.Local
	}
	return l.opts.Location
}

func (l *Loader) failed(page *Page, section string, err error) {
	page.fail(section, err)
	l.logger.Error(fmt.Sprintf("loading %s: %v", section, err), err)
}
