package pageloader

import (
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/trezcool/homework/core/homework"
)

// containers the dashboard renders into
const (
	CarouselContainer = "courses-carousel"
	ScheduleContainer = "schedule-items"
	OverdueContainer  = "overdue-items"
)

func AssignmentsContainer(courseID int) string {
	return fmt.Sprintf("course-%d-assignments", courseID)
}

// Container is an insertion point of the page; Items keep their append order.
type Container struct {
	ID    string
	Items []template.HTML
}

func newContainer(id string) Container {
	return Container{ID: id, Items: make([]template.HTML, 0)}
}

// Append adds markup produced by the template registry.
func (c *Container) Append(markup string) {
	c.Items = append(c.Items, toHTML(markup))
}

func toHTML(markup string) template.HTML {
	return template.HTML(markup)
}

func (c Container) Len() int { return len(c.Items) }

// CoursePane is one carousel entry with its own assignment list.
type CoursePane struct {
	Course      homework.Course
	Active      bool
	Markup      template.HTML
	Assignments Container
}

// Page is the result of one load. Each flow writes only its own containers.
type Page struct {
	Title       string
	GeneratedAt time.Time
	CourseIDs   string
	Courses     []CoursePane
	Schedule    Container
	Overdue     Container

	mu     sync.Mutex
	errors map[string]error // by container id
}

func newPage(title string, now time.Time) *Page {
	return &Page{
		Title:       title,
		GeneratedAt: now,
		Courses:     make([]CoursePane, 0),
		Schedule:    newContainer(ScheduleContainer),
		Overdue:     newContainer(OverdueContainer),
		errors:      make(map[string]error),
	}
}

func (p *Page) fail(section string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors[section] = err
}

// Failed reports whether the section could not be (fully) loaded.
func (p *Page) Failed(section string) bool {
	return p.Err(section) != nil
}

func (p *Page) Err(section string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors[section]
}

// Errors returns a copy of the section failures.
func (p *Page) Errors() map[string]error {
	p.mu.Lock()
	defer p.mu.Unlock()
	errs := make(map[string]error, len(p.errors))
	for k, v := range p.errors {
		errs[k] = v
	}
	return errs
}

// Pane returns the carousel entry of a course.
func (p *Page) Pane(courseID int) (CoursePane, bool) {
	for _, pane := range p.Courses {
		if pane.Course.ID == courseID {
			return pane, true
		}
	}
	return CoursePane{}, false
}
