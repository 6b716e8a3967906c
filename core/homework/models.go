package homework

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidCourseIDs = errors.New("invalid course ids")

type Course struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code,omitempty"`
}

type Assignment struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	HTMLURL     string    `json:"html_url,omitempty"`
	DueAt       time.Time `json:"due_at"` // a null due date decodes to the zero time
}

// IsOverdue reports whether the assignment was due strictly before now.
// An assignment due exactly at now is not overdue.
func (a Assignment) IsOverdue(now time.Time) bool {
	return a.DueAt.Before(now)
}

type ScheduleEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	ContextCode string    `json:"context_code,omitempty"`
	HTMLURL     string    `json:"html_url,omitempty"`
	Hidden      bool      `json:"hidden"`
}

func (e ScheduleEvent) Visible() bool {
	return !e.Hidden
}

type OverdueItem struct {
	ID             int       `json:"id"`
	CourseID       int       `json:"course_id,omitempty"`
	Name           string    `json:"name"`
	HTMLURL        string    `json:"html_url,omitempty"`
	PointsPossible float64   `json:"points_possible,omitempty"`
	DueAt          time.Time `json:"due_at"`
}

// JoinCourseIDs joins the course ids with commas, keeping the courses order.
func JoinCourseIDs(courses []Course) string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, strconv.Itoa(c.ID))
	}
	return strings.Join(ids, ",")
}

// ParseCourseIDs splits a JoinCourseIDs string back into ids. An empty string holds no ids.
func ParseCourseIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil || id <= 0 {
			return nil, errors.Wrapf(ErrInvalidCourseIDs, "%q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
