package resource

import (
	"fmt"
	"strings"

	"github.com/trezcool/homework/core/pageloader"
)

// resource paths, relative to the dashboard location
const (
	CoursesPath = "courses.json"
	OverduePath = "overdue.json"
)

var (
	_ pageloader.Source = (*HTTPSource)(nil)
	_ pageloader.Source = (*DirSource)(nil)
)

func AssignmentsPath(courseID int) string {
	return fmt.Sprintf("courses/%d/assignments.json", courseID)
}

func TodayPath(courseIDs string) string {
	return fmt.Sprintf("courses/%s/today.json", courseIDs)
}

// noCourses reports whether the today resource can be answered without a request.
func noCourses(courseIDs string) bool {
	return strings.TrimSpace(courseIDs) == ""
}
