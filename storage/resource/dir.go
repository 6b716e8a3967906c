package resource

import (
	"context"
	"io/fs"

	"github.com/pkg/errors"

	"github.com/trezcool/homework/core/homework"
)

// DirSource reads the dashboard resources from a static JSON tree, e.g. os.DirFS("./public").
type DirSource struct {
	fsys fs.FS
}

func NewDirSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (src *DirSource) read(ctx context.Context, path string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := fs.ReadFile(src.fsys, path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

func (src *DirSource) Courses(ctx context.Context) ([]homework.Course, error) {
	courses := make([]homework.Course, 0)
	if err := src.read(ctx, CoursesPath, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (src *DirSource) Assignments(ctx context.Context, courseID int) ([]homework.Assignment, error) {
	assignments := make([]homework.Assignment, 0)
	if err := src.read(ctx, AssignmentsPath(courseID), &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (src *DirSource) Today(ctx context.Context, courseIDs string) ([]homework.ScheduleEvent, error) {
	events := make([]homework.ScheduleEvent, 0)
	if noCourses(courseIDs) {
		return events, nil
	}
	if err := src.read(ctx, TodayPath(courseIDs), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (src *DirSource) Overdue(ctx context.Context) ([]homework.OverdueItem, error) {
	items := make([]homework.OverdueItem, 0)
	if err := src.read(ctx, OverduePath, &items); err != nil {
		return nil, err
	}
	return items, nil
}
