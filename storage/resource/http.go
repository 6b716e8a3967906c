package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/trezcool/homework/core/homework"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxErrorBody = 512

// StatusError is returned when a resource answers with a non-2xx status.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPSource fetches the dashboard resources relative to a base URL,
// the way the browser page does relative to its own location.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource returns a source rooted at baseURL. A nil client means a client with the given timeout.
func NewHTTPSource(baseURL string, client *http.Client, timeout time.Duration) (*HTTPSource, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base url %q", baseURL)
	}
	if !base.IsAbs() {
		return nil, errors.Errorf("base url %q is not absolute", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{base: base, client: client}, nil
}

func (src *HTTPSource) get(ctx context.Context, path string, v interface{}) error {
	ref, err := url.Parse(path)
	if err != nil {
		return errors.Wrapf(err, "parsing path %q", path)
	}
	u := src.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", path)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := src.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

func (src *HTTPSource) Courses(ctx context.Context) ([]homework.Course, error) {
	courses := make([]homework.Course, 0)
	if err := src.get(ctx, CoursesPath, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (src *HTTPSource) Assignments(ctx context.Context, courseID int) ([]homework.Assignment, error) {
	assignments := make([]homework.Assignment, 0)
	if err := src.get(ctx, AssignmentsPath(courseID), &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (src *HTTPSource) Today(ctx context.Context, courseIDs string) ([]homework.ScheduleEvent, error) {
	events := make([]homework.ScheduleEvent, 0)
	if noCourses(courseIDs) {
		return events, nil
	}
	if err := src.get(ctx, TodayPath(courseIDs), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (src *HTTPSource) Overdue(ctx context.Context) ([]homework.OverdueItem, error) {
	items := make([]homework.OverdueItem, 0)
	if err := src.get(ctx, OverduePath, &items); err != nil {
		return nil, err
	}
	return items, nil
}
