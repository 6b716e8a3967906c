// Package canvas is a read-only client of the Canvas LMS REST API.
package canvas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/trezcool/homework/core"
	"github.com/trezcool/homework/core/homework"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultPerPage = 50
	maxErrorBody   = 1024
)

// APIError is returned when Canvas answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("canvas: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type (
	Options struct {
		// BaseURL overrides https://<School>.instructure.com/
		BaseURL    string
		School     string
		Token      string
		Timeout    time.Duration
		PerPage    int
		HTTPClient *http.Client
	}

	Client struct {
		base    *url.URL
		token   string
		perPage int
		http    *http.Client
	}
)

var _ homework.Repository = (*Client)(nil)

func NewClient(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		if opts.School == "" {
			return nil, errors.New("canvas: school or base url required")
		}
		baseURL = fmt.Sprintf("https://%s.instructure.com/", opts.School)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "canvas: parsing base url %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Client{base: base, token: opts.Token, perPage: perPage, http: httpClient}, nil
}

// NewClientFromConfig builds a client from the canvas.* settings.
func NewClientFromConfig(conf *core.Config) (*Client, error) {
	return NewClient(Options{
		BaseURL: conf.Canvas.BaseURL,
		School:  conf.Canvas.School,
		Token:   conf.Canvas.Token,
		Timeout: conf.Canvas.Timeout,
		PerPage: conf.Canvas.PerPage,
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	if query == nil {
		query = make(url.Values)
	}
	query.Set("per_page", strconv.Itoa(c.perPage))

	u := c.base.ResolveReference(&url.URL{Path: path})
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrapf(err, "canvas: building request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "canvas: GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrapf(err, "canvas: decoding %s", path)
	}
	return nil
}

func (c *Client) Courses(ctx context.Context) ([]homework.Course, error) {
	var courses []homework.Course
	if err := c.get(ctx, "api/v1/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Assignments(ctx context.Context, courseID int) ([]homework.Assignment, error) {
	var assignments []homework.Assignment
	path := fmt.Sprintf("api/v1/courses/%d/assignments", courseID)
	if err := c.get(ctx, path, nil, &assignments); err != nil {
		return nil, err
	}
	for i := range assignments {
		if assignments[i].CourseID == 0 {
			assignments[i].CourseID = courseID
		}
	}
	return assignments, nil
}

// CalendarEvents lists the calendar items of the courses; without a date range Canvas returns today's.
func (c *Client) CalendarEvents(ctx context.Context, courseIDs []int, eventType string) ([]homework.ScheduleEvent, error) {
	if len(courseIDs) == 0 {
		return []homework.ScheduleEvent{}, nil
	}
	query := make(url.Values)
	query.Set("type", eventType)
	for _, id := range courseIDs {
		query.Add("context_codes[]", fmt.Sprintf("course_%d", id))
	}

	var events []homework.ScheduleEvent
	if err := c.get(ctx, "api/v1/calendar_events", query, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// MissingSubmissions lists the past-due assignments the current user has not submitted.
func (c *Client) MissingSubmissions(ctx context.Context) ([]homework.OverdueItem, error) {
	var items []homework.OverdueItem
	if err := c.get(ctx, "api/v1/users/self/missing_submissions", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
