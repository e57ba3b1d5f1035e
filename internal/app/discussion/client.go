package discussion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/yigit/unisphere-courses/internal/app/models"
)

// ThreadRequest is the body sent to create a discussion thread for a course.
type ThreadRequest struct {
	CourseID      int64  `json:"course_id"`
	CourseSubject string `json:"course_subject"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	Author        *int64 `json:"author"`
}

// NewThreadRequest builds the create-thread body for a course.
func NewThreadRequest(course models.Course) ThreadRequest {
	return ThreadRequest{
		CourseID:      course.CourseID,
		CourseSubject: course.CourseSubject,
		Title:         course.Title,
		Body:          course.Description,
		Author:        course.CreatorID,
	}
}

// ThreadSyncer issues the remote calls that mirror course lifecycle events.
type ThreadSyncer interface {
	CreateThread(ctx context.Context, req ThreadRequest) error
	DeleteThread(ctx context.Context, subject string, courseID int64) error
}

// StatusError is returned when the Discussion Service answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discussion service %s %s returned status %d", e.Method, e.URL, e.StatusCode)
}

// Client talks to the Discussion Service over HTTP. Every call goes through a
// circuit breaker; while it is open calls fail immediately with gobreaker.ErrOpenState.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

var _ ThreadSyncer = (*Client)(nil)

// NewClient creates a Discussion Service client. A nil httpClient uses a default one.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		cb:         newCircuitBreaker("discussion-service", log),
	}
}

func newCircuitBreaker(name string, log zerolog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

// CreateThread posts a new thread for a course.
func (c *Client) CreateThread(ctx context.Context, req ThreadRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode thread request: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/course-discussions/", body)
}

// DeleteThread removes the thread addressed by subject and course id.
func (c *Client) DeleteThread(ctx context.Context, subject string, courseID int64) error {
	endpoint := fmt.Sprintf("%s/course-discussions/%s/%s/",
		c.baseURL, url.PathEscape(subject), strconv.FormatInt(courseID, 10))
	return c.do(ctx, http.MethodDelete, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Method: method, URL: endpoint, StatusCode: resp.StatusCode}
		}
		return nil, nil
	})
	return err
}
