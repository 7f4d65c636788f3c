// Package api is the HTTP client for the SecDojo platform. The coordinator
// consumes it as three opaque asynchronous operations: catalog fetch,
// lesson fetch, and the completion mutation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ivasilev/secdojo/internal/course"
)

// Client is the platform contract the screens depend on. The completion
// mutation is idempotent on the server: completing an already-completed
// lesson succeeds without side effects.
type Client interface {
	ListCourses(ctx context.Context) ([]course.Summary, error)
	FetchCatalog(ctx context.Context, courseID string) (*course.Catalog, error)
	FetchLesson(ctx context.Context, contentID string) (*course.LessonDetail, error)
	CompleteLesson(ctx context.Context, contentID string) error
}

// HTTPClient implements Client over the platform's JSON API.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the given configuration.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (c *HTTPClient) ListCourses(ctx context.Context) ([]course.Summary, error) {
	var resp coursesResponse
	if err := c.get(ctx, "/api/v1/courses", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("list courses: %w", ErrRejected)
	}
	out := make([]course.Summary, 0, len(resp.Courses))
	for _, cd := range resp.Courses {
		out = append(out, cd.toDomain())
	}
	return out, nil
}

func (c *HTTPClient) FetchCatalog(ctx context.Context, courseID string) (*course.Catalog, error) {
	var resp catalogResponse
	path := "/api/v1/courses/" + url.PathEscape(courseID) + "/catalog"
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch catalog %s: %w", courseID, ErrRejected)
	}
	return resp.toDomain(courseID), nil
}

func (c *HTTPClient) FetchLesson(ctx context.Context, contentID string) (*course.LessonDetail, error) {
	var resp lessonResponse
	path := "/api/v1/contents/" + url.PathEscape(contentID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch lesson %s: %w", contentID, ErrRejected)
	}
	detail := resp.toDomain()
	if err := ValidateInstructions(detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (c *HTTPClient) CompleteLesson(ctx context.Context, contentID string) error {
	var resp completeResponse
	path := "/api/v1/contents/" + url.PathEscape(contentID) + "/complete"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("complete lesson %s: %w", contentID, ErrRejected)
	}
	return nil
}

// get performs a GET with retries for transient failures.
func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		lastErr = c.do(ctx, http.MethodGet, path, nil, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Operation: method + " " + path, Status: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// retryable reports whether a GET failure is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= 500
	}
	return false
}
