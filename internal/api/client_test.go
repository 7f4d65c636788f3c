package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivasilev/secdojo/internal/course"
)

func testClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Token = "test-token"
	return NewHTTPClient(cfg)
}

func TestFetchCatalogPreservesOrder(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses/net-101/catalog", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"success": true,
			"sections": [
				{"title": "Foundations", "contents": [
					{"contentId": "x1", "title": "Threat Models", "type": "video", "duration": 600, "isCompleted": true},
					{"contentId": "x2", "title": "Recon Lab", "type": "lab", "isCompleted": false}
				]},
				{"title": "Exploitation", "contents": [
					{"contentId": "x3", "title": "SQLi Basics", "type": "document", "isCompleted": false}
				]}
			]
		}`))
	}))

	catalog, err := c.FetchCatalog(context.Background(), "net-101")
	require.NoError(t, err)
	require.Equal(t, 3, catalog.Len())
	assert.Equal(t, "x1", catalog.At(0).ContentID)
	assert.Equal(t, "x3", catalog.At(2).ContentID)
	assert.Equal(t, "Foundations", catalog.At(1).SectionTitle)
	assert.Equal(t, 600, catalog.At(0).DurationSecs)
	assert.Equal(t, 1, catalog.CompletedCount())
}

func TestFetchCatalogRejected(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))

	_, err := c.FetchCatalog(context.Background(), "net-101")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestFetchLessonValidatesLabInstructions(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": true,
			"content": {
				"id": "x2", "title": "Recon Lab", "type": "lab",
				"instructions": "{\"objective\": \"map the target network\"}"
			},
			"module": {"title": "Foundations"},
			"progress": {"status": "not-started"}
		}`))
	}))

	// Missing required "steps" — must surface as lesson-scoped content error.
	_, err := c.FetchLesson(context.Background(), "x2")
	require.Error(t, err)
	var contentErr *ContentInvalidError
	require.ErrorAs(t, err, &contentErr)
	assert.Equal(t, "x2", contentErr.ContentID)
}

func TestFetchLessonDocumentSkipsValidation(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": true,
			"content": {"id": "x3", "title": "SQLi Basics", "type": "document", "instructions": "not json"},
			"module": {"title": "Exploitation"},
			"progress": {"status": "in-progress", "percentage": 40}
		}`))
	}))

	detail, err := c.FetchLesson(context.Background(), "x3")
	require.NoError(t, err)
	assert.Equal(t, course.StatusInProgress, detail.Progress.Status)
}

func TestCompleteLessonPostsOnce(t *testing.T) {
	var posts atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/contents/x2/complete", r.URL.Path)
		posts.Add(1)
		w.Write([]byte(`{"success": true}`))
	}))

	require.NoError(t, c.CompleteLesson(context.Background(), "x2"))
	assert.Equal(t, int32(1), posts.Load(), "writes must not retry")
}

func TestGetRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success": true, "courses": []}`))
	}))

	_, err := c.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.FetchLesson(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnavailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1" // nothing listens here
	cfg.MaxRetries = 0
	c := NewHTTPClient(cfg)

	_, err := c.ListCourses(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}
