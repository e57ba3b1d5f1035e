package discussion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unisphere-courses/internal/app/models"
)

func sampleCourse() models.Course {
	creator := int64(42)
	return models.Course{
		CourseID:      101,
		CreatorID:     &creator,
		CourseSubject: "COMPSCI",
		Title:         "Intro to CS",
		Instructor:    "Smith",
		Credits:       4,
		Description:   "Basics of programming",
	}
}

func TestClient_CreateThread(t *testing.T) {
	var got ThreadRequest
	var method, path, contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", srv.Client(), zerolog.Nop())
	err := client.CreateThread(context.Background(), NewThreadRequest(sampleCourse()))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/course-discussions/", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, int64(101), got.CourseID)
	assert.Equal(t, "COMPSCI", got.CourseSubject)
	assert.Equal(t, "Intro to CS", got.Title)
	assert.Equal(t, "Basics of programming", got.Body)
	require.NotNil(t, got.Author)
	assert.Equal(t, int64(42), *got.Author)
}

func TestClient_DeleteThread(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())
	require.NoError(t, client.DeleteThread(context.Background(), "BIOLOGY", 2))

	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/course-discussions/BIOLOGY/2/", path)
}

func TestClient_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())
	err := client.DeleteThread(context.Background(), "BIOLOGY", 2)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), zerolog.Nop())
	for i := 0; i < 3; i++ {
		assert.Error(t, client.DeleteThread(context.Background(), "MATH", 1))
	}

	err := client.DeleteThread(context.Background(), "MATH", 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}
