package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

type stubEnqueuer struct {
	id    string
	err   error
	calls int
}

func (s *stubEnqueuer) EnqueueGenreCleanup() (string, error) {
	s.calls++
	return s.id, s.err
}

type failingGenreStore struct{}

func (failingGenreStore) List(ctx context.Context) ([]entities.GenreCount, error) {
	return nil, errors.New("boom")
}

func (failingGenreStore) DeleteOrphans(ctx context.Context) (int64, error) {
	return 0, errors.New("boom")
}

func TestGenresController_ListGenres(t *testing.T) {
	router, _ := setupBooksTestRouter(t, false)
	createBook(t, router, "One", "A", "Drama", "Action")
	createBook(t, router, "Two", "B", "Drama")

	w := doJSON(t, router, "GET", "/api/v1/genres", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []entities.GenreCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Action", list[0].Name)
	assert.Equal(t, int64(1), list[0].BookCount)
	assert.Equal(t, "Drama", list[1].Name)
	assert.Equal(t, int64(2), list[1].BookCount)
}

func TestGenresController_CleanupInline(t *testing.T) {
	router, _ := setupBooksTestRouter(t, false)
	book := createBook(t, router, "One", "A", "Drama", "Action")

	w := doJSON(t, router, "PUT", "/api/v1/books/"+book.ID, map[string]any{"genres": []string{"Drama"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/genres/cleanup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())

	w = doJSON(t, router, "GET", "/api/v1/genres", nil)
	var list []entities.GenreCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Drama", list[0].Name)
}

func TestGenresController_CleanupEnqueued(t *testing.T) {
	enq := &stubEnqueuer{id: "task-42"}
	router := NewRouter(RouterConfig{GenreStore: failingGenreStore{}, GenreCleanup: enq})

	w := doJSON(t, router, "POST", "/api/v1/genres/cleanup", nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, enq.calls)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "task-42", resp["taskId"])
}

func TestGenresController_Errors(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		router := NewRouter(RouterConfig{GenreStore: failingGenreStore{}})

		w := doJSON(t, router, "GET", "/api/v1/genres", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("inline cleanup", func(t *testing.T) {
		router := NewRouter(RouterConfig{GenreStore: failingGenreStore{}})

		w := doJSON(t, router, "POST", "/api/v1/genres/cleanup", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("enqueue", func(t *testing.T) {
		router := NewRouter(RouterConfig{
			GenreStore:   failingGenreStore{},
			GenreCleanup: &stubEnqueuer{err: errors.New("queue closed")},
		})

		w := doJSON(t, router, "POST", "/api/v1/genres/cleanup", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "queue closed")
	})
}

type stubTaskStatus struct {
	status backlite.TaskStatus
	err    error
}

func (s stubTaskStatus) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return s.status, s.err
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	t.Run("known task", func(t *testing.T) {
		router := NewRouter(RouterConfig{TaskStatus: stubTaskStatus{status: backlite.TaskStatusSuccess}})

		w := doJSON(t, router, "GET", "/api/v1/tasks/abc", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"abc","status":"success"}`, w.Body.String())
	})

	t.Run("unknown task", func(t *testing.T) {
		router := NewRouter(RouterConfig{TaskStatus: stubTaskStatus{status: backlite.TaskStatusNotFound}})

		w := doJSON(t, router, "GET", "/api/v1/tasks/abc", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("lookup error", func(t *testing.T) {
		router := NewRouter(RouterConfig{TaskStatus: stubTaskStatus{err: errors.New("locked")}})

		w := doJSON(t, router, "GET", "/api/v1/tasks/abc", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
