package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/genres"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

func setupBooksTestRouter(t *testing.T, normalize bool) (*gin.Engine, *database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := NewRouter(RouterConfig{
		BookStore:       books.NewRepository(db.DB),
		GenreStore:      genres.NewRepository(db.DB),
		Database:        db,
		NormalizeGenres: normalize,
		Version:         "test",
	})
	return router, db
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createBook(t *testing.T, router http.Handler, title, author string, genres ...string) entities.BookSummary {
	t.Helper()
	if genres == nil {
		genres = []string{}
	}
	w := doJSON(t, router, "POST", "/api/v1/books", gin.H{
		"title":         title,
		"author":        author,
		"publishedYear": 2020,
		"genres":        genres,
		"stock":         1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var book entities.BookSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	return book
}

func TestBooksController_Lifecycle(t *testing.T) {
	router, _ := setupBooksTestRouter(t, false)

	w := doJSON(t, router, "POST", "/api/v1/books", gin.H{
		"title":         "Book 2",
		"author":        "Author 1",
		"publishedYear": 2025,
		"genres":        []string{"Dark", "Light"},
		"stock":         10,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created entities.BookSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Book 2", created.Title)
	assert.Equal(t, []string{"Dark", "Light"}, created.Genres)

	w = doJSON(t, router, "PUT", "/api/v1/books/"+created.ID, gin.H{
		"title":         "Updated Book Title",
		"author":        "Author 1",
		"publishedYear": 2025,
		"genres":        []string{"Updated Genre"},
		"stock":         15,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated entities.BookSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Updated Book Title", updated.Title)
	assert.Equal(t, 15, updated.Stock)
	assert.Equal(t, []string{"Updated Genre"}, updated.Genres)

	w = doJSON(t, router, "DELETE", "/api/v1/books/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Book deleted successfully"}`, w.Body.String())

	w = doJSON(t, router, "DELETE", "/api/v1/books/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Book not found"}`, w.Body.String())

	w = doJSON(t, router, "GET", "/api/v1/books/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_GetBook(t *testing.T) {
	t.Run("returns genre objects in order", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)
		created := createBook(t, router, "Shadows", "Someone", "Dark", "Light")

		w := doJSON(t, router, "GET", "/api/v1/books/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var detail entities.BookDetail
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		require.Len(t, detail.Genres, 2)
		assert.Equal(t, "Dark", detail.Genres[0].Name)
		assert.Equal(t, "Light", detail.Genres[1].Name)
		assert.NotEmpty(t, detail.Genres[0].ID)
	})

	t.Run("returns names when normalized", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, true)
		created := createBook(t, router, "Shadows", "Someone", "Dark", "Light")

		w := doJSON(t, router, "GET", "/api/v1/books/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var summary entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, []string{"Dark", "Light"}, summary.Genres)
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "GET", "/api/v1/books/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Book not found"}`, w.Body.String())
	})
}

func TestBooksController_CreateBook(t *testing.T) {
	t.Run("coerces numeric strings and scalar genres", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "POST", "/api/v1/books", `{"title":"T","author":"A","publishedYear":"1999","genres":"Solo","stock":"4"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var book entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, 1999, book.PublishedYear)
		assert.Equal(t, 4, book.Stock)
		assert.Equal(t, []string{"Solo"}, book.Genres)
	})

	t.Run("accepts integral float year", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "POST", "/api/v1/books", `{"title":"T","author":"A","publishedYear":2025.0,"genres":[],"stock":1}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var book entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, 2025, book.PublishedYear)
	})

	t.Run("accepts empty genres", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		book := createBook(t, router, "No Genre", "A")

		assert.NotNil(t, book.Genres)
		assert.Empty(t, book.Genres)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "POST", "/api/v1/books", `{"publishedYear":-1,"stock":"many"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)

		fields := map[string]bool{}
		for _, e := range resp.Errors {
			fields[e.Field] = true
		}
		assert.True(t, fields["title"])
		assert.True(t, fields["author"])
		assert.True(t, fields["publishedYear"])
		assert.True(t, fields["genres"])
		assert.True(t, fields["stock"])
		assert.Contains(t, resp.Errors, validation.FieldError{Field: "stock", Message: "Stock must be a positive integer"})
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "POST", "/api/v1/books", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("strips markup before validation", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "POST", "/api/v1/books", gin.H{
			"title":         "<script>alert(1)</script>",
			"author":        "<b>Bold</b> Author",
			"publishedYear": 2000,
			"genres":        []string{"<i>Drama</i>"},
			"stock":         1,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Title is required")

		w = doJSON(t, router, "POST", "/api/v1/books", gin.H{
			"title":         "<em>Clean</em>",
			"author":        "<b>Bold</b> Author",
			"publishedYear": 2000,
			"genres":        []string{"<i>Drama</i>"},
			"stock":         1,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var book entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Clean", book.Title)
		assert.Equal(t, "Bold Author", book.Author)
		assert.Equal(t, []string{"Drama"}, book.Genres)
	})
}

func TestBooksController_GetBooks(t *testing.T) {
	router, _ := setupBooksTestRouter(t, false)
	createBook(t, router, "Fictional Tales", "Writer A")
	createBook(t, router, "Plain Title", "Writer B", "Fiction")
	createBook(t, router, "Other", "Writer C", "History")

	t.Run("bare array without paging params", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 3)
	})

	t.Run("envelope with page and limit", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books?page=1&limit=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Page       int                    `json:"page"`
			TotalPages int                    `json:"totalPages"`
			TotalBooks int64                  `json:"totalBooks"`
			Books      []entities.BookSummary `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, int64(3), resp.TotalBooks)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Len(t, resp.Books, 2)
	})

	t.Run("envelope with limit only", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books?limit=10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp PaginatedBooksResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Equal(t, int64(3), resp.TotalBooks)
	})

	t.Run("huge page returns empty page", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books?page=9223372036854775807&limit=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp PaginatedBooksResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, math.MaxInt, resp.Page)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, int64(3), resp.TotalBooks)
		assert.Empty(t, resp.Books)
	})

	t.Run("huge limit fits everything on one page", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books?page=1&limit=9223372036854775807", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			TotalPages int                    `json:"totalPages"`
			Books      []entities.BookSummary `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.TotalPages)
		assert.Len(t, resp.Books, 3)
	})

	t.Run("non-numeric paging values are ignored", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books?page=abc&limit=xyz", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Page       int   `json:"page"`
			TotalPages int   `json:"totalPages"`
			TotalBooks int64 `json:"totalBooks"`
			Books      []any `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Len(t, resp.Books, 3)
	})

	t.Run("search matches title substring and exact genre", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books?search=fiction", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 2)

		titles := []string{list[0].Title, list[1].Title}
		assert.ElementsMatch(t, []string{"Fictional Tales", "Plain Title"}, titles)
	})

	t.Run("empty search matches all", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/books?search=", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 3)
	})
}

func TestBooksController_GetBooks_Empty(t *testing.T) {
	router, _ := setupBooksTestRouter(t, false)

	w := doJSON(t, router, "GET", "/api/v1/books", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestBooksController_UpdateBook(t *testing.T) {
	t.Run("clearing genres is idempotent", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)
		created := createBook(t, router, "T", "A", "Dark", "Light")

		for i := 0; i < 2; i++ {
			w := doJSON(t, router, "PUT", "/api/v1/books/"+created.ID, gin.H{"genres": []string{}})
			require.Equal(t, http.StatusOK, w.Code)

			var book entities.BookSummary
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
			assert.Empty(t, book.Genres)
		}
	})

	t.Run("coerces scalar genres", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)
		created := createBook(t, router, "T", "A", "Dark", "Light")

		w := doJSON(t, router, "PUT", "/api/v1/books/"+created.ID, `{"genres":"Solo"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var book entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, []string{"Solo"}, book.Genres)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)
		created := createBook(t, router, "T", "A", "Dark")

		w := doJSON(t, router, "PUT", "/api/v1/books/"+created.ID, gin.H{"stock": 0})
		require.Equal(t, http.StatusOK, w.Code)

		var book entities.BookSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "T", book.Title)
		assert.Equal(t, 0, book.Stock)
		assert.Equal(t, []string{"Dark"}, book.Genres)
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "PUT", "/api/v1/books/missing", gin.H{"title": "X"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("validates before lookup", func(t *testing.T) {
		router, _ := setupBooksTestRouter(t, false)

		w := doJSON(t, router, "PUT", "/api/v1/books/missing", gin.H{"title": 42, "genres": "Solo"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []validation.FieldError{
			{Field: "title", Message: "Title must be a string"},
			{Field: "genres", Message: "Genres must be an array"},
		}, resp.Errors)
	})
}

// stubBookStore returns canned results for error-path tests.
type stubBookStore struct {
	detail  *entities.BookDetail
	deleted *entities.Book
	err     error
	getErr  error
}

func (s *stubBookStore) AddBook(ctx context.Context, in books.BookInput) (*entities.BookSummary, error) {
	return nil, s.err
}

func (s *stubBookStore) GetBooks(ctx context.Context, params books.ListParams) (*books.ListResult, error) {
	return nil, s.err
}

func (s *stubBookStore) GetBook(ctx context.Context, id string) (*entities.BookDetail, error) {
	return s.detail, s.getErr
}

func (s *stubBookStore) UpdateBook(ctx context.Context, id string, upd books.BookUpdate) (*entities.BookSummary, error) {
	return nil, s.err
}

func (s *stubBookStore) DeleteBook(ctx context.Context, id string) (*entities.Book, error) {
	return s.deleted, s.err
}

func TestBooksController_StoreErrors(t *testing.T) {
	storeErr := errors.New("connection refused")
	valid := gin.H{"title": "T", "author": "A", "publishedYear": 1, "genres": []string{}, "stock": 1}

	tests := []struct {
		name   string
		store  *stubBookStore
		method string
		path   string
		body   any
	}{
		{"create", &stubBookStore{err: storeErr}, "POST", "/api/v1/books", valid},
		{"list", &stubBookStore{err: storeErr}, "GET", "/api/v1/books", nil},
		{"get", &stubBookStore{getErr: storeErr}, "GET", "/api/v1/books/1", nil},
		{"update", &stubBookStore{detail: &entities.BookDetail{ID: "1"}, err: storeErr}, "PUT", "/api/v1/books/1", valid},
		{"delete", &stubBookStore{detail: &entities.BookDetail{ID: "1"}, err: storeErr}, "DELETE", "/api/v1/books/1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(RouterConfig{BookStore: tt.store})

			w := doJSON(t, router, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestBooksController_DeleteReportsFailure(t *testing.T) {
	router := NewRouter(RouterConfig{BookStore: &stubBookStore{detail: &entities.BookDetail{ID: "1"}}})

	w := doJSON(t, router, "DELETE", "/api/v1/books/1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Book deletion failed"}`, w.Body.String())
}
