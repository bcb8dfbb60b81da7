package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

// BookStore defines the catalog operations used by BooksController.
// Lookups return nil without an error when the book does not exist.
type BookStore interface {
	AddBook(ctx context.Context, in books.BookInput) (*entities.BookSummary, error)
	GetBooks(ctx context.Context, params books.ListParams) (*books.ListResult, error)
	GetBook(ctx context.Context, id string) (*entities.BookDetail, error)
	UpdateBook(ctx context.Context, id string, upd books.BookUpdate) (*entities.BookSummary, error)
	DeleteBook(ctx context.Context, id string) (*entities.Book, error)
}

type BooksController struct {
	store           BookStore
	normalizeGenres bool
}

func NewBooksController(store BookStore, normalizeGenres bool) *BooksController {
	return &BooksController{
		store:           store,
		normalizeGenres: normalizeGenres,
	}
}

// CreateBook godoc
// @Summary  Create a new book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    book  body      swaggerBookInput  true  "Book to create"
// @Success  201   {object}  entities.BookSummary
// @Failure  400   {object}  ValidationErrorResponse
// @Failure  500   {object}  ErrorResponse
// @Router   /api/v1/books [post]
func (bc *BooksController) CreateBook(c *gin.Context) {
	payload := validatedPayload(c)

	in := books.BookInput{
		Title:  stringField(payload, "title"),
		Author: stringField(payload, "author"),
		Genres: validation.ToStrings(payload["genres"]),
	}
	in.PublishedYear, _ = validation.ToInt(payload["publishedYear"])
	in.Stock, _ = validation.ToInt(payload["stock"])

	book, err := bc.store.AddBook(c.Request.Context(), in)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// GetBooks godoc
// @Summary      List books
// @Description  Returns a bare array unless page or limit is given, then a paginated envelope.
// @Tags         books
// @Produce      json
// @Param        search  query     string  false  "Title or author substring, or exact genre name"
// @Param        page    query     int     false  "Page number, 1-indexed"
// @Param        limit   query     int     false  "Books per page"
// @Success      200     {object}  PaginatedBooksResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/v1/books [get]
func (bc *BooksController) GetBooks(c *gin.Context) {
	params := books.ListParams{
		Search: c.Query("search"),
		Page:   positiveQueryInt(c, "page"),
		Limit:  positiveQueryInt(c, "limit"),
	}

	result, err := bc.store.GetBooks(c.Request.Context(), params)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	if !hasQuery(c, "page") && !hasQuery(c, "limit") {
		c.JSON(http.StatusOK, result.Books)
		return
	}

	page := params.Page
	if page == 0 {
		page = 1
	}
	c.JSON(http.StatusOK, PaginatedBooksResponse{
		Page:       page,
		TotalPages: totalPages(result.Total, params.Limit),
		TotalBooks: result.Total,
		Books:      result.Books,
	})
}

// GetBook godoc
// @Summary  Get a book by ID
// @Tags     books
// @Produce  json
// @Param    id   path      string  true  "Book ID"
// @Success  200  {object}  entities.BookDetail
// @Failure  404  {object}  ErrorResponse
// @Failure  500  {object}  ErrorResponse
// @Router   /api/v1/books/{id} [get]
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.store.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	if book == nil {
		respondNotFound(c, "Book")
		return
	}

	if bc.normalizeGenres {
		c.JSON(http.StatusOK, book.Summary())
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBook godoc
// @Summary  Update a book by ID
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    id    path      string            true  "Book ID"
// @Param    book  body      swaggerBookInput  true  "Fields to change"
// @Success  200   {object}  entities.BookSummary
// @Failure  400   {object}  ValidationErrorResponse
// @Failure  404   {object}  ErrorResponse
// @Failure  500   {object}  ErrorResponse
// @Router   /api/v1/books/{id} [put]
func (bc *BooksController) UpdateBook(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	existing, err := bc.store.GetBook(ctx, id)
	if err != nil {
		respondInternalError(c, err, "get book for update")
		return
	}
	if existing == nil {
		respondNotFound(c, "Book")
		return
	}

	updated, err := bc.store.UpdateBook(ctx, id, bookUpdateFrom(validatedPayload(c)))
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	if updated == nil {
		respondNotFound(c, "Book")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteBook godoc
// @Summary  Delete a book by ID
// @Tags     books
// @Produce  json
// @Param    id   path      string  true  "Book ID"
// @Success  200  {object}  MessageResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  500  {object}  MessageResponse
// @Router   /api/v1/books/{id} [delete]
func (bc *BooksController) DeleteBook(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	existing, err := bc.store.GetBook(ctx, id)
	if err != nil {
		respondInternalError(c, err, "get book for delete")
		return
	}
	if existing == nil {
		respondNotFound(c, "Book")
		return
	}

	deleted, err := bc.store.DeleteBook(ctx, id)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if deleted == nil {
		respondMessage(c, http.StatusInternalServerError, "Book deletion failed")
		return
	}

	respondMessage(c, http.StatusOK, "Book deleted successfully")
}

// bookUpdateFrom maps the present keys of a validated PUT body onto an update.
func bookUpdateFrom(payload map[string]any) books.BookUpdate {
	var upd books.BookUpdate
	if v, ok := payload["title"].(string); ok {
		upd.Title = &v
	}
	if v, ok := payload["author"].(string); ok {
		upd.Author = &v
	}
	if n, ok := validation.ToInt(payload["publishedYear"]); ok {
		upd.PublishedYear = &n
	}
	if n, ok := validation.ToInt(payload["stock"]); ok {
		upd.Stock = &n
	}
	if v, ok := payload["genres"]; ok && v != nil {
		upd.Genres = validation.ToStrings(v)
	}
	return upd
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

// swaggerBookInput documents the request body accepted by create and update.
type swaggerBookInput struct {
	Title         string   `json:"title" example:"The Great Gatsby"`
	Author        string   `json:"author" example:"F. Scott Fitzgerald"`
	PublishedYear int      `json:"publishedYear" example:"1925"`
	Genres        []string `json:"genres" example:"Fiction,Classic"`
	Stock         int      `json:"stock" example:"10"`
}
