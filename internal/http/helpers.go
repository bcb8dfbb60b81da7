package http

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the error body returned by the book endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the envelope used by the 404 fallback and the rate limiter.
type StatusResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// ValidationErrorResponse lists every field that failed validation.
type ValidationErrorResponse struct {
	Success bool                    `json:"success"`
	Errors  []validation.FieldError `json:"errors"`
}

// PaginatedBooksResponse wraps a page of books with paging metadata.
type PaginatedBooksResponse struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	TotalBooks int64 `json:"totalBooks"`
	Books      any   `json:"books"`
}

// --- Error Response Helpers ---

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondValidationErrors aborts the chain with a 400 listing every failure.
func respondValidationErrors(c *gin.Context, errs []validation.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{Success: false, Errors: errs})
}

// --- Success Response Helpers ---

// respondMessage sends a status code with a message body.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, data)
}

// --- Parameter Parsing ---

// hasQuery reports whether the query parameter was sent with a non-empty value.
func hasQuery(c *gin.Context, name string) bool {
	return c.Query(name) != ""
}

// positiveQueryInt parses a query parameter as a positive integer.
// Missing, non-numeric, zero and negative values all yield 0.
func positiveQueryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// totalPages returns ceil(total/limit) without overflowing on large limits. Without a limit every match fits on
// one page, so the result is 1 when anything matched.
func totalPages(total int64, limit int) int {
	if limit <= 0 {
		if total > 0 {
			return 1
		}
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
