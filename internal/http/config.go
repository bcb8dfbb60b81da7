package http

import (
	"github.com/mrlokans/bookcatalog/internal/security"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	BookStore  BookStore
	GenreStore GenreStore
	Database   Pinger

	// Task queue (optional). When nil, genre cleanup runs inline.
	GenreCleanup GenreCleanupEnqueuer
	TaskStatus   TaskStatusReader

	// Request hardening (optional). A nil limiter disables rate limiting.
	RateLimiter *security.RateLimiter

	// Response shaping
	NormalizeGenres bool

	// Application info
	Version string
}
