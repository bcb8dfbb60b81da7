package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/genres"
	"github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// GenreStore implementations
var _ http.GenreStore = (*genres.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Orphan Genre Cleanup
// =============================================================================

// OrphanGenresCleaner implementations
var _ tasks.OrphanGenresCleaner = (*genres.Repository)(nil)
var _ scheduler.OrphanGenresCleaner = (*genres.Repository)(nil)

// Enqueuer implementations
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = scheduler.InlineCleanup{}
var _ http.GenreCleanupEnqueuer = (*tasks.Client)(nil)
var _ http.GenreCleanupEnqueuer = scheduler.InlineCleanup{}

// TaskStatusReader implementations
var _ http.TaskStatusReader = (*tasks.Client)(nil)
