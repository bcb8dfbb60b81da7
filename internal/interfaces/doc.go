// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book CRUD, search and pagination (internal/http/books.go)
//   - GenreStore: Genre listing and orphan removal (internal/http/genres.go)
//   - Pinger: Store reachability for /health (internal/http/health.go)
//
// ## Cleanup Interfaces
//
//   - OrphanGenresCleaner: Deletes unreferenced genres (internal/tasks, internal/scheduler)
//   - Enqueuer / GenreCleanupEnqueuer: Hands a cleanup run to the task queue,
//     or runs it inline when the queue is disabled
//   - TaskStatusReader: Reports backlite task state (internal/http/tasks.go)
//
// # Adding a Store Backend
//
//  1. Implement BookStore and GenreStore on top of the new backend
//  2. Add a compile-time check to checks.go
//  3. Wire it in internal/entrypoint/entrypoint.go via http.RouterConfig
//
// All repository methods take a context.Context and report "not found" as
// a nil result with a nil error; controllers translate that to 404.
package interfaces
