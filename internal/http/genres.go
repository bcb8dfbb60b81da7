package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// GenreStore defines database operations for the genre catalog.
type GenreStore interface {
	List(ctx context.Context) ([]entities.GenreCount, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

// GenreCleanupEnqueuer hands orphan genre cleanup to the task queue.
type GenreCleanupEnqueuer interface {
	EnqueueGenreCleanup() (string, error)
}

type GenresController struct {
	store    GenreStore
	enqueuer GenreCleanupEnqueuer
}

// NewGenresController creates a GenresController. enqueuer may be nil, in
// which case cleanup runs within the request.
func NewGenresController(store GenreStore, enqueuer GenreCleanupEnqueuer) *GenresController {
	return &GenresController{store: store, enqueuer: enqueuer}
}

// ListGenres godoc
// @Summary  List genres with the number of linked books
// @Tags     genres
// @Produce  json
// @Success  200  {array}   entities.GenreCount
// @Failure  500  {object}  ErrorResponse
// @Router   /api/v1/genres [get]
func (gc *GenresController) ListGenres(c *gin.Context) {
	genres, err := gc.store.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// CleanupOrphanGenres godoc
// @Summary      Remove genres no book links to
// @Description  Enqueues a task (202) when the task queue is enabled, otherwise runs immediately (200).
// @Tags         genres
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Success      202  {object}  map[string]string
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/genres/cleanup [post]
func (gc *GenresController) CleanupOrphanGenres(c *gin.Context) {
	if gc.enqueuer == nil {
		deleted, err := gc.store.DeleteOrphans(c.Request.Context())
		if err != nil {
			respondInternalError(c, err, "cleanup orphan genres")
			return
		}
		log.Printf("Removed %d orphan genres", deleted)
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
		return
	}

	id, err := gc.enqueuer.EnqueueGenreCleanup()
	if err != nil {
		respondInternalError(c, err, "enqueue genre cleanup")
		return
	}

	respondAccepted(c, gin.H{"message": "Cleanup task started", "taskId": id})
}
