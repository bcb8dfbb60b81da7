package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mrlokans/bookcatalog/docs"
	"github.com/mrlokans/bookcatalog/internal/security"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(security.HeadersMiddleware())

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	// Strip markup from body, query and path values before validation sees them
	router.Use(security.SanitizeMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello World!"})
	})
	router.GET("/health", health.Status)

	// API documentation
	router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/api-docs/index.html")
	})
	router.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	if cfg.BookStore != nil {
		booksController := NewBooksController(cfg.BookStore, cfg.NormalizeGenres)
		booksAPI := v1.Group("/books")
		booksAPI.GET("", booksController.GetBooks)
		booksAPI.POST("", ValidateBody(validation.CreateBookRules, validation.CoerceBookPayload), booksController.CreateBook)
		booksAPI.GET("/:id", booksController.GetBook)
		booksAPI.PUT("/:id", ValidateBody(validation.UpdateBookRules, validation.CoerceBookPayload), booksController.UpdateBook)
		booksAPI.DELETE("/:id", booksController.DeleteBook)
	}

	if cfg.GenreStore != nil {
		genresController := NewGenresController(cfg.GenreStore, cfg.GenreCleanup)
		v1.GET("/genres", genresController.ListGenres)
		v1.POST("/genres/cleanup", genresController.CleanupOrphanGenres)
	}

	if cfg.TaskStatus != nil {
		tasksController := NewTasksController(cfg.TaskStatus)
		v1.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, StatusResponse{
			Success:    false,
			StatusCode: http.StatusNotFound,
			Message:    "API not found",
			Data:       nil,
		})
	})

	return router
}
