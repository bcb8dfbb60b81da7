package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/genres"
	http_controllers "github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/security"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs handler until SIGINT or SIGTERM, then shuts down within the
// configured timeout.
func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Stop background work after the server has drained in-flight requests
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// Run wires the catalog, task queue, scheduler and HTTP stack, then serves.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Book Catalog v%s", version)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	genreRepo := genres.NewRepository(db.DB)

	routerCfg := http_controllers.RouterConfig{
		BookStore:       bookRepo,
		GenreStore:      genreRepo,
		Database:        db,
		NormalizeGenres: cfg.Books.NormalizeGenres,
		Version:         version,
	}

	// Cleanup runs inline unless the task queue is enabled
	var cleanupEnqueuer scheduler.Enqueuer = scheduler.InlineCleanup{Cleaner: genreRepo}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.TasksDatabasePath(), tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupOrphanGenresQueue(genreRepo))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		cleanupEnqueuer = taskClient
		routerCfg.GenreCleanup = taskClient
		routerCfg.TaskStatus = taskClient
	}

	var cleanupScheduler *scheduler.GenreCleanupScheduler
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if cfg.GenreCleanup.Enabled {
		cleanupScheduler = scheduler.NewGenreCleanupScheduler(cleanupEnqueuer, cfg.GenreCleanup.Schedule)
		if err := cleanupScheduler.Start(schedulerCtx); err != nil {
			log.Printf("WARNING: Failed to start genre cleanup scheduler: %v", err)
			cleanupScheduler = nil
		}
	} else {
		log.Printf("Genre cleanup scheduler: disabled")
	}

	var limiter *security.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = security.NewRateLimiter(security.RateLimitConfig{
			MaxRequests:    cfg.RateLimit.MaxRequests,
			WindowDuration: cfg.RateLimit.Window,
		})
		routerCfg.RateLimiter = limiter
	}

	router := http_controllers.NewRouter(routerCfg)
	handler := security.WrapHandler(router, security.TransportConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	Serve(handler, cfg, func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if limiter != nil {
			limiter.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	})
}
