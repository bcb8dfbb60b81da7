package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/bookcatalog/internal/validation"
)

type (
	Config struct {
		HTTP
		Global
		Database
		RateLimit
		CORS
		Books
		Tasks
		GenreCleanup
	}

	HTTP struct {
		Port int32  `mapstructure:"port" validate:"gte=1,lte=65535"`
		Host string `mapstructure:"host"`
	}

	Global struct {
		ShutdownTimeoutInSeconds int `mapstructure:"shutdown_timeout_in_seconds" validate:"gte=0"`
	}

	Database struct {
		Driver          string        `mapstructure:"database_driver" validate:"oneof=sqlite mysql"`
		Path            string        `mapstructure:"database_path"` // sqlite file
		DSN             string        `mapstructure:"database_dsn"`  // mysql DSN
		MaxOpenConns    int           `mapstructure:"database_max_open_conns" validate:"gte=0"`
		MaxIdleConns    int           `mapstructure:"database_max_idle_conns" validate:"gte=0"`
		ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
		LogSQL          bool          `mapstructure:"database_log_sql"`
	}

	RateLimit struct {
		Enabled     bool          `mapstructure:"rate_limit_enabled"`
		MaxRequests int           `mapstructure:"rate_limit_max_requests" validate:"gte=1"`
		Window      time.Duration `mapstructure:"rate_limit_window" validate:"gt=0"`
	}

	CORS struct {
		AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	}

	Books struct {
		// NormalizeGenres makes GET /books/:id return genre names like every other endpoint.
		NormalizeGenres bool `mapstructure:"books_normalize_genres"`
	}

	Tasks struct {
		Enabled         bool          `mapstructure:"tasks_enabled"`
		DatabasePath    string        `mapstructure:"tasks_database_path"`
		Workers         int           `mapstructure:"task_workers" validate:"gte=1"`
		ReleaseAfter    time.Duration `mapstructure:"task_release_after"`
		CleanupInterval time.Duration `mapstructure:"task_cleanup_interval"`
	}

	GenreCleanup struct {
		Enabled  bool   `mapstructure:"genre_cleanup_enabled"`
		Schedule string `mapstructure:"genre_cleanup_schedule"` // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", DefaultDatabaseDriver)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_max_open_conns", 10)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", "1h")
	v.SetDefault("database_log_sql", false)

	// 100 requests per IP per 15 minutes
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_max_requests", 100)
	v.SetDefault("rate_limit_window", "15m")

	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("books_normalize_genres", false)

	v.SetDefault("tasks_enabled", false)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("genre_cleanup_enabled", false)
	v.SetDefault("genre_cleanup_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Path:            v.GetString("DATABASE_PATH"),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			LogSQL:          v.GetBool("DATABASE_LOG_SQL"),
		},
		RateLimit: RateLimit{
			Enabled:     v.GetBool("RATE_LIMIT_ENABLED"),
			MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
			Window:      v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Books: Books{
			NormalizeGenres: v.GetBool("BOOKS_NORMALIZE_GENRES"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		GenreCleanup: GenreCleanup{
			Enabled:  v.GetBool("GENRE_CLEANUP_ENABLED"),
			Schedule: v.GetString("GENRE_CLEANUP_SCHEDULE"),
		},
	}
}

// Validate checks the loaded values and reports every invalid setting at once.
func (c *Config) Validate() error {
	errs := validation.Struct(c)
	if c.Database.Driver == "mysql" && c.Database.DSN == "" {
		errs = append(errs, validation.FieldError{Field: "database_dsn", Message: "is required for the mysql driver"})
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		errs = append(errs, validation.FieldError{Field: "database_path", Message: "is required for the sqlite driver"})
	}
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Field+" "+e.Message)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// TasksDatabasePath returns the task queue database path. Unless configured
// explicitly it sits next to the sqlite catalog with a "-tasks" suffix.
func (c *Config) TasksDatabasePath() string {
	if c.Tasks.DatabasePath != "" {
		return c.Tasks.DatabasePath
	}
	base := c.Database.Path
	if c.Database.Driver != "sqlite" || base == "" {
		base = DefaultDatabasePath
	}
	dir := filepath.Dir(base)
	name := filepath.Base(base)
	ext := filepath.Ext(name)
	return filepath.Join(dir, name[:len(name)-len(ext)]+"-tasks"+ext)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
