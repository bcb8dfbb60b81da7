package security

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
)

// TransportConfig configures the net/http layer wrapped around the router.
type TransportConfig struct {
	AllowedOrigins []string
}

// WrapHandler adds CORS handling and gzip response compression to h.
func WrapHandler(h http.Handler, cfg TransportConfig) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:         300,
	})

	return corsHandler(gzhttp.GzipHandler(h))
}
