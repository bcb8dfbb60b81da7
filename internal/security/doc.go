// Package security provides the request-hardening middleware applied to
// every route: per-IP rate limiting, response security headers, HTML
// sanitizing of request input, and the CORS and gzip transport wrapper.
//
// Gin middleware:
//
//	engine.Use(security.HeadersMiddleware())
//	engine.Use(limiter.Middleware())
//	engine.Use(security.SanitizeMiddleware())
//
// net/http wrapper around the engine:
//
//	handler := security.WrapHandler(engine, security.TransportConfig{AllowedOrigins: []string{"*"}})
package security
