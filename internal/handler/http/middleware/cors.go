// Package middleware provides HTTP middleware for cross-cutting concerns
// such as CORS handling.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"newshub/pkg/config"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of permitted origins.
	// Example: ["http://localhost:5173", "https://example.com"]
	AllowedOrigins []string

	// AllowedMethods specifies which HTTP methods are allowed in CORS requests.
	AllowedMethods []string

	// AllowedHeaders specifies which request headers are allowed in CORS requests.
	AllowedHeaders []string

	// AllowCredentials indicates whether credentials (cookies, authorization
	// headers) are supported. Must be true for Bearer token authentication.
	AllowCredentials bool

	// MaxAge specifies how long preflight results can be cached, in seconds.
	MaxAge int

	// Logger records policy violations and preflight handling.
	Logger *slog.Logger
}

// LoadCORSConfig builds a CORSConfig from environment variables.
// CORS_ALLOWED_ORIGINS is a comma-separated origin whitelist; the default
// covers local frontend development servers.
func LoadCORSConfig(logger *slog.Logger) CORSConfig {
	return CORSConfig{
		AllowedOrigins: config.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:5174",
		}),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID", "X-Mock-Email"},
		AllowCredentials: true,
		MaxAge:           config.GetEnvInt("CORS_MAX_AGE", 86400),
		Logger:           logger,
	}
}

// CORS returns an HTTP middleware that handles CORS for cross-origin requests.
//
// Behavior:
//   - If the Origin header is empty, skip CORS processing (same-origin request)
//   - If the Origin is not allowed, log a warning and continue without CORS headers
//   - If the Origin is allowed and the request is OPTIONS (preflight), set the
//     preflight headers and return 204 without calling the next handler
//   - Otherwise set the CORS headers and pass the request through
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !originAllowed(cfg.AllowedOrigins, origin) {
				if cfg.Logger != nil {
					cfg.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("remote_addr", r.RemoteAddr))
				}
				// No CORS headers for disallowed origins; the browser
				// blocks the response.
				next.ServeHTTP(w, r)
				return
			}

			// Echo back the request origin (required for credentials).
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
