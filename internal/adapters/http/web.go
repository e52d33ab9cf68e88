// Package web is the HTTP adapter: routing, middleware wiring and the
// role dashboards rendered from backend data.
package web

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"time"

	"academy/internal/adapters/backend"
	"academy/internal/adapters/http/middleware"
	"academy/internal/adapters/storage/session"
	"academy/internal/application/orchestrators"
)

// Package-level dependencies, set once by NewMux.
var (
	api      *backend.Client
	sessions session.Store

	// commentsGuard deduplicates best-effort mark-comments-read calls
	// across requests of the same session.
	commentsGuard = orchestrators.NewOnceGuard()
)

// RateLimitPerSecond is the per-IP request budget.
var RateLimitPerSecond = 10

// loadCSRFKey returns the 32-byte CSRF auth key. In production the key
// must come from ACADEMY_CSRF_KEY (hex); in development a random key is
// generated on boot, which invalidates tokens across restarts.
func loadCSRFKey(production bool) []byte {
	if v := os.Getenv("ACADEMY_CSRF_KEY"); v != "" {
		key, err := hex.DecodeString(v)
		if err == nil && len(key) == 32 {
			return key
		}
		slog.Error("csrf_key_invalid", "reason", "expected 64 hex chars")
		os.Exit(1)
	}
	if production {
		slog.Error("csrf_key_missing", "env", "ACADEMY_CSRF_KEY")
		os.Exit(1)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		slog.Error("csrf_key_generate_failed", "error", err.Error())
		os.Exit(1)
	}
	slog.Warn("csrf_key_generated", "note", "set ACADEMY_CSRF_KEY to persist sessions across restarts")
	return key
}

// NewMux builds the full handler chain.
// PRE: client and store are non-nil
// POST: All routes are registered behind security headers, CSRF
// protection, session resolution, rate limiting and timing
func NewMux(staticDir string, client *backend.Client, store session.Store, production bool) http.Handler {
	api = client
	sessions = store
	middleware.SecureCookies = production

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(loadCSRFKey(production)),
		middleware.Auth(store),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
