package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"academy/internal/adapters/backend"
	web "academy/internal/adapters/http"
	"academy/internal/adapters/storage"
	sessionStore "academy/internal/adapters/storage/session"
	"academy/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level := slog.LevelInfo
	if !cfg.IsProduction() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Initialize the session database with WAL mode, foreign keys and a busy timeout
	dsn := cfg.SessionDBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	sessions := sessionStore.NewSQLiteStore(db)

	client := backend.New(cfg.BackendURL)
	// A 401 from the backend means the bearer token died server-side.
	// Drop every local session bound to it so the next request forces a
	// fresh login instead of retrying a dead token.
	client.OnUnauthenticated(func(ctx context.Context, token string) {
		if err := sessions.DeleteByBearerToken(ctx, token); err != nil {
			slog.Warn("session_cleanup_failed", "error", err.Error())
		}
	})

	mux := web.NewMux(cfg.StaticDir, client, sessions, cfg.IsProduction())

	slog.Info("server_starting",
		"version", version,
		"addr", cfg.Addr,
		"backend", cfg.BackendURL,
		"env", cfg.Environment,
	)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
