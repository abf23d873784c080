package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"reservas/internal/adapters/api"
	web "reservas/internal/adapters/http"
	"reservas/internal/adapters/storage"
	credentialStore "reservas/internal/adapters/storage/credential"
	"reservas/internal/application/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("RESERVAS_DB", "reservas.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	apiURL := envOrDefault("RESERVAS_API_URL", "http://localhost:8000")

	sess := session.New(credentialStore.NewSQLiteStore(db))
	client := api.New(apiURL, sess)

	// A 401 from the remote API ends the session for every screen at once.
	client.SetUnauthorizedHook(func() {
		sess.Logout(context.Background())
	})

	// Pick up a session persisted by a previous run.
	if claims, ok := sess.Restore(context.Background()); ok {
		log.Printf("Session restored for %s", claims.Identity)
	}

	deps := &web.Deps{Session: sess, API: client}
	mux := web.NewMux("static", deps)

	addr := envOrDefault("RESERVAS_ADDR", ":8080")
	log.Printf("Reservas %s starting on %s (api=%s, env=%s)", version, addr, apiURL, envOrDefault("RESERVAS_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
