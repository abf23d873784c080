// Package web serves the client's screens: thin HTML views over the remote
// reservations API. Screens hold no entity state beyond the snapshot rendered
// into the current response; every navigation re-fetches through the gateways.
package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"reservas/internal/adapters/api"
	"reservas/internal/adapters/http/middleware"
	"reservas/internal/application/session"
)

// Deps holds the screens' dependencies: the process-wide session store and the
// remote API client.
type Deps struct {
	Session *session.Store
	API     *api.Client
}

// Global deps instance (set by NewMux)
var deps *Deps

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadCSRFKey reads the CSRF secret from RESERVAS_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("RESERVAS_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("RESERVAS_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("RESERVAS_ENV") == "production" {
		log.Fatal("RESERVAS_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (form tokens won't survive restart). Set RESERVAS_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the client.
func NewMux(staticDir string, d *Deps) http.Handler {
	deps = d

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(d.Session),
		middleware.RateLimit(limiter),
		middleware.Timing,
	)
}
