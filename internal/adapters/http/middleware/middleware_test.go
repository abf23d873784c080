package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"reservas/internal/adapters/http/middleware"
	"reservas/internal/application/session"
	"reservas/internal/domain/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestRateLimiter_Allow tests the token bucket.
func TestRateLimiter_Allow(t *testing.T) {
	rl := middleware.NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d denied within the limit", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit was allowed")
	}

	// Other IPs have their own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("fresh IP denied")
	}
}

// TestRateLimit_Middleware tests the 429 response once the bucket drains.
func TestRateLimit_Middleware(t *testing.T) {
	handler := middleware.RateLimit(middleware.NewRateLimiter(1, time.Hour))(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status=%d, want 429", rec.Code)
	}
}

// TestSecurityHeaders tests the OWASP header set.
func TestSecurityHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy missing")
	}
}

// unsignedCredential carries sub admin@example.com with ROLE_ADMIN.
const unsignedCredential = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
	"eyJzdWIiOiJhZG1pbkBleGFtcGxlLmNvbSIsInJvbGVzIjoiUk9MRV9BRE1JTiJ9"

type memorySlot struct{ credential string }

func (s *memorySlot) Load(ctx context.Context) (string, error) { return s.credential, nil }
func (s *memorySlot) Save(ctx context.Context, c string) error {
	s.credential = c
	return nil
}
func (s *memorySlot) Clear(ctx context.Context) error {
	s.credential = ""
	return nil
}

// TestAuth_CopiesSessionClaims tests that the session's claims reach the
// request context.
func TestAuth_CopiesSessionClaims(t *testing.T) {
	sess := session.New(&memorySlot{})
	if _, err := sess.Login(context.Background(), unsignedCredential); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	var got auth.Claims
	var ok bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = middleware.ClaimsFromContext(r.Context())
	})
	middleware.Auth(sess)(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if !ok {
		t.Fatal("claims missing from request context")
	}
	if got.Identity != "admin@example.com" || !got.HasRole(auth.RoleAdmin) {
		t.Errorf("claims = %+v", got)
	}
}

// TestRequireAuth tests the redirect for anonymous requests.
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/classrooms", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("anonymous request status=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}

	req := httptest.NewRequest("GET", "/classrooms", nil)
	req = req.WithContext(middleware.ContextWithClaims(req.Context(), auth.Claims{
		Identity: "profe@example.com",
		Roles:    mapset.NewSet(auth.RoleProfesor),
	}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated request status=%d, want 200", rec.Code)
	}
}

// TestRequireAdmin tests the role gate.
func TestRequireAdmin(t *testing.T) {
	handler := middleware.RequireAdmin(okHandler())

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{name: "anonymous redirects", claims: nil, wantStatus: http.StatusSeeOther},
		{
			name:       "profesor forbidden",
			claims:     &auth.Claims{Identity: "p@e.c", Roles: mapset.NewSet(auth.RoleProfesor)},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin passes",
			claims:     &auth.Claims{Identity: "a@e.c", Roles: mapset.NewSet(auth.RoleAdmin)},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/classrooms/delete", nil)
			if tt.claims != nil {
				req = req.WithContext(middleware.ContextWithClaims(req.Context(), *tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status=%d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
