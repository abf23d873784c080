package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"

	"reservas/internal/adapters/api"
	"reservas/internal/adapters/http/middleware"
	"reservas/internal/application/session"
	"reservas/internal/domain/auth"
)

func TestMain(m *testing.M) {
	// Handlers resolve templates relative to the repo root; in-package tests
	// run from this directory.
	templatesDir = "templates"
	os.Exit(m.Run())
}

// memorySlot is an in-memory credential slot for handler tests.
type memorySlot struct {
	credential string
}

func (s *memorySlot) Load(ctx context.Context) (string, error) { return s.credential, nil }
func (s *memorySlot) Save(ctx context.Context, credential string) error {
	s.credential = credential
	return nil
}
func (s *memorySlot) Clear(ctx context.Context) error {
	s.credential = ""
	return nil
}

// profesorCredential is an unsigned token for profe@example.com with
// ROLE_PROFESOR (header {"alg":"none","typ":"JWT"}).
const profesorCredential = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
	"eyJzdWIiOiJwcm9mZUBleGFtcGxlLmNvbSIsInJvbGVzIjoiUk9MRV9QUk9GRVNPUiJ9"

// newTestDeps wires the package-level deps against a fake remote API and
// returns the session store for per-test login state.
func newTestDeps(t *testing.T, backend http.Handler) *session.Store {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	sess := session.New(&memorySlot{})
	client := api.New(srv.URL, sess)
	client.SetUnauthorizedHook(func() { sess.Logout(context.Background()) })

	deps = &Deps{Session: sess, API: client}
	return sess
}

// profesorClaims and adminClaims are ready-made context identities.
func profesorClaims() auth.Claims {
	return auth.Claims{Identity: "profe@example.com", Roles: mapset.NewSet(auth.RoleProfesor)}
}

func adminClaims() auth.Claims {
	return auth.Claims{Identity: "admin@example.com", Roles: mapset.NewSet(auth.RoleAdmin)}
}

// requestAs builds a request carrying the given claims, as the Auth middleware
// would after a login.
func requestAs(method, target string, claims auth.Claims) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

// jsonHandler answers every request with the given value.
func jsonHandler(v any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(v)
	})
}

// fakeAPI routes fake remote endpoints by exact path.
type fakeAPI map[string]http.Handler

func (f fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := f[r.URL.Path]; ok {
		h.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}
