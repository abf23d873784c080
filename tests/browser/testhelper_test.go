package browser_test

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"reservas/internal/adapters/api"
	web "reservas/internal/adapters/http"
	"reservas/internal/adapters/http/middleware"
	"reservas/internal/adapters/storage"
	credentialStore "reservas/internal/adapters/storage/credential"
	"reservas/internal/application/session"
)

// fakeBackend is an in-memory stand-in for the remote reservations API. It
// speaks the wire formats (HH:MM:SS times, DD/MM/YYYY dates) and issues
// unsigned header.payload credentials.
type fakeBackend struct {
	mu           sync.Mutex
	accounts     map[string]string // email -> roles
	classrooms   map[int64]map[string]any
	timeSlots    map[int64]map[string]any
	reservations map[int64]map[string]any
	nextID       int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		accounts:     map[string]string{"admin@test.com": "ROLE_ADMIN", "profe@test.com": "ROLE_PROFESOR"},
		classrooms:   make(map[int64]map[string]any),
		timeSlots:    make(map[int64]map[string]any),
		reservations: make(map[int64]map[string]any),
	}
}

func (b *fakeBackend) credentialFor(email string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]string{"sub": email, "roles": b.accounts[email]})
	return header + "." + base64.RawURLEncoding.EncodeToString(payload)
}

func (b *fakeBackend) collection(path string) map[int64]map[string]any {
	switch {
	case strings.HasPrefix(path, "/classrooms"):
		return b.classrooms
	case strings.HasPrefix(path, "/time-slots"):
		return b.timeSlots
	case strings.HasPrefix(path, "/reservations"):
		return b.reservations
	}
	return nil
}

func (b *fakeBackend) ownerFromRequest(r *http.Request) string {
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	segments := strings.Split(bearer, ".")
	if len(segments) < 2 {
		return ""
	}
	raw, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return ""
	}
	var payload map[string]any
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	sub, _ := payload["sub"].(string)
	return sub
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.URL.Path == "/auth/login" && r.Method == "POST" {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if _, ok := b.accounts[req.Email]; !ok || req.Password != "TestPass123!" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Credenciales incorrectas"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"credential": b.credentialFor(req.Email)})
		return
	}

	col := b.collection(r.URL.Path)
	if col == nil {
		http.NotFound(w, r)
		return
	}

	// /collection/{id} operations
	if idx := strings.LastIndex(r.URL.Path, "/"); idx > 0 {
		id, err := strconv.ParseInt(r.URL.Path[idx+1:], 10, 64)
		if err == nil {
			entity, ok := col[id]
			if !ok {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case "GET":
				json.NewEncoder(w).Encode(entity)
			case "PUT":
				var updated map[string]any
				json.NewDecoder(r.Body).Decode(&updated)
				updated["id"] = id
				if owner, ok := entity["ownerIdentity"]; ok {
					updated["ownerIdentity"] = owner
				}
				col[id] = updated
				json.NewEncoder(w).Encode(updated)
			case "DELETE":
				delete(col, id)
				w.WriteHeader(http.StatusNoContent)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
			return
		}
	}

	switch r.Method {
	case "GET":
		list := make([]map[string]any, 0, len(col))
		for id := int64(1); id <= b.nextID; id++ {
			if entity, ok := col[id]; ok {
				list = append(list, entity)
			}
		}
		json.NewEncoder(w).Encode(list)
	case "POST":
		var entity map[string]any
		json.NewDecoder(r.Body).Decode(&entity)
		b.nextID++
		entity["id"] = b.nextID
		if strings.HasPrefix(r.URL.Path, "/reservations") {
			entity["ownerIdentity"] = b.ownerFromRequest(r)
		}
		col[b.nextID] = entity
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entity)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// seedClassroom adds a classroom directly to the backend, bypassing the UI.
func (b *fakeBackend) seedClassroom(name string, capacity int) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.classrooms[b.nextID] = map[string]any{
		"id": b.nextID, "name": name, "capacity": capacity, "hasComputers": false,
	}
	return b.nextID
}

// seedTimeSlot adds a slot directly to the backend in wire format.
func (b *fakeBackend) seedTimeSlot(weekday, start, end string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.timeSlots[b.nextID] = map[string]any{
		"id": b.nextID, "weekday": weekday, "startTime": start + ":00", "endTime": end + ":00",
	}
	return b.nextID
}

// testApp holds the running client server, its fake backend and Playwright.
type testApp struct {
	BaseURL string
	Backend *fakeBackend
	Session *session.Store
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp starts the fake remote API, wires the client against it with a
// temp SQLite credential slot, and launches a headless browser.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	backend := newFakeBackend()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	sess := session.New(credentialStore.NewSQLiteStore(db))
	client := api.New(backendSrv.URL, sess)
	client.SetUnauthorizedHook(func() { sess.Logout(context.Background()) })

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	mux := web.NewMux("static", &web.Deps{Session: sess, API: client})
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Backend: backend,
		Session: sess,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in through the login screen as the given account.
func (a *testApp) login(t *testing.T, page playwright.Page, email string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill("TestPass123!"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect home: %v", err)
	}
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
