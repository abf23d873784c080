package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"reservas/internal/adapters/api"
	"reservas/internal/adapters/http/middleware"
	"reservas/internal/domain/auth"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// templatesDir is a variable so in-package tests can point it at the
// templates next to them.
var templatesDir = "internal/adapters/http/templates"

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// remoteFail handles the global authorization-failure path: a 401 from any
// gateway call means the session was already torn down by the client's
// unauthorized hook, so the only thing left is routing the user to the login
// screen. Returns true when the error was handled here.
func remoteFail(w http.ResponseWriter, r *http.Request, err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return true
	}
	return false
}

// displayError converts a gateway or form error into an inline message plus an
// optional details blob (populated when the backend flagged a business-rule
// validation failure).
func displayError(err error) (msg, details string) {
	var remote *api.RemoteError
	if errors.As(err, &remote) {
		if headline, det, ok := remote.ValidationDetail(); ok {
			return headline, det
		}
		return remote.DisplayMessage(), ""
	}
	return err.Error(), ""
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	claims, loggedIn := middleware.ClaimsFromContext(r.Context())

	funcMap := template.FuncMap{
		"isLoggedIn":      func() bool { return loggedIn },
		"currentIdentity": func() string { return claims.Identity },
		"isAdmin":         func() bool { return claims.HasRole(auth.RoleAdmin) },
		"hasRole":         func(role string) bool { return claims.HasRole(role) },
		"csrfToken":       func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleHome renders the landing screen with role-aware navigation.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderTemplate(w, r, "home.html", map[string]any{})
}
