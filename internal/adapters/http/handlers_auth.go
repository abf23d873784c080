package web

import (
	"net/http"

	"reservas/internal/domain/auth"
)

// handleLogin handles GET (form) and POST (authenticate) for /login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if deps.Session.IsAuthenticated() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		data := map[string]any{}
		if r.URL.Query().Get("registered") == "1" {
			data["Notice"] = "Cuenta creada. Ya puedes iniciar sesión."
		}
		renderTemplate(w, r, "login.html", data)
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		email := r.FormValue("Email")
		password := r.FormValue("Password")

		credential, err := deps.API.Auth.Login(r.Context(), email, password)
		if err != nil {
			msg, _ := displayError(err)
			renderTemplate(w, r, "login.html", map[string]any{
				"Error": msg,
				"Email": email,
			})
			return
		}

		// An undecodable credential is never surfaced as such: the user just
		// isn't logged in.
		if _, err := deps.Session.Login(r.Context(), credential); err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"Error": "No se pudo iniciar sesión. Inténtalo de nuevo.",
				"Email": email,
			})
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := deps.Session.Logout(r.Context()); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegister handles GET (form) and POST (create account) for /register.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "register.html", map[string]any{})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		email := r.FormValue("Email")
		password := r.FormValue("Password")
		role := r.FormValue("Role")
		if role == "" {
			role = auth.RoleProfesor
		}

		if email == "" || password == "" {
			renderTemplate(w, r, "register.html", map[string]any{
				"Error": "Email y contraseña son obligatorios",
				"Email": email,
			})
			return
		}

		if err := deps.API.Auth.Register(r.Context(), email, password, role); err != nil {
			msg, details := displayError(err)
			renderTemplate(w, r, "register.html", map[string]any{
				"Error":        msg,
				"ErrorDetails": details,
				"Email":        email,
			})
			return
		}

		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleChangePassword handles GET (form) and POST (update) for /change-password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", map[string]any{})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}

		current := r.FormValue("CurrentPassword")
		newPass := r.FormValue("NewPassword")

		if newPass != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"Error": "Las contraseñas nuevas no coinciden",
			})
			return
		}

		if err := deps.API.Auth.ChangePassword(r.Context(), current, newPass); err != nil {
			if remoteFail(w, r, err) {
				return
			}
			msg, details := displayError(err)
			renderTemplate(w, r, "change_password.html", map[string]any{
				"Error":        msg,
				"ErrorDetails": details,
			})
			return
		}

		renderTemplate(w, r, "change_password.html", map[string]any{
			"Notice": "Contraseña actualizada",
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
