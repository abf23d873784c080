package web

import (
	"net/http"
	"strconv"

	"reservas/internal/adapters/http/middleware"
	"reservas/internal/application/listutil"
	"reservas/internal/domain/auth"
	"reservas/internal/domain/classroom"
)

// requireAdmin blocks non-admin mutations and returns the caller's claims.
func requireAdmin(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return auth.Claims{}, false
	}
	if !claims.HasRole(auth.RoleAdmin) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return auth.Claims{}, false
	}
	return claims, true
}

// classroomsData assembles the render data for the classrooms screen from a
// fresh list snapshot, applying the client-side name search.
func classroomsData(r *http.Request) (map[string]any, error) {
	classrooms, err := deps.API.Classrooms.List(r.Context())
	if err != nil {
		return nil, err
	}

	fp := listutil.ParseFilterParams(r.URL.Query(), nil)
	filtered := listutil.Filter(classrooms, func(c classroom.Classroom) bool {
		return listutil.MatchesSearch(c.Name, fp.Search)
	})

	data := map[string]any{
		"Classrooms": filtered,
		"Search":     fp.Search,
	}

	// Read-for-edit: load the chosen classroom into the form.
	if editID := r.URL.Query().Get("edit"); editID != "" && middleware.IsAdmin(r.Context()) {
		id, err := strconv.ParseInt(editID, 10, 64)
		if err == nil {
			edited, err := deps.API.Classrooms.Get(r.Context(), id)
			if err != nil {
				return nil, err
			}
			data["Editing"] = edited
		}
	}
	return data, nil
}

// handleClassrooms handles GET (list + form) and POST (create/update) for /classrooms.
func handleClassrooms(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		data, err := classroomsData(r)
		if err != nil {
			if remoteFail(w, r, err) {
				return
			}
			msg, _ := displayError(err)
			renderTemplate(w, r, "classrooms.html", map[string]any{"LoadError": msg})
			return
		}
		renderTemplate(w, r, "classrooms.html", data)
		return
	}

	if r.Method == "POST" {
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		capacity, _ := strconv.Atoi(r.FormValue("Capacity"))
		draft := classroom.Classroom{
			Name:         r.FormValue("Name"),
			Capacity:     capacity,
			HasComputers: r.FormValue("HasComputers") == "on",
		}

		rerender := func(errMsg, details string) {
			data, loadErr := classroomsData(r)
			if loadErr != nil {
				data = map[string]any{"Search": ""}
			}
			data["Error"] = errMsg
			data["ErrorDetails"] = details
			data["Form"] = draft
			renderTemplate(w, r, "classrooms.html", data)
		}

		if err := draft.Validate(); err != nil {
			rerender(err.Error(), "")
			return
		}

		var err error
		if idValue := r.FormValue("ID"); idValue != "" {
			var id int64
			if id, err = strconv.ParseInt(idValue, 10, 64); err != nil {
				http.Error(w, "Invalid id", http.StatusBadRequest)
				return
			}
			_, err = deps.API.Classrooms.Update(r.Context(), id, draft)
		} else {
			_, err = deps.API.Classrooms.Create(r.Context(), draft)
		}
		if err != nil {
			if remoteFail(w, r, err) {
				return
			}
			msg, details := displayError(err)
			rerender(msg, details)
			return
		}

		// Re-fetch the authoritative list rather than patching the snapshot.
		http.Redirect(w, r, "/classrooms", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleClassroomDelete handles POST /classrooms/delete. Failures surface as a
// screen-level banner; the rest of the screen stays usable.
func handleClassroomDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(r.FormValue("ID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := deps.API.Classrooms.Delete(r.Context(), id); err != nil {
		if remoteFail(w, r, err) {
			return
		}
		msg, _ := displayError(err)
		data, loadErr := classroomsData(r)
		if loadErr != nil {
			data = map[string]any{"Search": ""}
		}
		data["DeleteError"] = msg
		renderTemplate(w, r, "classrooms.html", data)
		return
	}

	http.Redirect(w, r, "/classrooms", http.StatusSeeOther)
}
