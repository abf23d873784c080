package web

import (
	"net/http"
	"strconv"

	"reservas/internal/adapters/http/middleware"
	"reservas/internal/application/listutil"
	"reservas/internal/domain/timeslot"
)

// timeSlotsData assembles the render data for the time-slots screen, applying
// the client-side weekday filter.
func timeSlotsData(r *http.Request) (map[string]any, error) {
	slots, err := deps.API.TimeSlots.List(r.Context())
	if err != nil {
		return nil, err
	}

	fp := listutil.ParseFilterParams(r.URL.Query(), []string{"weekday"})
	weekday := fp.Filters["weekday"]
	filtered := listutil.Filter(slots, func(ts timeslot.TimeSlot) bool {
		return weekday == "" || ts.Weekday == weekday
	})

	data := map[string]any{
		"Slots":    filtered,
		"Weekday":  weekday,
		"Weekdays": timeslot.ValidWeekdays,
	}

	if editID := r.URL.Query().Get("edit"); editID != "" && middleware.IsAdmin(r.Context()) {
		id, err := strconv.ParseInt(editID, 10, 64)
		if err == nil {
			// Read-for-edit: the gateway truncates wire times to HH:MM.
			edited, err := deps.API.TimeSlots.Get(r.Context(), id)
			if err != nil {
				return nil, err
			}
			data["Editing"] = edited
		}
	}
	return data, nil
}

// handleTimeSlots handles GET (list + form) and POST (create/update) for /time-slots.
func handleTimeSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		data, err := timeSlotsData(r)
		if err != nil {
			if remoteFail(w, r, err) {
				return
			}
			msg, _ := displayError(err)
			renderTemplate(w, r, "timeslots.html", map[string]any{"LoadError": msg, "Weekday": "", "Weekdays": timeslot.ValidWeekdays})
			return
		}
		renderTemplate(w, r, "timeslots.html", data)
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

		draft := timeslot.TimeSlot{
			Weekday:   r.FormValue("Weekday"),
			StartTime: r.FormValue("StartTime"),
			EndTime:   r.FormValue("EndTime"),
		}

		rerender := func(errMsg, details string) {
			data, loadErr := timeSlotsData(r)
			if loadErr != nil {
				data = map[string]any{"Weekday": "", "Weekdays": timeslot.ValidWeekdays}
			}
			data["Error"] = errMsg
			data["ErrorDetails"] = details
			data["Form"] = draft
			renderTemplate(w, r, "timeslots.html", data)
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
			_, err = deps.API.TimeSlots.Update(r.Context(), id, draft)
		} else {
			_, err = deps.API.TimeSlots.Create(r.Context(), draft)
		}
		if err != nil {
			if remoteFail(w, r, err) {
				return
			}
			msg, details := displayError(err)
			rerender(msg, details)
			return
		}

		http.Redirect(w, r, "/time-slots", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleTimeSlotDelete handles POST /time-slots/delete.
func handleTimeSlotDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := deps.API.TimeSlots.Delete(r.Context(), id); err != nil {
		if remoteFail(w, r, err) {
			return
		}
		msg, _ := displayError(err)
		data, loadErr := timeSlotsData(r)
		if loadErr != nil {
			data = map[string]any{"Weekday": "", "Weekdays": timeslot.ValidWeekdays}
		}
		data["DeleteError"] = msg
		renderTemplate(w, r, "timeslots.html", data)
		return
	}

	http.Redirect(w, r, "/time-slots", http.StatusSeeOther)
}
