package web

import (
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"reservas/internal/adapters/http/middleware"
	"reservas/internal/application/composer"
	"reservas/internal/application/listutil"
	"reservas/internal/domain/classroom"
	"reservas/internal/domain/reservation"
	"reservas/internal/domain/timeslot"
)

// reservationRow pairs a reservation with the affordances the current session
// gets on it: only the owner or an administrator may edit or delete.
type reservationRow struct {
	reservation.Reservation
	CanModify bool
}

// reservationLists is the three snapshots the reservation screen composes.
type reservationLists struct {
	Reservations []reservation.Reservation
	Classrooms   []classroom.Classroom
	Slots        []timeslot.TimeSlot
}

// loadReservationLists fans out the three independent list calls and waits for
// all of them. A failure in any one cancels the rest and surfaces as a single
// aggregate error; the request context also stops late results from being
// delivered to an abandoned screen.
func loadReservationLists(r *http.Request) (reservationLists, error) {
	var lists reservationLists
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		lists.Reservations, err = deps.API.Reservations.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		lists.Classrooms, err = deps.API.Classrooms.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		lists.Slots, err = deps.API.TimeSlots.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return reservationLists{}, err
	}
	return lists, nil
}

// reservationsData assembles render data for the reservations screen around a
// given form state.
func reservationsData(r *http.Request, lists reservationLists, form composer.Form) map[string]any {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	fp := listutil.ParseFilterParams(r.URL.Query(), []string{"classroom"})
	classroomFilter := fp.Filters["classroom"]
	visible := listutil.Filter(lists.Reservations, func(res reservation.Reservation) bool {
		return classroomFilter == "" || strconv.FormatInt(res.ClassroomID, 10) == classroomFilter
	})

	rows := make([]reservationRow, 0, len(visible))
	for _, res := range visible {
		rows = append(rows, reservationRow{
			Reservation: res,
			CanModify:   isAdmin || res.OwnedBy(claims.Identity),
		})
	}

	visibleSlots := form.VisibleSlots(lists.Slots)
	return map[string]any{
		"Reservations":    rows,
		"Classrooms":      lists.Classrooms,
		"VisibleSlots":    visibleSlots,
		"Form":            &form,
		"ClassroomFilter": classroomFilter,
		// A chosen date with no matching slots must read as "no availability",
		// never as a selectable empty list.
		"NoAvailability": form.Date != "" && len(visibleSlots) == 0,
	}
}

// reservationFormFromQuery rebuilds the in-progress form carried through the
// date-refresh round trip. SetDate runs last: a changed date always drops the
// previously chosen slot.
func reservationFormFromQuery(r *http.Request) composer.Form {
	form := composer.Form{
		ReservationID: r.URL.Query().Get("reservationId"),
		ClassroomID:   r.URL.Query().Get("classroomId"),
		AttendeeCount: r.URL.Query().Get("attendeeCount"),
		Reason:        r.URL.Query().Get("reason"),
	}
	form.SetDate(r.URL.Query().Get("date"))
	return form
}

// handleReservations handles GET (list + form) and POST (create/update) for
// /reservations.
func handleReservations(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		lists, err := loadReservationLists(r)
		if err != nil {
			if remoteFail(w, r, err) {
				return
			}
			msg, _ := displayError(err)
			renderTemplate(w, r, "reservations.html", map[string]any{"LoadError": msg, "Form": &composer.Form{}})
			return
		}

		var form composer.Form
		if editID := r.URL.Query().Get("edit"); editID != "" {
			// Read-for-edit: the gateway hands back the ISO date and HH:MM times.
			id, parseErr := strconv.ParseInt(editID, 10, 64)
			if parseErr == nil {
				edited, err := deps.API.Reservations.Get(r.Context(), id)
				if err != nil {
					if remoteFail(w, r, err) {
						return
					}
					msg, _ := displayError(err)
					renderTemplate(w, r, "reservations.html", map[string]any{"LoadError": msg, "Form": &composer.Form{}})
					return
				}
				form = composer.FromReservation(edited)
			}
		} else {
			form = reservationFormFromQuery(r)
		}

		renderTemplate(w, r, "reservations.html", reservationsData(r, lists, form))
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		lists, err := loadReservationLists(r)
		if err != nil {
			if remoteFail(w, r, err) {
				return
			}
			msg, _ := displayError(err)
			renderTemplate(w, r, "reservations.html", map[string]any{"LoadError": msg, "Form": &composer.Form{}})
			return
		}

		form := composer.Form{
			ReservationID: r.FormValue("ReservationID"),
			ClassroomID:   r.FormValue("ClassroomID"),
			AttendeeCount: r.FormValue("AttendeeCount"),
			Reason:        r.FormValue("Reason"),
		}
		form.SetDate(r.FormValue("Date"))

		rerender := func(errMsg, details string) {
			data := reservationsData(r, lists, form)
			data["Error"] = errMsg
			data["ErrorDetails"] = details
			renderTemplate(w, r, "reservations.html", data)
		}

		// The slot must come from the visible set for the submitted date.
		if err := form.SetTimeSlot(r.FormValue("TimeSlotID"), lists.Slots); err != nil {
			rerender(err.Error(), "")
			return
		}
		if err := form.Validate(); err != nil {
			rerender(err.Error(), "")
			return
		}

		draft, err := form.Reservation()
		if err != nil {
			rerender(err.Error(), "")
			return
		}

		if form.IsEdit() {
			id, parseErr := strconv.ParseInt(form.ReservationID, 10, 64)
			if parseErr != nil {
				http.Error(w, "Invalid id", http.StatusBadRequest)
				return
			}
			_, err = deps.API.Reservations.Update(r.Context(), id, draft)
		} else {
			_, err = deps.API.Reservations.Create(r.Context(), draft)
		}
		if err != nil {
			if remoteFail(w, r, err) {
				return
			}
			// Keep the form intact so the user can correct and resubmit.
			msg, details := displayError(err)
			rerender(msg, details)
			return
		}

		// Success clears the form and re-fetches the authoritative list.
		http.Redirect(w, r, "/reservations", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleReservationDelete handles POST /reservations/delete. The affordance is
// shown only to the owner or an administrator; the server re-checks.
func handleReservationDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := deps.API.Reservations.Delete(r.Context(), id); err != nil {
		if remoteFail(w, r, err) {
			return
		}
		msg, _ := displayError(err)
		lists, loadErr := loadReservationLists(r)
		if loadErr != nil {
			renderTemplate(w, r, "reservations.html", map[string]any{"DeleteError": msg, "Form": &composer.Form{}})
			return
		}
		data := reservationsData(r, lists, composer.Form{})
		data["DeleteError"] = msg
		renderTemplate(w, r, "reservations.html", data)
		return
	}

	http.Redirect(w, r, "/reservations", http.StatusSeeOther)
}
