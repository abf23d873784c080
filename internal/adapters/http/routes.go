package web

import (
	"net/http"

	"reservas/internal/adapters/http/middleware"
)

// registerRoutes binds every screen to the mux. Admin gating here mirrors the
// affordance gating in the templates; the remote API re-enforces both.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/register", handleRegister)
	mux.Handle("/change-password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))

	mux.Handle("/classrooms", middleware.RequireAuth(http.HandlerFunc(handleClassrooms)))
	mux.Handle("/classrooms/delete", middleware.RequireAdmin(http.HandlerFunc(handleClassroomDelete)))

	mux.Handle("/time-slots", middleware.RequireAuth(http.HandlerFunc(handleTimeSlots)))
	mux.Handle("/time-slots/delete", middleware.RequireAdmin(http.HandlerFunc(handleTimeSlotDelete)))

	mux.Handle("/reservations", middleware.RequireAuth(http.HandlerFunc(handleReservations)))
	mux.Handle("/reservations/delete", middleware.RequireAuth(http.HandlerFunc(handleReservationDelete)))

	mux.Handle("/", middleware.RequireAuth(http.HandlerFunc(handleHome)))
}
