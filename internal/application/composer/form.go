// Package composer holds the reservation form's state machine: three coupled
// fields (classroom, date, time slot) plus the derived set of slots visible for
// the chosen date.
package composer

import (
	"errors"
	"strconv"

	"reservas/internal/domain/reservation"
	"reservas/internal/domain/timeslot"
)

// Validation errors are surfaced inline on the form, so the messages are the
// user-facing text.
var (
	ErrIncomplete       = errors.New("Todos los campos obligatorios deben estar completos")
	ErrInvalidAttendees = errors.New("El número de asistentes debe ser al menos 1")
	ErrSlotUnavailable  = errors.New("El horario elegido no está disponible para la fecha seleccionada")
)

// Form is the in-progress reservation. Field values are kept as the raw form
// strings until Reservation() parses them for the gateway.
type Form struct {
	ReservationID string // empty for a new reservation
	ClassroomID   string
	Date          string // 2006-01-02
	TimeSlotID    string
	AttendeeCount string
	Reason        string
}

// FromReservation builds an edit form from a fetched reservation.
func FromReservation(r reservation.Reservation) Form {
	return Form{
		ReservationID: strconv.FormatInt(r.ID, 10),
		ClassroomID:   strconv.FormatInt(r.ClassroomID, 10),
		Date:          r.Date,
		TimeSlotID:    strconv.FormatInt(r.TimeSlotID, 10),
		AttendeeCount: strconv.Itoa(r.AttendeeCount),
		Reason:        r.Reason,
	}
}

// SetDate records a new date and unconditionally clears the chosen time slot —
// even when the previous slot would still match the new date's weekday. A
// submitted reservation must never silently reference a slot picked under a
// different date; re-selection has to come from the freshly computed visible
// set.
func (f *Form) SetDate(date string) {
	f.Date = date
	f.TimeSlotID = ""
}

// VisibleSlots derives the slots selectable for the form's current date. With
// no date chosen yet, every slot stays visible.
func (f *Form) VisibleSlots(all []timeslot.TimeSlot) []timeslot.TimeSlot {
	return timeslot.Compatible(f.Date, all)
}

// SetTimeSlot selects a slot, rejecting ids outside the currently visible set.
// PRE: all is the current time-slot snapshot
// POST: TimeSlotID is set only if id names a visible slot
func (f *Form) SetTimeSlot(id string, all []timeslot.TimeSlot) error {
	if id == "" {
		f.TimeSlotID = ""
		return nil
	}
	for _, slot := range f.VisibleSlots(all) {
		if strconv.FormatInt(slot.ID, 10) == id {
			f.TimeSlotID = id
			return nil
		}
	}
	return ErrSlotUnavailable
}

// Validate runs the local submit checks. Failing here means the gateway is
// never called.
// PRE: none
// POST: Returns nil only when every required field is present and valid
func (f *Form) Validate() error {
	if f.ClassroomID == "" || f.TimeSlotID == "" || f.Date == "" || f.AttendeeCount == "" {
		return ErrIncomplete
	}
	attendees, err := strconv.Atoi(f.AttendeeCount)
	if err != nil || attendees < 1 {
		return ErrInvalidAttendees
	}
	return nil
}

// Reservation parses the form into a gateway draft.
// PRE: Validate returned nil
// POST: Returns a draft whose Validate also passes
func (f *Form) Reservation() (reservation.Reservation, error) {
	if err := f.Validate(); err != nil {
		return reservation.Reservation{}, err
	}
	classroomID, err := strconv.ParseInt(f.ClassroomID, 10, 64)
	if err != nil {
		return reservation.Reservation{}, ErrIncomplete
	}
	slotID, err := strconv.ParseInt(f.TimeSlotID, 10, 64)
	if err != nil {
		return reservation.Reservation{}, ErrIncomplete
	}
	attendees, _ := strconv.Atoi(f.AttendeeCount)
	return reservation.Reservation{
		ClassroomID:   classroomID,
		TimeSlotID:    slotID,
		Date:          f.Date,
		AttendeeCount: attendees,
		Reason:        f.Reason,
	}, nil
}

// Reset clears every field, ready for the next reservation.
func (f *Form) Reset() {
	*f = Form{}
}

// IsEdit reports whether the form targets an existing reservation.
func (f *Form) IsEdit() bool {
	return f.ReservationID != ""
}
