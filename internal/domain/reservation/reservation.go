package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors
var (
	ErrMissingClassroom = errors.New("reservation must reference a classroom")
	ErrMissingTimeSlot  = errors.New("reservation must reference a time slot")
	ErrEmptyDate        = errors.New("reservation date cannot be empty")
	ErrInvalidAttendees = errors.New("attendee count must be at least 1")
)

// Reservation binds a classroom, a time slot and a calendar date. Dates are held
// in the ISO form representation ("2006-01-02"); the gateway converts to the wire
// representation ("DD/MM/YYYY") on write and back on read.
//
// The trailing fields are read-side denormalisations the API returns for list
// rendering; they are never sent on write.
type Reservation struct {
	ID            int64
	ClassroomID   int64
	TimeSlotID    int64
	Date          string // 2006-01-02
	AttendeeCount int
	Reason        string
	OwnerIdentity string // set by the server from the credential

	ClassroomName string
	SlotWeekday   string
	SlotStart     string
	SlotEnd       string
}

// Validate checks if the Reservation has valid data. Weekday/date agreement and
// capacity limits are re-enforced server-side.
// PRE: Reservation struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Reservation) Validate() error {
	if r.ClassroomID <= 0 {
		return ErrMissingClassroom
	}
	if r.TimeSlotID <= 0 {
		return ErrMissingTimeSlot
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrEmptyDate
	}
	if r.AttendeeCount < 1 {
		return ErrInvalidAttendees
	}
	return nil
}

// OwnedBy reports whether the reservation belongs to the given identity.
func (r *Reservation) OwnedBy(identity string) bool {
	return identity != "" && r.OwnerIdentity == identity
}

// WireDate converts an ISO calendar date ("2006-01-02") to the wire
// representation ("DD/MM/YYYY"). Values that do not parse pass through
// unchanged for the server to reject.
func WireDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// ISODate converts a wire date ("DD/MM/YYYY") back to the ISO form
// representation. Dates already in ISO form pass through unchanged.
func ISODate(date string) string {
	if date == "" || strings.Contains(date, "-") {
		return date
	}
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
}
