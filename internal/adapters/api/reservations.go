package api

import (
	"context"
	"fmt"

	"reservas/internal/domain/reservation"
	"reservas/internal/domain/timeslot"
)

// ReservationGateway is the typed CRUD surface for /reservations. It owns the
// date quirk: forms speak ISO ("2006-01-02"), the wire speaks "DD/MM/YYYY".
type ReservationGateway struct {
	c *Client
}

type reservationWire struct {
	ID            int64  `json:"id,omitempty"`
	ClassroomID   int64  `json:"classroomId"`
	TimeSlotID    int64  `json:"timeSlotId"`
	Date          string `json:"date"`
	AttendeeCount int    `json:"attendeeCount"`
	Reason        string `json:"reason,omitempty"`
	OwnerIdentity string `json:"ownerIdentity,omitempty"`

	ClassroomName string `json:"classroomName,omitempty"`
	SlotWeekday   string `json:"timeSlotWeekday,omitempty"`
	SlotStart     string `json:"timeSlotStart,omitempty"`
	SlotEnd       string `json:"timeSlotEnd,omitempty"`
}

func reservationFromWire(w reservationWire) reservation.Reservation {
	return reservation.Reservation{
		ID:            w.ID,
		ClassroomID:   w.ClassroomID,
		TimeSlotID:    w.TimeSlotID,
		Date:          reservation.ISODate(w.Date),
		AttendeeCount: w.AttendeeCount,
		Reason:        w.Reason,
		OwnerIdentity: w.OwnerIdentity,
		ClassroomName: w.ClassroomName,
		SlotWeekday:   w.SlotWeekday,
		SlotStart:     timeslot.FormTime(w.SlotStart),
		SlotEnd:       timeslot.FormTime(w.SlotEnd),
	}
}

func reservationToWire(r reservation.Reservation) reservationWire {
	return reservationWire{
		ClassroomID:   r.ClassroomID,
		TimeSlotID:    r.TimeSlotID,
		Date:          reservation.WireDate(r.Date),
		AttendeeCount: r.AttendeeCount,
		Reason:        r.Reason,
	}
}

// List retrieves all reservations visible to the caller.
func (g *ReservationGateway) List(ctx context.Context) ([]reservation.Reservation, error) {
	var wires []reservationWire
	if err := g.c.get(ctx, "/reservations", &wires); err != nil {
		return nil, err
	}
	results := make([]reservation.Reservation, 0, len(wires))
	for _, w := range wires {
		results = append(results, reservationFromWire(w))
	}
	return results, nil
}

// Get retrieves one reservation by id, date converted for editing.
func (g *ReservationGateway) Get(ctx context.Context, id int64) (reservation.Reservation, error) {
	var w reservationWire
	if err := g.c.get(ctx, fmt.Sprintf("/reservations/%d", id), &w); err != nil {
		return reservation.Reservation{}, err
	}
	return reservationFromWire(w), nil
}

// Create persists a new reservation and returns the server's copy. Ownership
// is assigned server-side from the bearer credential.
func (g *ReservationGateway) Create(ctx context.Context, draft reservation.Reservation) (reservation.Reservation, error) {
	var w reservationWire
	if err := g.c.post(ctx, "/reservations", reservationToWire(draft), &w); err != nil {
		return reservation.Reservation{}, err
	}
	return reservationFromWire(w), nil
}

// Update replaces a reservation and returns the server's copy.
func (g *ReservationGateway) Update(ctx context.Context, id int64, draft reservation.Reservation) (reservation.Reservation, error) {
	var w reservationWire
	if err := g.c.put(ctx, fmt.Sprintf("/reservations/%d", id), reservationToWire(draft), &w); err != nil {
		return reservation.Reservation{}, err
	}
	return reservationFromWire(w), nil
}

// Delete removes a reservation by id.
func (g *ReservationGateway) Delete(ctx context.Context, id int64) error {
	return g.c.delete(ctx, fmt.Sprintf("/reservations/%d", id))
}
