package api

import (
	"context"
	"fmt"

	"reservas/internal/domain/timeslot"
)

// TimeSlotGateway is the typed CRUD surface for /time-slots. It owns the
// time-of-day quirk: forms speak "HH:MM", the wire speaks "HH:MM:SS".
type TimeSlotGateway struct {
	c *Client
}

type timeSlotWire struct {
	ID        int64  `json:"id,omitempty"`
	Weekday   string `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func timeSlotFromWire(w timeSlotWire) timeslot.TimeSlot {
	return timeslot.TimeSlot{
		ID:        w.ID,
		Weekday:   w.Weekday,
		StartTime: timeslot.FormTime(w.StartTime),
		EndTime:   timeslot.FormTime(w.EndTime),
	}
}

func timeSlotToWire(ts timeslot.TimeSlot) timeSlotWire {
	return timeSlotWire{
		Weekday:   ts.Weekday,
		StartTime: timeslot.WireTime(ts.StartTime),
		EndTime:   timeslot.WireTime(ts.EndTime),
	}
}

// List retrieves all time slots.
func (g *TimeSlotGateway) List(ctx context.Context) ([]timeslot.TimeSlot, error) {
	var wires []timeSlotWire
	if err := g.c.get(ctx, "/time-slots", &wires); err != nil {
		return nil, err
	}
	results := make([]timeslot.TimeSlot, 0, len(wires))
	for _, w := range wires {
		results = append(results, timeSlotFromWire(w))
	}
	return results, nil
}

// Get retrieves one time slot by id, times truncated for editing.
func (g *TimeSlotGateway) Get(ctx context.Context, id int64) (timeslot.TimeSlot, error) {
	var w timeSlotWire
	if err := g.c.get(ctx, fmt.Sprintf("/time-slots/%d", id), &w); err != nil {
		return timeslot.TimeSlot{}, err
	}
	return timeSlotFromWire(w), nil
}

// Create persists a new time slot and returns the server's copy.
func (g *TimeSlotGateway) Create(ctx context.Context, draft timeslot.TimeSlot) (timeslot.TimeSlot, error) {
	var w timeSlotWire
	if err := g.c.post(ctx, "/time-slots", timeSlotToWire(draft), &w); err != nil {
		return timeslot.TimeSlot{}, err
	}
	return timeSlotFromWire(w), nil
}

// Update replaces a time slot and returns the server's copy.
func (g *TimeSlotGateway) Update(ctx context.Context, id int64, draft timeslot.TimeSlot) (timeslot.TimeSlot, error) {
	var w timeSlotWire
	if err := g.c.put(ctx, fmt.Sprintf("/time-slots/%d", id), timeSlotToWire(draft), &w); err != nil {
		return timeslot.TimeSlot{}, err
	}
	return timeSlotFromWire(w), nil
}

// Delete removes a time slot by id.
func (g *TimeSlotGateway) Delete(ctx context.Context, id int64) error {
	return g.c.delete(ctx, fmt.Sprintf("/time-slots/%d", id))
}
