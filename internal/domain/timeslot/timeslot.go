package timeslot

import (
	"errors"
	"strings"
	"time"
)

// Weekday values as the reservations API enumerates them.
const (
	Domingo   = "DOMINGO"
	Lunes     = "LUNES"
	Martes    = "MARTES"
	Miercoles = "MIERCOLES"
	Jueves    = "JUEVES"
	Viernes   = "VIERNES"
	Sabado    = "SABADO"
)

// ValidWeekdays lists all weekday values, indexed to match time.Weekday
// (Sunday = 0).
var ValidWeekdays = []string{Domingo, Lunes, Martes, Miercoles, Jueves, Viernes, Sabado}

// Domain errors
var (
	ErrInvalidWeekday = errors.New("weekday must be one of the seven enumerated values")
	ErrEmptyStartTime = errors.New("start time cannot be empty")
	ErrEmptyEndTime   = errors.New("end time cannot be empty")
	ErrInvalidTime    = errors.New("time must be in HH:MM format")
)

// TimeSlot is a recurring weekly slot a reservation can be placed in.
// Times are held in the form representation ("HH:MM"); the gateway widens them
// to the wire representation ("HH:MM:SS") on write.
type TimeSlot struct {
	ID        int64
	Weekday   string
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// Validate checks if the TimeSlot has valid data. Start-before-end ordering is
// the remote API's rule and is not re-checked here.
// PRE: TimeSlot struct is populated
// POST: Returns nil if valid, error otherwise
func (ts *TimeSlot) Validate() error {
	if !isValidWeekday(ts.Weekday) {
		return ErrInvalidWeekday
	}
	if strings.TrimSpace(ts.StartTime) == "" {
		return ErrEmptyStartTime
	}
	if strings.TrimSpace(ts.EndTime) == "" {
		return ErrEmptyEndTime
	}
	if !isFormTime(ts.StartTime) || !isFormTime(ts.EndTime) {
		return ErrInvalidTime
	}
	return nil
}

// WireTime widens a form time "HH:MM" to the API representation "HH:MM:SS".
// Values already carrying seconds pass through unchanged.
func WireTime(t string) string {
	if strings.Count(t, ":") == 1 {
		return t + ":00"
	}
	return t
}

// FormTime truncates a wire time "HH:MM:SS" back to "HH:MM" for editing.
func FormTime(t string) string {
	if strings.Count(t, ":") == 2 {
		return t[:strings.LastIndex(t, ":")]
	}
	return t
}

func isValidWeekday(day string) bool {
	for _, d := range ValidWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

func isFormTime(t string) bool {
	_, err := time.Parse("15:04", t)
	return err == nil
}
