package timeslot

import "time"

// isoDate is the calendar date layout used by forms and by the list snapshots.
const isoDate = "2006-01-02"

// WeekdayName maps a calendar date to the API's weekday enumeration.
func WeekdayName(date time.Time) string {
	return ValidWeekdays[int(date.Weekday())]
}

// WeekdayOf computes the weekday name for an ISO date string ("2006-01-02").
// PRE: none
// POST: Returns the weekday name, or "" if the date does not parse
func WeekdayOf(date string) string {
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return ""
	}
	return WeekdayName(t)
}

// Compatible returns the subsequence of slots whose weekday matches the date's
// weekday, preserving input order. An empty or unparseable date means "no date
// chosen yet": all slots stay visible.
// PRE: none
// POST: Result is a subsequence of slots; identical to slots when date is empty
func Compatible(date string, slots []TimeSlot) []TimeSlot {
	if date == "" {
		return slots
	}
	day := WeekdayOf(date)
	if day == "" {
		return slots
	}
	var matched []TimeSlot
	for _, slot := range slots {
		if slot.Weekday == day {
			matched = append(matched, slot)
		}
	}
	return matched
}
