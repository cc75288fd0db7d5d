package service

import "time"

// Business window applied by the working-hours calculator. Weekends and
// holidays are intentionally not excluded; only the daily window counts.
const (
	workStartHour = 9
	workEndHour   = 18
)

// NormalizeWorkingStart shifts an instant into the business window: before
// 09:00 it becomes 09:00 the same day, at or after 18:00 it becomes 09:00
// the next calendar day.
func NormalizeWorkingStart(t time.Time) time.Time {
	if t.Hour() < workStartHour {
		return time.Date(t.Year(), t.Month(), t.Day(), workStartHour, 0, 0, 0, t.Location())
	}
	if t.Hour() >= workEndHour {
		next := t.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), workStartHour, 0, 0, 0, t.Location())
	}
	return t
}

// WorkingHoursDeadline returns the instant reached after accumulating the
// given number of hours counted only inside the 09:00-18:00 window each day.
// Zero hours returns the normalized start.
func WorkingHoursDeadline(start time.Time, hours int) time.Time {
	current := NormalizeWorkingStart(start)
	remaining := time.Duration(hours) * time.Hour

	for remaining > 0 {
		dayEnd := time.Date(current.Year(), current.Month(), current.Day(), workEndHour, 0, 0, 0, current.Location())
		leftToday := dayEnd.Sub(current)
		if leftToday >= remaining {
			return current.Add(remaining)
		}
		remaining -= leftToday
		next := current.AddDate(0, 0, 1)
		current = time.Date(next.Year(), next.Month(), next.Day(), workStartHour, 0, 0, 0, current.Location())
	}
	return current
}
