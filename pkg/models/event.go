package models

import "time"

// Event represents a calendar event as owned by the event backend.
// The reminder core treats it as a read-only snapshot.
type Event struct {
	ID          string    // Stable event ID ("evt-<n>" for backend events, "ics-<uid>" for feed events)
	Title       string    // Event title
	Description string    // Event description
	Date        time.Time // Calendar date (local, day granularity)
	Time        string    // Optional "HH:MM" local time; empty means all-day
	Location    string    // Event location
	Category    string    // Event category
	Priority    string    // Priority: low, medium, high
	AllDay      bool      // All-day event (no meaningful Time)

	// Reminder preference flags carried from the backend.
	ReminderDayOf     bool
	ReminderDayBefore bool
}

// StartTime returns the event's start instant in local time. All-day events
// (or events with an unparseable Time) start at midnight on their date.
func (e Event) StartTime() time.Time {
	return e.startTimeIn(time.Local)
}

// startTimeIn builds the wall-clock start instant in the given location.
// Constructed with time.Date rather than duration arithmetic so a "10:00"
// event still starts at 10:00 on DST transition days.
func (e Event) startTimeIn(loc *time.Location) time.Time {
	if e.AllDay || e.Time == "" {
		return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, loc)
	}
	t, err := time.Parse("15:04", e.Time)
	if err != nil {
		return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}
