package models

import "time"

// ReminderKind identifies one of the two fixed reminder offsets
type ReminderKind string

const (
	ReminderDayOf     ReminderKind = "day"        // 1 hour before the event start
	ReminderDayBefore ReminderKind = "day_before" // 09:00 on the previous day
)

// ReminderKey uniquely identifies a reminder: one entry per (event, kind)
type ReminderKey struct {
	EventID string
	Kind    ReminderKind
}

// ReminderEntry represents a one-shot scheduled reminder for a specific event
type ReminderEntry struct {
	ID        string // Unique identifier for the entry (UUID)
	EventID   string // Event this reminder belongs to
	Kind      ReminderKind
	Event     Event     // Snapshot of the event at registration time
	TriggerAt time.Time // When this reminder should fire; fixed at registration
	Fired     bool      // Set once by the poll scheduler on delivery
}

// Key returns the composite store key for this entry
func (r *ReminderEntry) Key() ReminderKey {
	return ReminderKey{EventID: r.EventID, Kind: r.Kind}
}

// PendingReminder is a read-only view of a not-yet-due reminder,
// used for the tray menu and diagnostics.
type PendingReminder struct {
	Event     Event
	Kind      ReminderKind
	TriggerAt time.Time
}
