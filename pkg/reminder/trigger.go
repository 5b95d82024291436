package reminder

import (
	"time"

	"github.com/famcal/reminder-agent/pkg/models"
)

// dayBeforeHour is the local hour at which day-before reminders fire.
const dayBeforeHour = 9

// ComputeTriggerTime maps an event and reminder kind to the absolute local
// instant the reminder should fire:
//
//   - ReminderDayOf: one hour before the event start (midnight for all-day
//     events, so the reminder lands at 23:00 the previous evening).
//   - ReminderDayBefore: 09:00 on the day before the event, independent of
//     the event's own time.
//
// Returns ok=false when the instant is not strictly after now; such
// reminders must not be registered. Pure: now is explicit, no clock access.
func ComputeTriggerTime(event models.Event, kind models.ReminderKind, now time.Time) (triggerAt time.Time, ok bool) {
	switch kind {
	case models.ReminderDayOf:
		triggerAt = event.StartTime().Add(-time.Hour)
	case models.ReminderDayBefore:
		d := event.Date
		triggerAt = time.Date(d.Year(), d.Month(), d.Day()-1, dayBeforeHour, 0, 0, 0, time.Local)
	default:
		return time.Time{}, false
	}

	if !triggerAt.After(now) {
		return time.Time{}, false
	}
	return triggerAt, true
}
