package calendar

import (
	"time"

	"github.com/emersion/go-ical"

	"github.com/famcal/reminder-agent/pkg/models"
)

// parseEvent converts a VEVENT component into our event model. Returns
// ok=false for components without a usable start, and skips cancelled
// events.
func parseEvent(comp *ical.Component, sourceID string) (models.Event, bool) {
	event := models.Event{}

	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		event.ID = "ics-" + uidProp.Value
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		event.Title = summaryProp.Value
	}

	if descProp := comp.Props.Get(ical.PropDescription); descProp != nil {
		event.Description = descProp.Value
	}

	if locProp := comp.Props.Get(ical.PropLocation); locProp != nil {
		event.Location = locProp.Value
	}

	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil && statusProp.Value == "CANCELLED" {
		return models.Event{}, false
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return models.Event{}, false
	}

	start, allDay, err := parseDateTimeProperty(startProp)
	if err != nil || start.IsZero() {
		return models.Event{}, false
	}

	event.Date = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	event.AllDay = allDay
	if !allDay {
		event.Time = start.Format("15:04")
	}

	// Fallback: feeds without UIDs get a deterministic ID so re-syncs
	// overwrite instead of duplicating.
	if event.ID == "" {
		event.ID = "ics-" + sourceID + "-" + start.Format(time.RFC3339) + "-" + event.Title
	}

	return event, true
}

// parseDateTimeProperty resolves DTSTART in local time and reports whether
// the property is a date-only (all-day) value.
func parseDateTimeProperty(prop *ical.Prop) (time.Time, bool, error) {
	// Date-only values mark all-day events.
	if prop.ValueType() == ical.ValueDate || len(prop.Value) == 8 {
		t, err := time.ParseInLocation("20060102", prop.Value, time.Local)
		return t, true, err
	}

	// First try the standard DateTime method with local timezone
	if t, err := prop.DateTime(time.Local); err == nil {
		return t.In(time.Local), false, nil
	}

	// If that fails, try parsing the raw value directly
	formats := []string{
		"20060102T150405",     // Basic format: YYYYMMDDTHHMMSS
		"20060102T150405Z",    // UTC format
		time.RFC3339,          // Standard RFC3339
		"2006-01-02T15:04:05", // ISO 8601 without timezone
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, time.Local); err == nil {
			return t, false, nil
		}
	}

	return time.Time{}, false, errUnparsableDateTime(prop.Value)
}

type errUnparsableDateTime string

func (e errUnparsableDateTime) Error() string {
	return "unable to parse datetime value: " + string(e)
}
