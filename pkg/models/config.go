package models

// Config holds application configuration
type Config struct {
	BackendURL        string       `json:"backend_url"`         // calendar backend base URL
	SyncInterval      int          `json:"sync_interval"`       // event sync interval, minutes
	PollSeconds       int          `json:"poll_seconds"`        // reminder check cadence, seconds
	PlaySound         bool         `json:"play_sound"`          // chime when a reminder fires
	AutoStart         bool         `json:"auto_start"`          // launch at login
	ICalSources       []ICalSource `json:"ical_sources"`        // extra ICS feeds
	ICSReminderDayOf  bool         `json:"ics_reminder_day_of"` // reminder defaults for feed events,
	ICSReminderBefore bool         `json:"ics_reminder_before"` // which carry no flags of their own
}

// ICalSource represents a named iCal calendar feed
type ICalSource struct {
	ID   string `json:"id"`   // Unique identifier
	Name string `json:"name"` // Display name
	URL  string `json:"url"`  // iCal URL
}

// NeedsConfiguration returns true if the config needs initial setup
func (c *Config) NeedsConfiguration() bool {
	return c.BackendURL == "" && len(c.ICalSources) == 0
}

// Validate checks if the iCal source has required fields
func (s *ICalSource) Validate() bool {
	return s.Name != "" && s.URL != ""
}
