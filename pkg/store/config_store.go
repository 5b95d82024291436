package store

import (
	"encoding/json"

	"fyne.io/fyne/v2"
	"github.com/famcal/reminder-agent/pkg/models"
)

// ConfigStore handles configuration persistence using Fyne preferences
type ConfigStore struct {
	app fyne.App
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(app fyne.App) *ConfigStore {
	return &ConfigStore{app: app}
}

// Load loads configuration from preferences
func (cs *ConfigStore) Load() *models.Config {
	prefs := cs.app.Preferences()

	config := &models.Config{
		BackendURL:        prefs.StringWithFallback("backend_url", "http://localhost:8080"),
		SyncInterval:      prefs.IntWithFallback("sync_interval", 30),
		PollSeconds:       prefs.IntWithFallback("poll_seconds", 60),
		PlaySound:         prefs.BoolWithFallback("play_sound", true),
		AutoStart:         prefs.BoolWithFallback("auto_start", false),
		ICSReminderDayOf:  prefs.BoolWithFallback("ics_reminder_day_of", true),
		ICSReminderBefore: prefs.BoolWithFallback("ics_reminder_before", false),
	}

	// Load iCal sources from JSON string
	icalSourcesJSON := prefs.String("ical_sources")
	if icalSourcesJSON != "" {
		if err := json.Unmarshal([]byte(icalSourcesJSON), &config.ICalSources); err != nil {
			config.ICalSources = []models.ICalSource{}
		}
	} else {
		config.ICalSources = []models.ICalSource{}
	}

	return config
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	prefs := cs.app.Preferences()

	prefs.SetString("backend_url", config.BackendURL)
	prefs.SetInt("sync_interval", config.SyncInterval)
	prefs.SetInt("poll_seconds", config.PollSeconds)
	prefs.SetBool("play_sound", config.PlaySound)
	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetBool("ics_reminder_day_of", config.ICSReminderDayOf)
	prefs.SetBool("ics_reminder_before", config.ICSReminderBefore)

	// Save iCal sources as JSON string
	if icalSourcesJSON, err := json.Marshal(config.ICalSources); err == nil {
		prefs.SetString("ical_sources", string(icalSourcesJSON))
	}
}
