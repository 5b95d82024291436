package main

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/famcal/reminder-agent/pkg/api"
	"github.com/famcal/reminder-agent/pkg/calendar"
	"github.com/famcal/reminder-agent/pkg/models"
	"github.com/famcal/reminder-agent/pkg/notify"
	"github.com/famcal/reminder-agent/pkg/reminder"
	"github.com/famcal/reminder-agent/pkg/store"
)

// ReminderAgent is the tray application: it syncs events from the calendar
// backend (and any configured ICS feeds) and keeps the reminder service fed.
type ReminderAgent struct {
	app         fyne.App
	config      *models.Config
	configStore *store.ConfigStore
	client      *api.Client
	reminders   *reminder.Service
	syncTicker  *time.Ticker

	syncMu      sync.Mutex      // serializes syncs from the ticker and the tray
	knownEvents map[string]bool // event IDs seen in the last sync; guarded by syncMu
}

func main() {
	agent := &ReminderAgent{
		app:         app.NewWithID("com.famcal.reminder-agent"),
		knownEvents: make(map[string]bool),
	}

	if err := agent.initialize(); err != nil {
		log.Fatal(err)
	}

	agent.run()
}

func (ra *ReminderAgent) initialize() error {
	ra.configStore = store.NewConfigStore(ra.app)
	ra.config = ra.configStore.Load()

	// Sync autostart state with config on startup
	if err := setupAutostart(ra.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	ra.configStore.Save(ra.config)

	ra.client = api.NewClient(ra.config.BackendURL)

	gateway := notify.NewDesktopGateway(ra.app, ra.config.PlaySound, nil)
	ra.reminders = reminder.NewService(gateway, time.Duration(ra.config.PollSeconds)*time.Second)
	ra.reminders.Initialize(context.Background())

	ra.setupSystemTray()
	ra.startBackgroundSync()

	return nil
}

func (ra *ReminderAgent) run() {
	ra.app.Run()
}

// syncEvents pulls events from the backend and all ICS feeds, then
// reconciles the reminder registry against them.
func (ra *ReminderAgent) syncEvents() {
	allEvents := []models.Event{}

	events, err := ra.client.List(context.Background())
	if err != nil {
		log.Printf("Error fetching events from backend: %v", err)
	} else {
		allEvents = append(allEvents, events...)
		log.Printf("Synced %d events from backend", len(events))
	}

	for _, source := range ra.config.ICalSources {
		if !source.Validate() {
			continue
		}

		feedEvents, err := calendar.FetchEvents(source)
		if err != nil {
			log.Printf("Error fetching feed '%s' (%s): %v", source.Name, source.URL, err)
			continue
		}

		// Feed events carry no reminder flags; apply the configured defaults.
		for i := range feedEvents {
			feedEvents[i].ReminderDayOf = ra.config.ICSReminderDayOf
			feedEvents[i].ReminderDayBefore = ra.config.ICSReminderBefore
		}
		allEvents = append(allEvents, feedEvents...)
	}

	ra.applyReminders(allEvents)
	ra.updateSystemTrayMenu()
}

// applyReminders re-registers reminders from scratch for every synced event
// so an edited date or time always yields a fresh trigger instant, and
// removes reminders whose event has disappeared. A fired reminder is never
// re-delivered by this: its trigger instant is already past, so
// re-registration skips it.
func (ra *ReminderAgent) applyReminders(events []models.Event) {
	ra.syncMu.Lock()
	defer ra.syncMu.Unlock()

	seen := make(map[string]bool, len(events))

	for _, event := range events {
		seen[event.ID] = true

		ra.reminders.CleanupReminders(event.ID)
		if event.ReminderDayOf {
			ra.reminders.AddReminder(event, models.ReminderDayOf)
		}
		if event.ReminderDayBefore {
			ra.reminders.AddReminder(event, models.ReminderDayBefore)
		}
	}

	// Deleted events take their reminders with them.
	for id := range ra.knownEvents {
		if !seen[id] {
			ra.reminders.CleanupReminders(id)
		}
	}
	ra.knownEvents = seen
}

func (ra *ReminderAgent) startBackgroundSync() {
	// Do initial sync synchronously to populate reminders before the tray
	// menu is first rendered
	if !ra.config.NeedsConfiguration() {
		ra.syncEvents()
	}

	ra.syncTicker = time.NewTicker(time.Duration(ra.config.SyncInterval) * time.Minute)
	go func() {
		for range ra.syncTicker.C {
			if !ra.config.NeedsConfiguration() {
				ra.syncEvents()
			}
		}
	}()
}

func (ra *ReminderAgent) quit() {
	if ra.syncTicker != nil {
		ra.syncTicker.Stop()
	}
	ra.reminders.StopReminderCheck()
	ra.app.Quit()
}
