package reminder

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/famcal/reminder-agent/pkg/models"
	"github.com/famcal/reminder-agent/pkg/notify"
	"github.com/famcal/reminder-agent/pkg/store"
)

const (
	// DefaultPollInterval is the cadence at which due reminders are
	// checked. Reminders can fire up to one interval late; that is the
	// accepted precision of a polling design.
	DefaultPollInterval = 60 * time.Second

	// startupCheckDelay schedules one early scan shortly after start so
	// reminders registered just before launch are not delayed by a full
	// interval.
	startupCheckDelay = 5 * time.Second
)

// Scheduler periodically scans the reminder store and routes due, unfired
// entries through the notification gateway, marking each fired exactly once.
type Scheduler struct {
	store    *store.ReminderStore
	gateway  notify.Gateway
	interval time.Duration

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}

	scanMu sync.Mutex
}

func NewScheduler(rs *store.ReminderStore, gateway notify.Gateway, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Scheduler{store: rs, gateway: gateway, interval: interval}
}

// Start begins the poll loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.interval)
	s.done = make(chan struct{})
	go s.run(s.ticker, s.done)

	go func(done chan struct{}) {
		select {
		case <-time.After(startupCheckDelay):
			s.CheckNow(time.Now())
		case <-done:
		}
	}(s.done)
}

// Stop halts the poll loop; safe to call when not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}

	s.ticker.Stop()
	close(s.done)
	s.ticker = nil
	s.done = nil
}

// Running reports whether the poll loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ticker != nil
}

func (s *Scheduler) run(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-ticker.C:
			s.CheckNow(time.Now())
		case <-done:
			return
		}
	}
}

// CheckNow runs one scan-and-deliver pass against the given instant.
// Scans are serialized; a slow pass delays the next rather than
// overlapping it, and the ticker drops any ticks missed meanwhile.
func (s *Scheduler) CheckNow(now time.Time) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	for _, entry := range s.store.DueUnfired(now) {
		title, body := reminderMessage(entry)
		if _, err := s.gateway.Show(title, body); err != nil {
			log.Printf("Failed to deliver reminder %s for event %q: %v", entry.ID, entry.Event.Title, err)
		} else {
			log.Printf("Delivered reminder %s for event %q", entry.ID, entry.Event.Title)
		}
		// A delivery failure is not retried; the entry is spent either way.
		s.store.MarkFired(entry.Key())
	}
}

func reminderMessage(entry *models.ReminderEntry) (title, body string) {
	event := entry.Event
	title = "Reminder: " + event.Title

	switch {
	case entry.Kind == models.ReminderDayBefore && (event.AllDay || event.Time == ""):
		body = fmt.Sprintf("%q is tomorrow", event.Title)
	case entry.Kind == models.ReminderDayBefore:
		body = fmt.Sprintf("%q is tomorrow at %s", event.Title, event.Time)
	case event.AllDay || event.Time == "":
		body = fmt.Sprintf("%q is today", event.Title)
	default:
		body = fmt.Sprintf("%q is at %s", event.Title, event.Time)
	}

	if event.Location != "" {
		body += " in " + event.Location
	}
	return title, body
}
