package reminder

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/famcal/reminder-agent/pkg/models"
	"github.com/famcal/reminder-agent/pkg/notify"
	"github.com/famcal/reminder-agent/pkg/store"
)

// Service is the public face of the reminder subsystem. One instance is
// constructed at application start and held by the shell; event create,
// update, and delete flows call AddReminder and CleanupReminders, while the
// scheduler it owns delivers whatever comes due. All reminder state is
// memory-resident and intentionally lost when the process exits.
type Service struct {
	store   *store.ReminderStore
	gateway notify.Gateway
	sched   *Scheduler
}

func NewService(gateway notify.Gateway, pollInterval time.Duration) *Service {
	rs := store.NewReminderStore()
	return &Service{
		store:   rs,
		gateway: gateway,
		sched:   NewScheduler(rs, gateway, pollInterval),
	}
}

// Initialize requests notification permission and starts the poll
// scheduler. Safe to call more than once; an already-running scheduler is
// left alone. A denied or unsupported platform is not an error: reminders
// are still tracked and marked fired when due, just never visibly shown.
func (s *Service) Initialize(ctx context.Context) {
	perm, err := s.gateway.RequestPermission(ctx)
	if err != nil {
		log.Printf("Notification permission request failed: %v", err)
	}
	if perm != notify.PermissionGranted {
		log.Printf("Notifications not granted (permission=%s), reminders will be silent", perm)
	}

	s.sched.Start()
}

// AddReminder registers a one-shot reminder for the event. A reminder whose
// trigger instant has already passed is skipped silently: creating an event
// for today less than an hour before it starts is a normal occurrence, not
// an error. Re-adding the same (event, kind) pair replaces the prior entry.
func (s *Service) AddReminder(event models.Event, kind models.ReminderKind) {
	triggerAt, ok := ComputeTriggerTime(event, kind, time.Now())
	if !ok {
		return
	}

	s.store.Put(&models.ReminderEntry{
		ID:        uuid.New().String(),
		EventID:   event.ID,
		Kind:      kind,
		Event:     event,
		TriggerAt: triggerAt,
	})
}

// CleanupReminders removes every reminder for the event, across both kinds
// and regardless of fired state. No-op if none exist.
func (s *Service) CleanupReminders(eventID string) {
	s.store.RemoveAll(eventID)
}

// StopReminderCheck stops the poll scheduler; safe to call when not running.
func (s *Service) StopReminderCheck() {
	s.sched.Stop()
}

// PendingReminders returns the not-yet-due, unfired reminders sorted
// ascending by trigger time.
func (s *Service) PendingReminders() []models.PendingReminder {
	return s.store.Pending(time.Now())
}
