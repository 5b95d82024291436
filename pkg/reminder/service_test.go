package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famcal/reminder-agent/pkg/models"
	"github.com/famcal/reminder-agent/pkg/notify"
)

// fakeGateway records Show calls and grants permission on first request.
type fakeGateway struct {
	mu          sync.Mutex
	perm        notify.Permission
	promptCalls int
	shown       []string
	showErr     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{perm: notify.PermissionDefault}
}

func (g *fakeGateway) Supported() bool { return true }

func (g *fakeGateway) Permission() notify.Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.perm
}

func (g *fakeGateway) RequestPermission(ctx context.Context) (notify.Permission, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.perm == notify.PermissionDefault {
		g.promptCalls++
		g.perm = notify.PermissionGranted
	}
	return g.perm, nil
}

func (g *fakeGateway) Show(title, body string) (*notify.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shown = append(g.shown, title)
	return nil, g.showErr
}

func (g *fakeGateway) shownTitles() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.shown...)
}

func eventOn(id string, date time.Time, clock string) models.Event {
	return models.Event{ID: id, Title: "Event " + id, Date: date, Time: clock}
}

// tomorrowEvent builds an event on tomorrow's date with a time far enough
// out that a day-of trigger is always in the future at registration.
func tomorrowEvent(id string) models.Event {
	tomorrow := time.Now().AddDate(0, 0, 1)
	return eventOn(id, tomorrow, "12:00")
}

func TestAddReminderStoresFutureTrigger(t *testing.T) {
	svc := NewService(newFakeGateway(), time.Minute)

	svc.AddReminder(tomorrowEvent("evt-1"), models.ReminderDayOf)

	pending := svc.PendingReminders()
	require.Len(t, pending, 1)
	assert.Equal(t, "evt-1", pending[0].Event.ID)
	assert.Equal(t, models.ReminderDayOf, pending[0].Kind)
}

func TestAddReminderSkipsPastTrigger(t *testing.T) {
	svc := NewService(newFakeGateway(), time.Minute)

	// Yesterday's event: both kinds compute to past instants.
	yesterday := time.Now().AddDate(0, 0, -1)
	svc.AddReminder(eventOn("evt-1", yesterday, "10:00"), models.ReminderDayOf)
	svc.AddReminder(eventOn("evt-1", yesterday, "10:00"), models.ReminderDayBefore)

	assert.Empty(t, svc.PendingReminders())
}

func TestAddReminderAssignsUniqueEntryIDs(t *testing.T) {
	svc := NewService(newFakeGateway(), time.Minute)

	svc.AddReminder(tomorrowEvent("evt-1"), models.ReminderDayOf)
	svc.AddReminder(tomorrowEvent("evt-2"), models.ReminderDayOf)

	// Entry IDs tag the delivery log lines, so each registration gets
	// its own.
	due := svc.store.DueUnfired(time.Now().AddDate(0, 0, 3))
	require.Len(t, due, 2)
	assert.NotEmpty(t, due[0].ID)
	assert.NotEmpty(t, due[1].ID)
	assert.NotEqual(t, due[0].ID, due[1].ID)
}

func TestAddReminderTwiceOverwrites(t *testing.T) {
	svc := NewService(newFakeGateway(), time.Minute)
	event := tomorrowEvent("evt-1")

	svc.AddReminder(event, models.ReminderDayOf)
	svc.AddReminder(event, models.ReminderDayOf)

	assert.Len(t, svc.PendingReminders(), 1)
}

func TestPendingRemindersSortedAscending(t *testing.T) {
	svc := NewService(newFakeGateway(), time.Minute)

	later := eventOn("evt-later", time.Now().AddDate(0, 0, 3), "12:00")
	sooner := eventOn("evt-sooner", time.Now().AddDate(0, 0, 2), "12:00")

	svc.AddReminder(later, models.ReminderDayOf)
	svc.AddReminder(sooner, models.ReminderDayOf)

	pending := svc.PendingReminders()
	require.Len(t, pending, 2)
	assert.Equal(t, "evt-sooner", pending[0].Event.ID)
	assert.Equal(t, "evt-later", pending[1].Event.ID)
}

func TestCleanupRemindersRemovesBothKindsOnly(t *testing.T) {
	svc := NewService(newFakeGateway(), time.Minute)

	svc.AddReminder(tomorrowEvent("evt-1"), models.ReminderDayOf)
	svc.AddReminder(tomorrowEvent("evt-1"), models.ReminderDayBefore)
	svc.AddReminder(tomorrowEvent("evt-2"), models.ReminderDayOf)

	svc.CleanupReminders("evt-1")

	pending := svc.PendingReminders()
	require.Len(t, pending, 1)
	assert.Equal(t, "evt-2", pending[0].Event.ID)
}

func TestSchedulerFiresDueReminderExactlyOnce(t *testing.T) {
	gateway := newFakeGateway()
	gateway.perm = notify.PermissionGranted
	svc := NewService(gateway, time.Minute)

	svc.AddReminder(tomorrowEvent("evt-1"), models.ReminderDayOf)

	// Advance a simulated clock past the trigger and scan.
	future := time.Now().AddDate(0, 0, 2)
	svc.sched.CheckNow(future)

	require.Len(t, gateway.shownTitles(), 1)
	assert.Contains(t, gateway.shownTitles()[0], "Event evt-1")

	// A second scan never re-delivers a fired entry.
	svc.sched.CheckNow(future)
	assert.Len(t, gateway.shownTitles(), 1)
}

func TestSchedulerDeliversEarlierDueFirst(t *testing.T) {
	gateway := newFakeGateway()
	gateway.perm = notify.PermissionGranted
	svc := NewService(gateway, time.Minute)

	svc.AddReminder(eventOn("evt-c", time.Now().AddDate(0, 0, 2), "12:00"), models.ReminderDayOf)
	svc.AddReminder(tomorrowEvent("evt-a"), models.ReminderDayOf)

	future := time.Now().AddDate(0, 0, 3)
	svc.sched.CheckNow(future)

	titles := gateway.shownTitles()
	require.Len(t, titles, 2)
	assert.Contains(t, titles[0], "evt-a")
	assert.Contains(t, titles[1], "evt-c")
}

func TestSchedulerMarksFiredOnDeliveryFailure(t *testing.T) {
	gateway := newFakeGateway()
	gateway.perm = notify.PermissionGranted
	gateway.showErr = errors.New("notification backend unavailable")
	svc := NewService(gateway, time.Minute)

	svc.AddReminder(tomorrowEvent("evt-1"), models.ReminderDayOf)

	future := time.Now().AddDate(0, 0, 2)
	svc.sched.CheckNow(future)
	require.Len(t, gateway.shownTitles(), 1)

	// Failure is not retried.
	svc.sched.CheckNow(future)
	assert.Len(t, gateway.shownTitles(), 1)
}

func TestInitializeIsIdempotent(t *testing.T) {
	gateway := newFakeGateway()
	svc := NewService(gateway, time.Minute)
	defer svc.StopReminderCheck()

	ctx := context.Background()
	svc.Initialize(ctx)
	svc.Initialize(ctx)

	assert.True(t, svc.sched.Running())
	assert.Equal(t, 1, gateway.promptCalls)

	// One stop is enough: double-initialize never stacked a second ticker.
	svc.StopReminderCheck()
	assert.False(t, svc.sched.Running())
}

func TestStopReminderCheckWhenNotRunning(t *testing.T) {
	svc := NewService(newFakeGateway(), time.Minute)

	svc.StopReminderCheck()
	svc.StopReminderCheck()

	assert.False(t, svc.sched.Running())
}

func TestSchedulerStartStopCycle(t *testing.T) {
	svc := NewService(newFakeGateway(), 10*time.Millisecond)

	svc.sched.Start()
	assert.True(t, svc.sched.Running())

	svc.sched.Stop()
	assert.False(t, svc.sched.Running())

	svc.sched.Start()
	assert.True(t, svc.sched.Running())
	svc.sched.Stop()
}

func TestReminderMessageVariants(t *testing.T) {
	date := time.Date(2025, time.September, 25, 0, 0, 0, 0, time.Local)

	timed := &models.ReminderEntry{
		Kind:  models.ReminderDayOf,
		Event: models.Event{Title: "Dentist", Date: date, Time: "10:00", Location: "Clinic"},
	}
	title, body := reminderMessage(timed)
	assert.Equal(t, "Reminder: Dentist", title)
	assert.Equal(t, `"Dentist" is at 10:00 in Clinic`, body)

	dayBefore := &models.ReminderEntry{
		Kind:  models.ReminderDayBefore,
		Event: models.Event{Title: "Dentist", Date: date, Time: "10:00"},
	}
	_, body = reminderMessage(dayBefore)
	assert.Equal(t, `"Dentist" is tomorrow at 10:00`, body)

	allDay := &models.ReminderEntry{
		Kind:  models.ReminderDayOf,
		Event: models.Event{Title: "Holiday", Date: date, AllDay: true},
	}
	_, body = reminderMessage(allDay)
	assert.Equal(t, `"Holiday" is today`, body)
}
