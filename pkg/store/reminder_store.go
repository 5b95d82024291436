package store

import (
	"sort"
	"sync"
	"time"

	"github.com/famcal/reminder-agent/pkg/models"
)

// ReminderStore manages scheduled reminders in memory, keyed by
// (event ID, reminder kind). State lives for the process session only;
// entries are removed via RemoveAll and never expire by age.
type ReminderStore struct {
	mu      sync.RWMutex
	entries map[models.ReminderKey]*models.ReminderEntry
}

func NewReminderStore() *ReminderStore {
	return &ReminderStore{
		entries: make(map[models.ReminderKey]*models.ReminderEntry),
	}
}

// Put inserts a reminder entry, overwriting any prior entry with the
// same (event ID, kind) key.
func (rs *ReminderStore) Put(entry *models.ReminderEntry) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.entries[entry.Key()] = entry
}

// RemoveAll removes every entry for the given event, across all kinds and
// regardless of fired state. Returns the number of entries removed.
func (rs *ReminderStore) RemoveAll(eventID string) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	removed := 0
	for key := range rs.entries {
		if key.EventID == eventID {
			delete(rs.entries, key)
			removed++
		}
	}
	return removed
}

// DueUnfired returns all entries whose trigger time has passed and that
// have not been delivered yet, sorted ascending by trigger time so the
// earliest-due reminder is notified first.
func (rs *ReminderStore) DueUnfired(now time.Time) []*models.ReminderEntry {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	due := make([]*models.ReminderEntry, 0)
	for _, entry := range rs.entries {
		if !entry.Fired && !entry.TriggerAt.After(now) {
			due = append(due, entry)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].TriggerAt.Before(due[j].TriggerAt)
	})
	return due
}

// MarkFired marks the entry for the given key as delivered. Idempotent;
// a fired entry stays fired and is never returned by DueUnfired again.
func (rs *ReminderStore) MarkFired(key models.ReminderKey) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if entry, exists := rs.entries[key]; exists {
		entry.Fired = true
	}
}

// Pending returns read-only views of the unfired entries still in the
// future, sorted ascending by trigger time.
func (rs *ReminderStore) Pending(now time.Time) []models.PendingReminder {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	pending := make([]models.PendingReminder, 0, len(rs.entries))
	for _, entry := range rs.entries {
		if !entry.Fired && entry.TriggerAt.After(now) {
			pending = append(pending, models.PendingReminder{
				Event:     entry.Event,
				Kind:      entry.Kind,
				TriggerAt: entry.TriggerAt,
			})
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].TriggerAt.Before(pending[j].TriggerAt)
	})
	return pending
}

// Len returns the total number of entries, fired included.
func (rs *ReminderStore) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return len(rs.entries)
}
