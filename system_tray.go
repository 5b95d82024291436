package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/famcal/reminder-agent/pkg/models"
)

func (ra *ReminderAgent) setupSystemTray() {
	ra.updateSystemTrayMenu()
}

func (ra *ReminderAgent) updateSystemTrayMenu() {
	desk, ok := ra.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	// Next reminders at the top
	upcoming := ra.reminders.PendingReminders()
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Next reminders:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, pending := range upcoming {
			text := fmt.Sprintf("  %s - %s%s",
				pending.TriggerAt.Format("Mon 3:04 PM"),
				truncateString(pending.Event.Title, 35),
				kindSuffix(pending.Kind))

			item := fyne.NewMenuItem(text, nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Sync Now", func() {
			go ra.syncEvents()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			ra.quit()
		}),
	)

	menu := fyne.NewMenu("Family Calendar", menuItems...)
	desk.SetSystemTrayMenu(menu)
}

func kindSuffix(kind models.ReminderKind) string {
	if kind == models.ReminderDayBefore {
		return " (day before)"
	}
	return ""
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
