package calendar

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/famcal/reminder-agent/pkg/models"
)

// FetchEvents fetches an ICS feed and returns its upcoming events. Feed
// events carry no reminder preference flags of their own; the caller applies
// the configured defaults.
func FetchEvents(source models.ICalSource) ([]models.Event, error) {
	resp, err := http.Get(source.URL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	bodyStr := string(body)
	if err := validateICalFormat(bodyStr); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(strings.NewReader(bodyStr))
	events := []models.Event{}
	seenEventIDs := make(map[string]bool)

	now := time.Now()
	skipped := 0

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}

			event, ok := parseEvent(comp, source.ID)
			if !ok || seenEventIDs[event.ID] {
				skipped++
				continue
			}

			// Past events produce no valid trigger anyway.
			if event.StartTime().Before(now) {
				skipped++
				continue
			}

			seenEventIDs[event.ID] = true
			events = append(events, event)
		}
	}

	log.Printf("Feed %q: %d upcoming events, %d skipped", source.Name, len(events), skipped)
	return events, nil
}

func validateICalFormat(bodyStr string) error {
	// Check if response is HTML instead of iCalendar
	upperBody := strings.ToUpper(strings.TrimSpace(bodyStr))
	if strings.HasPrefix(upperBody, "<!DOCTYPE") || strings.HasPrefix(upperBody, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	// Check if it starts with BEGIN:VCALENDAR
	if !strings.HasPrefix(strings.TrimSpace(bodyStr), "BEGIN:VCALENDAR") {
		previewLen := 100
		if len(bodyStr) < previewLen {
			previewLen = len(bodyStr)
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s",
			strings.TrimSpace(bodyStr[:previewLen]))
	}

	return nil
}
