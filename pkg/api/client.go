package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/famcal/reminder-agent/pkg/models"
)

// Client is a thin client for the calendar backend's event REST API
// (/api/v1/events). The agent only reads events; the full CRUD surface is
// provided so other tools built on this package can manage them too.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// eventDTO mirrors the backend's JSON event representation.
type eventDTO struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	Location          string `json:"location"`
	Category          string `json:"category"`
	Priority          string `json:"priority"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	IsAllDay          bool   `json:"is_all_day"`
	ReminderDay       bool   `json:"reminder_day"`
	ReminderDayBefore bool   `json:"reminder_day_before"`
}

// EventRequest is the payload for creating or updating an event. The
// backend requires contact details on create; they route its own email and
// WhatsApp reminders and are opaque to this agent.
type EventRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	Date              string `json:"date"` // "2006-01-02"
	Time              string `json:"time,omitempty"`
	Location          string `json:"location,omitempty"`
	Category          string `json:"category,omitempty"`
	Priority          string `json:"priority,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	IsAllDay          bool   `json:"is_all_day"`
	ReminderDay       bool   `json:"reminder_day"`
	ReminderDayBefore bool   `json:"reminder_day_before"`
}

func (dto eventDTO) toModel() models.Event {
	return models.Event{
		ID:                "evt-" + strconv.FormatInt(dto.ID, 10),
		Title:             dto.Title,
		Description:       dto.Description,
		Date:              parseEventDate(dto.Date),
		Time:              dto.Time,
		Location:          dto.Location,
		Category:          dto.Category,
		Priority:          dto.Priority,
		AllDay:            dto.IsAllDay || dto.Time == "",
		ReminderDayOf:     dto.ReminderDay,
		ReminderDayBefore: dto.ReminderDayBefore,
	}
}

// parseEventDate accepts both the plain date the mobile endpoints use and
// the RFC 3339 timestamp the v1 endpoints serialize.
func parseEventDate(value string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		}
	}
	return time.Time{}
}

// List fetches all events.
func (c *Client) List(ctx context.Context) ([]models.Event, error) {
	var dtos []eventDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/", nil, &dtos); err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(dtos))
	for _, dto := range dtos {
		events = append(events, dto.toModel())
	}
	return events, nil
}

// Get fetches a single event by its backend ID.
func (c *Client) Get(ctx context.Context, id int64) (models.Event, error) {
	var dto eventDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/events/%d", id), nil, &dto); err != nil {
		return models.Event{}, err
	}
	return dto.toModel(), nil
}

// Create creates an event and returns the persisted version.
func (c *Client) Create(ctx context.Context, req EventRequest) (models.Event, error) {
	var resp struct {
		Event eventDTO `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/events/", req, &resp); err != nil {
		return models.Event{}, err
	}
	return resp.Event.toModel(), nil
}

// Update updates an event and returns the persisted version.
func (c *Client) Update(ctx context.Context, id int64, req EventRequest) (models.Event, error) {
	var dto eventDTO
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/events/%d", id), req, &dto); err != nil {
		return models.Event{}, err
	}
	return dto.toModel(), nil
}

// Delete deletes an event by its backend ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/events/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("backend returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
