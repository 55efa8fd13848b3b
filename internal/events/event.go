package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
)

// LifecycleQueue is the broker queue carrying notification lifecycle events.
const LifecycleQueue = "notification.lifecycle"

// EventType names a notification lifecycle edge.
type EventType string

const (
	EventCreated EventType = "notification.created"
	EventSent    EventType = "notification.sent"
	EventFailed  EventType = "notification.failed"
	EventRead    EventType = "notification.read"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventCreated, EventSent, EventFailed, EventRead:
		return true
	}
	return false
}

// NotificationEvent is the broker payload emitted after a lifecycle change.
type NotificationEvent struct {
	EventID        string         `json:"eventId"`
	Type           EventType      `json:"type"`
	NotificationID int64          `json:"notificationId"`
	StudentID      int64          `json:"studentId"`
	Channel        domain.Channel `json:"channel"`
	Status         domain.Status  `json:"status"`
	OccurredAt     time.Time      `json:"occurredAt"`
}

func (e NotificationEvent) Validate() error {
	if strings.TrimSpace(e.EventID) == "" {
		return fmt.Errorf("eventId is required")
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("invalid event type %q", e.Type)
	}
	if e.NotificationID <= 0 {
		return fmt.Errorf("notificationId is required")
	}
	if !e.Channel.IsValid() {
		return fmt.Errorf("invalid channel %q", e.Channel)
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("invalid status %q", e.Status)
	}
	return nil
}

// NewNotificationEvent builds a lifecycle event from the notification's
// post-transition state.
func NewNotificationEvent(eventType EventType, eventID string, n *domain.Notification, occurredAt time.Time) NotificationEvent {
	return NotificationEvent{
		EventID:        eventID,
		Type:           eventType,
		NotificationID: n.ID,
		StudentID:      n.StudentID,
		Channel:        n.Channel,
		Status:         n.Status,
		OccurredAt:     occurredAt.UTC(),
	}
}
