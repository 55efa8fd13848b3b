package events

import (
	"testing"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
)

func validEvent() NotificationEvent {
	return NotificationEvent{
		EventID:        "7cf1c6a1-3b6e-4f13-a9f6-2d2f4a6f8c1e",
		Type:           EventSent,
		NotificationID: 42,
		StudentID:      7,
		Channel:        domain.ChannelEmail,
		Status:         domain.StatusSent,
		OccurredAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNotificationEventValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(e *NotificationEvent)
		wantErr bool
	}{
		{
			name:   "valid event",
			mutate: func(e *NotificationEvent) {},
		},
		{
			name:    "missing event id",
			mutate:  func(e *NotificationEvent) { e.EventID = "   " },
			wantErr: true,
		},
		{
			name:    "unknown event type",
			mutate:  func(e *NotificationEvent) { e.Type = EventType("notification.archived") },
			wantErr: true,
		},
		{
			name:    "missing notification id",
			mutate:  func(e *NotificationEvent) { e.NotificationID = 0 },
			wantErr: true,
		},
		{
			name:    "unknown channel",
			mutate:  func(e *NotificationEvent) { e.Channel = domain.Channel("fax") },
			wantErr: true,
		},
		{
			name:    "unknown status",
			mutate:  func(e *NotificationEvent) { e.Status = domain.Status("archived") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := validEvent()
			tt.mutate(&event)

			err := event.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewNotificationEvent(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	occurredAt := time.Date(2026, 3, 1, 13, 30, 0, 0, loc)

	notification := &domain.Notification{
		ID:        42,
		StudentID: 7,
		Channel:   domain.ChannelPush,
		Status:    domain.StatusFailed,
	}

	event := NewNotificationEvent(EventFailed, "event-1", notification, occurredAt)

	if event.EventID != "event-1" {
		t.Fatalf("EventID = %q, want %q", event.EventID, "event-1")
	}
	if event.Type != EventFailed {
		t.Fatalf("Type = %q, want %q", event.Type, EventFailed)
	}
	if event.NotificationID != 42 || event.StudentID != 7 {
		t.Fatalf("ids = (%d, %d), want (42, 7)", event.NotificationID, event.StudentID)
	}
	if event.Channel != domain.ChannelPush {
		t.Fatalf("Channel = %q, want %q", event.Channel, domain.ChannelPush)
	}
	if event.Status != domain.StatusFailed {
		t.Fatalf("Status = %q, want %q", event.Status, domain.StatusFailed)
	}
	if event.OccurredAt.Location() != time.UTC {
		t.Fatalf("OccurredAt location = %v, want UTC", event.OccurredAt.Location())
	}
	if !event.OccurredAt.Equal(occurredAt) {
		t.Fatalf("OccurredAt = %v, want %v", event.OccurredAt, occurredAt)
	}
}
