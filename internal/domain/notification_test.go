package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseStatusFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "valid uppercase", input: "SENT", want: StatusSent},
		{name: "valid lowercase with spaces", input: " pending ", want: StatusPending},
		{name: "invalid", input: "archived", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStatusFromString(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseStatusFromString() error = %v, want ErrValidation", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseStatusFromString() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseStatusFromString() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseNotificationTypeFromString(t *testing.T) {
	t.Parallel()

	got, err := ParseNotificationTypeFromString(" essay_review ")
	if err != nil {
		t.Fatalf("ParseNotificationTypeFromString() unexpected error = %v", err)
	}
	if got != TypeEssayReview {
		t.Fatalf("ParseNotificationTypeFromString() = %s, want %s", got, TypeEssayReview)
	}

	_, err = ParseNotificationTypeFromString("newsletter")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseNotificationTypeFromString() error = %v, want ErrValidation", err)
	}
}

func TestParseChannelFromString(t *testing.T) {
	t.Parallel()

	got, err := ParseChannelFromString(" SMS ")
	if err != nil {
		t.Fatalf("ParseChannelFromString() unexpected error = %v", err)
	}
	if got != ChannelSMS {
		t.Fatalf("ParseChannelFromString() = %s, want %s", got, ChannelSMS)
	}

	_, err = ParseChannelFromString("fax")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseChannelFromString() error = %v, want ErrValidation", err)
	}
}

func TestNotificationValidate(t *testing.T) {
	t.Parallel()

	base := Notification{
		StudentID: 1,
		Title:     "Deadline approaching",
		Message:   "Your application closes soon",
		Type:      TypeDeadline,
		Channel:   ChannelEmail,
	}

	tests := []struct {
		name    string
		mutate  func(*Notification)
		wantErr bool
	}{
		{
			name: "valid notification",
			mutate: func(n *Notification) {
				// keep base
			},
		},
		{
			name: "missing student",
			mutate: func(n *Notification) {
				n.StudentID = 0
			},
			wantErr: true,
		},
		{
			name: "missing title",
			mutate: func(n *Notification) {
				n.Title = "   "
			},
			wantErr: true,
		},
		{
			name: "title too long",
			mutate: func(n *Notification) {
				n.Title = strings.Repeat("x", MaxTitleLength+1)
			},
			wantErr: true,
		},
		{
			name: "missing message",
			mutate: func(n *Notification) {
				n.Message = ""
			},
			wantErr: true,
		},
		{
			name: "invalid type",
			mutate: func(n *Notification) {
				n.Type = NotificationType("spam")
			},
			wantErr: true,
		},
		{
			name: "invalid channel",
			mutate: func(n *Notification) {
				n.Channel = Channel("carrier_pigeon")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := base
			tt.mutate(&n)

			err := n.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestNotificationDispatchable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   bool
	}{
		{status: StatusPending, want: true},
		{status: StatusFailed, want: true},
		{status: StatusSent, want: false},
		{status: StatusRead, want: false},
	}

	for _, tt := range tests {
		n := Notification{Status: tt.status}
		if got := n.Dispatchable(); got != tt.want {
			t.Fatalf("Dispatchable() from %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNotificationMarkSent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	n := Notification{Status: StatusPending}
	if err := n.MarkSent(now); err != nil {
		t.Fatalf("MarkSent() unexpected error = %v", err)
	}
	if n.Status != StatusSent {
		t.Fatalf("status = %s, want sent", n.Status)
	}
	if n.SentAt == nil || !n.SentAt.Equal(now) {
		t.Fatalf("sentAt = %v, want %v", n.SentAt, now)
	}

	read := Notification{Status: StatusRead}
	if err := read.MarkSent(now); !errors.Is(err, ErrConflict) {
		t.Fatalf("MarkSent() from read error = %v, want ErrConflict", err)
	}
}

func TestNotificationMarkFailedIncrementsRetryCount(t *testing.T) {
	t.Parallel()

	n := Notification{Status: StatusPending, MaxRetries: DefaultMaxRetries}
	for i := 1; i <= DefaultMaxRetries+1; i++ {
		if err := n.MarkFailed(); err != nil {
			t.Fatalf("MarkFailed() attempt %d unexpected error = %v", i, err)
		}
		if n.Status != StatusFailed {
			t.Fatalf("status = %s, want failed", n.Status)
		}
		if n.RetryCount != i {
			t.Fatalf("retryCount = %d, want %d", n.RetryCount, i)
		}
	}

	sent := Notification{Status: StatusSent}
	if err := sent.MarkFailed(); !errors.Is(err, ErrConflict) {
		t.Fatalf("MarkFailed() from sent error = %v, want ErrConflict", err)
	}
}

func TestNotificationMarkReadIsUnconditional(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	n := Notification{Status: StatusSent}
	n.MarkRead(first)
	if n.Status != StatusRead {
		t.Fatalf("status = %s, want read", n.Status)
	}
	if n.ReadAt == nil || !n.ReadAt.Equal(first) {
		t.Fatalf("readAt = %v, want %v", n.ReadAt, first)
	}

	n.MarkRead(second)
	if n.ReadAt == nil || !n.ReadAt.Equal(second) {
		t.Fatalf("readAt after repeat = %v, want %v", n.ReadAt, second)
	}
}

func TestNotificationFailedThenSent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	n := Notification{Status: StatusPending}
	if err := n.MarkFailed(); err != nil {
		t.Fatalf("MarkFailed() unexpected error = %v", err)
	}
	if err := n.MarkSent(now); err != nil {
		t.Fatalf("MarkSent() after failure unexpected error = %v", err)
	}
	if n.Status != StatusSent {
		t.Fatalf("status = %s, want sent", n.Status)
	}
	if n.RetryCount != 1 {
		t.Fatalf("retryCount = %d, want 1", n.RetryCount)
	}
}
