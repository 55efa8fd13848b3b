package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a notification.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusRead    Status = "read"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed, StatusRead:
		return true
	}
	return false
}

func ParseStatusFromString(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid status %q", ErrValidation, s)
	}
	return st, nil
}

// NotificationType classifies why a notification exists.
type NotificationType string

const (
	TypeReminder     NotificationType = "reminder"
	TypeDeadline     NotificationType = "deadline"
	TypeUpdate       NotificationType = "update"
	TypeWelcome      NotificationType = "welcome"
	TypeEssayReview  NotificationType = "essay_review"
	TypeCollegeMatch NotificationType = "college_match"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case TypeReminder, TypeDeadline, TypeUpdate, TypeWelcome, TypeEssayReview, TypeCollegeMatch:
		return true
	}
	return false
}

func ParseNotificationTypeFromString(s string) (NotificationType, error) {
	t := NotificationType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid notification type %q", ErrValidation, s)
	}
	return t, nil
}

// Channel represents the delivery medium.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp:
		return true
	}
	return false
}

func ParseChannelFromString(s string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !ch.IsValid() {
		return "", fmt.Errorf("%w: invalid channel %q", ErrValidation, s)
	}
	return ch, nil
}

// Metadata is the opaque key-value payload carried by a notification.
// It is serialized to JSON text at the store boundary only.
type Metadata map[string]any

const (
	MaxTitleLength    = 255
	DefaultMaxRetries = 3
)

// Notification is the core entity: one scheduled or immediate message to a
// student over one channel.
type Notification struct {
	ID          int64
	StudentID   int64
	Title       string
	Message     string
	Type        NotificationType
	Channel     Channel
	Status      Status
	ScheduledAt *time.Time
	SentAt      *time.Time
	ReadAt      *time.Time
	Metadata    Metadata
	RetryCount  int
	MaxRetries  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (n *Notification) Validate() error {
	if n.StudentID <= 0 {
		return fmt.Errorf("%w: student id is required", ErrValidation)
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if titleLen := len([]rune(n.Title)); titleLen > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters (got %d)", ErrValidation, MaxTitleLength, titleLen)
	}
	if strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: invalid notification type %q", ErrValidation, n.Type)
	}
	if !n.Channel.IsValid() {
		return fmt.Errorf("%w: invalid channel %q", ErrValidation, n.Channel)
	}
	return nil
}

// Dispatchable reports whether a delivery attempt is legal from the current
// status. Only pending and failed notifications may be dispatched.
func (n *Notification) Dispatchable() bool {
	return n.Status == StatusPending || n.Status == StatusFailed
}

// MarkSent applies the dispatch-success transition: pending|failed -> sent,
// setting sent_at. The retry count is left untouched.
func (n *Notification) MarkSent(now time.Time) error {
	if !n.Dispatchable() {
		return fmt.Errorf("%w: cannot mark %s notification as sent", ErrConflict, n.Status)
	}
	sentAt := now.UTC()
	n.Status = StatusSent
	n.SentAt = &sentAt
	return nil
}

// MarkFailed applies the dispatch-failure transition: pending|failed -> failed,
// incrementing the retry count. MaxRetries is advisory bookkeeping; the
// transition never refuses an attempt because the counter passed it.
func (n *Notification) MarkFailed() error {
	if !n.Dispatchable() {
		return fmt.Errorf("%w: cannot mark %s notification as failed", ErrConflict, n.Status)
	}
	n.Status = StatusFailed
	n.RetryCount++
	return nil
}

// MarkRead records the read transition. Repeated calls rewrite read_at with
// the latest clock value; there is no guard against re-invocation.
func (n *Notification) MarkRead(now time.Time) {
	readAt := now.UTC()
	n.Status = StatusRead
	n.ReadAt = &readAt
}
