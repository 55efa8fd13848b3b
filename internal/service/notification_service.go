package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/channel"
	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/events"
	"github.com/admitpath/admissions-api/internal/observability"
	"github.com/admitpath/admissions-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dispatchTimeout bounds a single channel-sender call so a hung provider
// cannot block a dispatch indefinitely.
const dispatchTimeout = 30 * time.Second

// ReminderInput fans one event out across several channels for one student.
type ReminderInput struct {
	StudentID    int64
	Title        string
	Message      string
	ReminderDate time.Time
	Channels     []domain.Channel
}

// BulkInput fans one notification template out across several students.
type BulkInput struct {
	StudentIDs  []int64
	Title       string
	Message     string
	Type        domain.NotificationType
	Channel     domain.Channel
	ScheduledAt *time.Time
}

type NotificationService struct {
	notifications repository.NotificationRepository
	senders       *channel.Registry
	publisher     events.Publisher
	logger        *zap.Logger
	metrics       *observability.Metrics
	now           func() time.Time
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	senders *channel.Registry,
	publisher events.Publisher,
	logger *zap.Logger,
) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		notifications: notifications,
		senders:       senders,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}, nil
}

func (s *NotificationService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Create persists a new notification. Whatever lifecycle state the caller
// passed in is discarded: a fresh record is always pending with zero retries.
func (s *NotificationService) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := prepareNotificationForCreate(n); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	s.metrics.IncNotificationCreated(n.Type.String(), n.Channel.String())
	s.publishEvent(ctx, events.EventCreated, n)

	return n, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	return s.notifications.GetByID(ctx, id)
}

func (s *NotificationService) ListByStudent(
	ctx context.Context,
	studentID int64,
	params repository.NotificationListParams,
) ([]domain.Notification, error) {
	if studentID <= 0 {
		return nil, fmt.Errorf("%w: student id is required", domain.ErrValidation)
	}
	return s.notifications.ListByStudent(ctx, studentID, params)
}

// Update applies a partial update. Passed enum values are validated, but a
// status set this way is written directly without consulting the state
// machine; dispatch and mark-read remain the only paths that apply
// transition side effects.
func (s *NotificationService) Update(
	ctx context.Context,
	id int64,
	fields repository.NotificationUpdate,
) (*domain.Notification, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	if fields.Title != nil {
		trimmed := strings.TrimSpace(*fields.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
		}
		if titleLen := len([]rune(trimmed)); titleLen > domain.MaxTitleLength {
			return nil, fmt.Errorf("%w: title exceeds %d characters (got %d)", domain.ErrValidation, domain.MaxTitleLength, titleLen)
		}
		fields.Title = &trimmed
	}
	if fields.Message != nil && strings.TrimSpace(*fields.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}
	if fields.Status != nil && !fields.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, *fields.Status)
	}

	return s.notifications.Update(ctx, id, fields)
}

// MarkRead records the read transition. Marking an already-read notification
// rewrites read_at with the current clock value.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	notification, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notification.MarkRead(s.now())
	if err := s.notifications.SaveTransition(ctx, notification); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventRead, notification)
	return notification, nil
}

// Dispatch attempts delivery of one notification through its channel sender.
// It fails closed: an unknown id or a non-dispatchable status yields false
// with no side effects. Sender errors are converted to the failed transition
// and reported as false, never propagated. Persistence errors do propagate.
func (s *NotificationService) Dispatch(ctx context.Context, id int64) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("dispatch requested for unknown notification", zap.Int64("notificationId", id))
			return false, nil
		}
		return false, err
	}

	if !notification.Dispatchable() {
		s.logger.Warn("dispatch requested for non-dispatchable notification",
			zap.Int64("notificationId", id),
			zap.String("status", notification.Status.String()),
		)
		return false, nil
	}

	sendErr := s.attemptDelivery(ctx, notification)
	if sendErr != nil {
		if err := notification.MarkFailed(); err != nil {
			return false, err
		}
		if err := s.notifications.SaveTransition(ctx, notification); err != nil {
			return false, err
		}

		s.logger.Warn("notification delivery failed",
			zap.Int64("notificationId", notification.ID),
			zap.String("channel", notification.Channel.String()),
			zap.Int("retryCount", notification.RetryCount),
			zap.Error(sendErr),
		)
		s.metrics.IncDispatch(notification.Channel.String(), false)
		s.publishEvent(ctx, events.EventFailed, notification)
		return false, nil
	}

	if err := notification.MarkSent(s.now()); err != nil {
		return false, err
	}
	if err := s.notifications.SaveTransition(ctx, notification); err != nil {
		return false, err
	}

	s.logger.Info("notification sent",
		zap.Int64("notificationId", notification.ID),
		zap.String("channel", notification.Channel.String()),
	)
	s.metrics.IncDispatch(notification.Channel.String(), true)
	s.publishEvent(ctx, events.EventSent, notification)
	return true, nil
}

func (s *NotificationService) attemptDelivery(ctx context.Context, n *domain.Notification) error {
	sender, err := s.senders.Sender(n.Channel)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	start := s.now()
	err = sender.Send(sendCtx, *n)
	s.metrics.ObserveDispatchDuration(n.Channel.String(), s.now().Sub(start))
	return err
}

// CreateReminder creates one notification per channel for a single event.
// There is no batch atomicity: a failure leaves earlier creations in place.
func (s *NotificationService) CreateReminder(ctx context.Context, input ReminderInput) ([]domain.Notification, error) {
	channels := input.Channels
	if len(channels) == 0 {
		channels = []domain.Channel{domain.ChannelEmail}
	}
	if input.ReminderDate.IsZero() {
		return nil, fmt.Errorf("%w: reminder date is required", domain.ErrValidation)
	}

	reminderDate := input.ReminderDate
	created := make([]domain.Notification, 0, len(channels))
	for _, ch := range channels {
		notification := domain.Notification{
			StudentID:   input.StudentID,
			Title:       input.Title,
			Message:     input.Message,
			Type:        domain.TypeReminder,
			Channel:     ch,
			ScheduledAt: &reminderDate,
		}

		stored, err := s.Create(ctx, &notification)
		if err != nil {
			return nil, err
		}
		created = append(created, *stored)
	}

	return created, nil
}

// SendBulk creates one notification per student id, in input order. A
// failure does not roll back previously created notifications.
func (s *NotificationService) SendBulk(ctx context.Context, input BulkInput) ([]domain.Notification, error) {
	if len(input.StudentIDs) == 0 {
		return nil, fmt.Errorf("%w: student ids are required", domain.ErrValidation)
	}

	created := make([]domain.Notification, 0, len(input.StudentIDs))
	for _, studentID := range input.StudentIDs {
		notification := domain.Notification{
			StudentID:   studentID,
			Title:       input.Title,
			Message:     input.Message,
			Type:        input.Type,
			Channel:     input.Channel,
			ScheduledAt: input.ScheduledAt,
		}

		stored, err := s.Create(ctx, &notification)
		if err != nil {
			return nil, err
		}
		created = append(created, *stored)
	}

	return created, nil
}

// ListDue answers which notifications are ready for dispatch right now. It
// is a pure read; the dispatch worker polls it to drive delivery.
func (s *NotificationService) ListDue(ctx context.Context) ([]domain.Notification, error) {
	return s.notifications.ListDue(ctx, s.now(), 0)
}

func (s *NotificationService) publishEvent(ctx context.Context, eventType events.EventType, n *domain.Notification) {
	if s.publisher == nil {
		return
	}

	event := events.NewNotificationEvent(eventType, uuid.NewString(), n, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish lifecycle event",
			zap.String("eventType", string(eventType)),
			zap.Int64("notificationId", n.ID),
			zap.Error(err),
		)
	}
}

func prepareNotificationForCreate(n *domain.Notification) error {
	if n == nil {
		return fmt.Errorf("%w: notification is required", domain.ErrValidation)
	}

	n.ID = 0
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	n.Status = domain.StatusPending
	n.RetryCount = 0
	if n.MaxRetries <= 0 {
		n.MaxRetries = domain.DefaultMaxRetries
	}
	n.SentAt = nil
	n.ReadAt = nil

	return n.Validate()
}
