package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/repository"
	"github.com/admitpath/admissions-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type NotificationService interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListByStudent(ctx context.Context, studentID int64, params repository.NotificationListParams) ([]domain.Notification, error)
	Update(ctx context.Context, id int64, fields repository.NotificationUpdate) (*domain.Notification, error)
	MarkRead(ctx context.Context, id int64) (*domain.Notification, error)
	Dispatch(ctx context.Context, id int64) (bool, error)
	CreateReminder(ctx context.Context, input service.ReminderInput) ([]domain.Notification, error)
	SendBulk(ctx context.Context, input service.BulkInput) ([]domain.Notification, error)
	ListDue(ctx context.Context) ([]domain.Notification, error)
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{service: service}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService) error {
	h, err := NewNotificationHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/notifications", h.CreateNotification)
	v1.Post("/notifications/reminders", h.CreateReminder)
	v1.Post("/notifications/bulk", h.SendBulk)
	v1.Get("/notifications/pending/due", h.ListDue)
	v1.Get("/notifications/student/:studentId", h.ListStudentNotifications)
	v1.Get("/notifications/:id", h.GetNotification)
	v1.Put("/notifications/:id", h.UpdateNotification)
	v1.Post("/notifications/:id/read", h.MarkNotificationRead)
	v1.Post("/notifications/:id/dispatch", h.DispatchNotification)

	return nil
}

type createNotificationRequest struct {
	StudentID   int64           `json:"studentId"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	Type        string          `json:"type"`
	Channel     string          `json:"channel"`
	ScheduledAt *time.Time      `json:"scheduledAt"`
	Metadata    domain.Metadata `json:"metadata"`
	MaxRetries  *int            `json:"maxRetries,omitempty"`
}

type updateNotificationRequest struct {
	Title       *string    `json:"title"`
	Message     *string    `json:"message"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Status      *string    `json:"status"`
}

type createReminderRequest struct {
	StudentID    int64     `json:"studentId"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	ReminderDate time.Time `json:"reminderDate"`
	Channels     []string  `json:"channels"`
}

type sendBulkRequest struct {
	StudentIDs  []int64    `json:"studentIds"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	Channel     string     `json:"channel"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type notificationResponse struct {
	ID          int64           `json:"id"`
	StudentID   int64           `json:"studentId"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	Type        string          `json:"type"`
	Channel     string          `json:"channel"`
	Status      string          `json:"status"`
	ScheduledAt *time.Time      `json:"scheduledAt,omitempty"`
	SentAt      *time.Time      `json:"sentAt,omitempty"`
	ReadAt      *time.Time      `json:"readAt,omitempty"`
	Metadata    domain.Metadata `json:"metadata,omitempty"`
	RetryCount  int             `json:"retryCount"`
	MaxRetries  int             `json:"maxRetries"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type notificationListResponse struct {
	Data []notificationResponse `json:"data"`
}

func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var req createNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	notification, err := requestToDomainNotification(req)
	if err != nil {
		return toHTTPError(err)
	}

	created, err := h.service.Create(c.Context(), &notification)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toNotificationResponse(created))
}

func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "notification id")
	if err != nil {
		return toHTTPError(err)
	}

	notification, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(notification))
}

func (h *NotificationHandler) ListStudentNotifications(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "studentId", "student id")
	if err != nil {
		return toHTTPError(err)
	}

	params := repository.NotificationListParams{
		Limit: c.QueryInt("limit", 0),
	}
	if rawStatus := strings.TrimSpace(c.Query("status")); rawStatus != "" {
		status, err := domain.ParseStatusFromString(rawStatus)
		if err != nil {
			return toHTTPError(err)
		}
		params.Status = &status
	}

	notifications, err := h.service.ListByStudent(c.Context(), studentID, params)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(notificationListResponse{
		Data: toNotificationResponses(notifications),
	})
}

func (h *NotificationHandler) UpdateNotification(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "notification id")
	if err != nil {
		return toHTTPError(err)
	}

	var req updateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	fields := repository.NotificationUpdate{
		Title:       req.Title,
		Message:     req.Message,
		ScheduledAt: req.ScheduledAt,
	}
	if req.Status != nil {
		status, err := domain.ParseStatusFromString(*req.Status)
		if err != nil {
			return toHTTPError(err)
		}
		fields.Status = &status
	}

	updated, err := h.service.Update(c.Context(), id, fields)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(updated))
}

func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "notification id")
	if err != nil {
		return toHTTPError(err)
	}

	notification, err := h.service.MarkRead(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(notification))
}

func (h *NotificationHandler) DispatchNotification(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "notification id")
	if err != nil {
		return toHTTPError(err)
	}

	sent, err := h.service.Dispatch(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	if !sent {
		return fiber.NewError(fiber.StatusBadRequest, "failed to send notification")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notificationId": id,
		"status":         domain.StatusSent.String(),
	})
}

func (h *NotificationHandler) CreateReminder(c *fiber.Ctx) error {
	var req createReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	channels := make([]domain.Channel, 0, len(req.Channels))
	for _, raw := range req.Channels {
		channel, err := domain.ParseChannelFromString(raw)
		if err != nil {
			return toHTTPError(err)
		}
		channels = append(channels, channel)
	}

	created, err := h.service.CreateReminder(c.Context(), service.ReminderInput{
		StudentID:    req.StudentID,
		Title:        req.Title,
		Message:      req.Message,
		ReminderDate: req.ReminderDate,
		Channels:     channels,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(notificationListResponse{
		Data: toNotificationResponses(created),
	})
}

func (h *NotificationHandler) SendBulk(c *fiber.Ctx) error {
	var req sendBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	notificationType, err := domain.ParseNotificationTypeFromString(req.Type)
	if err != nil {
		return toHTTPError(err)
	}
	channel, err := domain.ParseChannelFromString(req.Channel)
	if err != nil {
		return toHTTPError(err)
	}

	created, err := h.service.SendBulk(c.Context(), service.BulkInput{
		StudentIDs:  req.StudentIDs,
		Title:       req.Title,
		Message:     req.Message,
		Type:        notificationType,
		Channel:     channel,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(notificationListResponse{
		Data: toNotificationResponses(created),
	})
}

func (h *NotificationHandler) ListDue(c *fiber.Ctx) error {
	due, err := h.service.ListDue(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(notificationListResponse{
		Data: toNotificationResponses(due),
	})
}

func parseIDParam(c *fiber.Ctx, param, field string) (int64, error) {
	raw := strings.TrimSpace(c.Params(param))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrValidation, field)
	}
	return id, nil
}

func requestToDomainNotification(req createNotificationRequest) (domain.Notification, error) {
	notificationType, err := domain.ParseNotificationTypeFromString(req.Type)
	if err != nil {
		return domain.Notification{}, err
	}

	channel, err := domain.ParseChannelFromString(req.Channel)
	if err != nil {
		return domain.Notification{}, err
	}

	n := domain.Notification{
		StudentID:   req.StudentID,
		Title:       strings.TrimSpace(req.Title),
		Message:     strings.TrimSpace(req.Message),
		Type:        notificationType,
		Channel:     channel,
		ScheduledAt: req.ScheduledAt,
		Metadata:    req.Metadata,
	}
	if req.MaxRetries != nil {
		n.MaxRetries = *req.MaxRetries
	}

	return n, nil
}

func toNotificationResponses(notifications []domain.Notification) []notificationResponse {
	responses := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		n := notification
		responses = append(responses, toNotificationResponse(&n))
	}
	return responses
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	if n == nil {
		return notificationResponse{}
	}

	return notificationResponse{
		ID:          n.ID,
		StudentID:   n.StudentID,
		Title:       n.Title,
		Message:     n.Message,
		Type:        n.Type.String(),
		Channel:     n.Channel.String(),
		Status:      n.Status.String(),
		ScheduledAt: n.ScheduledAt,
		SentAt:      n.SentAt,
		ReadAt:      n.ReadAt,
		Metadata:    n.Metadata,
		RetryCount:  n.RetryCount,
		MaxRetries:  n.MaxRetries,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
