package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/repository"
	"github.com/admitpath/admissions-api/internal/service"
	"github.com/admitpath/admissions-api/internal/transport"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestNotificationIntegration_CreateNotification(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		createFn: func(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
			if err := n.Validate(); err != nil {
				return nil, err
			}
			n.ID = 42
			n.Status = domain.StatusPending
			n.MaxRetries = domain.DefaultMaxRetries
			return n, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	validBody := `{"studentId":7,"title":"Deadline","message":"Application closes soon","type":"deadline","channel":"email"}`
	resp, body := performRequest(t, app, http.MethodPost, "/v1/notifications", validBody)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(body))
	}
	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created["id"] != float64(42) {
		t.Fatalf("id = %v, want 42", created["id"])
	}
	if created["status"] != domain.StatusPending.String() {
		t.Fatalf("status = %v, want pending", created["status"])
	}

	invalidTypeBody := `{"studentId":7,"title":"Deadline","message":"hello","type":"spam","channel":"email"}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/notifications", invalidTypeBody)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for invalid type", resp.StatusCode)
	}

	missingTitleBody := `{"studentId":7,"title":"","message":"hello","type":"deadline","channel":"email"}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/notifications", missingTitleBody)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for missing title", resp.StatusCode)
	}
}

func TestNotificationIntegration_GetNotification(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Notification, error) {
			if id != 42 {
				return nil, domain.ErrNotFound
			}
			return &domain.Notification{
				ID:        42,
				StudentID: 7,
				Title:     "Deadline",
				Message:   "Application closes soon",
				Type:      domain.TypeDeadline,
				Channel:   domain.ChannelEmail,
				Status:    domain.StatusSent,
			}, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/notifications/42", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	resp, _ = performRequest(t, app, http.MethodGet, "/v1/notifications/999", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown id", resp.StatusCode)
	}

	resp, _ = performRequest(t, app, http.MethodGet, "/v1/notifications/abc", "")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for non-numeric id", resp.StatusCode)
	}
}

func TestNotificationIntegration_ListStudentNotifications(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		listByStudentFn: func(ctx context.Context, studentID int64, params repository.NotificationListParams) ([]domain.Notification, error) {
			if studentID != 7 {
				t.Fatalf("studentID = %d, want 7", studentID)
			}
			if params.Status == nil || *params.Status != domain.StatusPending {
				t.Fatalf("status filter = %v, want pending", params.Status)
			}
			if params.Limit != 10 {
				t.Fatalf("limit = %d, want 10", params.Limit)
			}
			return []domain.Notification{
				{ID: 1, StudentID: 7, Status: domain.StatusPending, Type: domain.TypeReminder, Channel: domain.ChannelEmail},
			}, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/notifications/student/7?status=pending&limit=10", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(parsed.Data) != 1 {
		t.Fatalf("data len = %d, want 1", len(parsed.Data))
	}

	resp, _ = performRequest(t, app, http.MethodGet, "/v1/notifications/student/7?status=archived", "")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for invalid status filter", resp.StatusCode)
	}
}

func TestNotificationIntegration_MarkRead(t *testing.T) {
	t.Parallel()

	readAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubNotificationService{
		markReadFn: func(ctx context.Context, id int64) (*domain.Notification, error) {
			return &domain.Notification{
				ID:        id,
				StudentID: 7,
				Status:    domain.StatusRead,
				Type:      domain.TypeWelcome,
				Channel:   domain.ChannelInApp,
				ReadAt:    &readAt,
			}, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodPost, "/v1/notifications/42/read", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed["status"] != domain.StatusRead.String() {
		t.Fatalf("status = %v, want read", parsed["status"])
	}
	if parsed["readAt"] != "2026-03-01T10:00:00Z" {
		t.Fatalf("readAt = %v, want 2026-03-01T10:00:00Z", parsed["readAt"])
	}
}

func TestNotificationIntegration_Dispatch(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		dispatchFn: func(ctx context.Context, id int64) (bool, error) {
			return id == 42, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodPost, "/v1/notifications/42/dispatch", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed["status"] != domain.StatusSent.String() {
		t.Fatalf("status = %v, want sent", parsed["status"])
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/v1/notifications/43/dispatch", "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when delivery fails", resp.StatusCode)
	}
}

func TestNotificationIntegration_CreateReminder(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		createReminderFn: func(ctx context.Context, input service.ReminderInput) ([]domain.Notification, error) {
			if len(input.Channels) != 2 {
				t.Fatalf("channels = %v, want 2 parsed channels", input.Channels)
			}
			created := make([]domain.Notification, 0, len(input.Channels))
			for i, ch := range input.Channels {
				created = append(created, domain.Notification{
					ID:        int64(i + 1),
					StudentID: input.StudentID,
					Type:      domain.TypeReminder,
					Channel:   ch,
					Status:    domain.StatusPending,
				})
			}
			return created, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	body := `{"studentId":7,"title":"Campus visit","message":"Tomorrow at 9","reminderDate":"2026-09-01T09:00:00Z","channels":["email","push"]}`
	resp, respBody := performRequest(t, app, http.MethodPost, "/v1/notifications/reminders", body)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(parsed.Data) != 2 {
		t.Fatalf("data len = %d, want 2", len(parsed.Data))
	}

	badChannelBody := `{"studentId":7,"title":"Campus visit","message":"Tomorrow","reminderDate":"2026-09-01T09:00:00Z","channels":["fax"]}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/notifications/reminders", badChannelBody)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for invalid channel", resp.StatusCode)
	}
}

func TestNotificationIntegration_SendBulk(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		sendBulkFn: func(ctx context.Context, input service.BulkInput) ([]domain.Notification, error) {
			created := make([]domain.Notification, 0, len(input.StudentIDs))
			for i, studentID := range input.StudentIDs {
				created = append(created, domain.Notification{
					ID:        int64(i + 1),
					StudentID: studentID,
					Type:      input.Type,
					Channel:   input.Channel,
					Status:    domain.StatusPending,
				})
			}
			return created, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	body := `{"studentIds":[1,2,3],"title":"New feature","message":"College match is live","type":"update","channel":"in_app"}`
	resp, respBody := performRequest(t, app, http.MethodPost, "/v1/notifications/bulk", body)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(parsed.Data) != 3 {
		t.Fatalf("data len = %d, want 3", len(parsed.Data))
	}
	for i, want := range []float64{1, 2, 3} {
		if parsed.Data[i]["studentId"] != want {
			t.Fatalf("data[%d].studentId = %v, want %v", i, parsed.Data[i]["studentId"], want)
		}
	}
}

func TestNotificationIntegration_ListDue(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		listDueFn: func(ctx context.Context) ([]domain.Notification, error) {
			return []domain.Notification{
				{ID: 5, StudentID: 7, Status: domain.StatusPending, Type: domain.TypeReminder, Channel: domain.ChannelEmail},
			}, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/notifications/pending/due", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(parsed.Data) != 1 {
		t.Fatalf("data len = %d, want 1", len(parsed.Data))
	}
	if parsed.Data[0]["id"] != float64(5) {
		t.Fatalf("data[0].id = %v, want 5", parsed.Data[0]["id"])
	}
}

func TestNotificationIntegration_UpdateNotification(t *testing.T) {
	t.Parallel()

	svc := &stubNotificationService{
		updateFn: func(ctx context.Context, id int64, fields repository.NotificationUpdate) (*domain.Notification, error) {
			if fields.Title == nil || *fields.Title != "Updated title" {
				t.Fatalf("title = %v, want Updated title", fields.Title)
			}
			if fields.Status == nil || *fields.Status != domain.StatusFailed {
				t.Fatalf("status = %v, want failed", fields.Status)
			}
			return &domain.Notification{
				ID:        id,
				StudentID: 7,
				Title:     *fields.Title,
				Status:    *fields.Status,
				Type:      domain.TypeUpdate,
				Channel:   domain.ChannelEmail,
			}, nil
		},
	}

	app := newNotificationTestApp(t, svc)

	body := `{"title":"Updated title","status":"failed"}`
	resp, respBody := performRequest(t, app, http.MethodPut, "/v1/notifications/42", body)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(respBody))
	}

	badStatusBody := `{"status":"archived"}`
	resp, _ = performRequest(t, app, http.MethodPut, "/v1/notifications/42", badStatusBody)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for invalid status", resp.StatusCode)
	}
}

func newNotificationTestApp(t *testing.T, svc NotificationService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(zap.NewNop()),
	})

	if err := RegisterNotificationRoutes(app, svc); err != nil {
		t.Fatalf("RegisterNotificationRoutes() error = %v", err)
	}

	return app
}

func performRequest(t *testing.T, app *fiber.App, method string, path string, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

type stubNotificationService struct {
	createFn         func(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	getByIDFn        func(ctx context.Context, id int64) (*domain.Notification, error)
	listByStudentFn  func(ctx context.Context, studentID int64, params repository.NotificationListParams) ([]domain.Notification, error)
	updateFn         func(ctx context.Context, id int64, fields repository.NotificationUpdate) (*domain.Notification, error)
	markReadFn       func(ctx context.Context, id int64) (*domain.Notification, error)
	dispatchFn       func(ctx context.Context, id int64) (bool, error)
	createReminderFn func(ctx context.Context, input service.ReminderInput) ([]domain.Notification, error)
	sendBulkFn       func(ctx context.Context, input service.BulkInput) ([]domain.Notification, error)
	listDueFn        func(ctx context.Context) ([]domain.Notification, error)
}

func (s *stubNotificationService) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if s.createFn != nil {
		return s.createFn(ctx, n)
	}
	return nil, fmt.Errorf("create not stubbed")
}

func (s *stubNotificationService) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubNotificationService) ListByStudent(ctx context.Context, studentID int64, params repository.NotificationListParams) ([]domain.Notification, error) {
	if s.listByStudentFn != nil {
		return s.listByStudentFn(ctx, studentID, params)
	}
	return nil, nil
}

func (s *stubNotificationService) Update(ctx context.Context, id int64, fields repository.NotificationUpdate) (*domain.Notification, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, fields)
	}
	return nil, domain.ErrNotFound
}

func (s *stubNotificationService) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubNotificationService) Dispatch(ctx context.Context, id int64) (bool, error) {
	if s.dispatchFn != nil {
		return s.dispatchFn(ctx, id)
	}
	return false, nil
}

func (s *stubNotificationService) CreateReminder(ctx context.Context, input service.ReminderInput) ([]domain.Notification, error) {
	if s.createReminderFn != nil {
		return s.createReminderFn(ctx, input)
	}
	return nil, nil
}

func (s *stubNotificationService) SendBulk(ctx context.Context, input service.BulkInput) ([]domain.Notification, error) {
	if s.sendBulkFn != nil {
		return s.sendBulkFn(ctx, input)
	}
	return nil, nil
}

func (s *stubNotificationService) ListDue(ctx context.Context) ([]domain.Notification, error) {
	if s.listDueFn != nil {
		return s.listDueFn(ctx)
	}
	return nil, nil
}
