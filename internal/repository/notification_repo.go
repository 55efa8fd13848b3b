package repository

import (
	"context"
	"errors"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"gorm.io/gorm"
)

const (
	// DefaultListLimit applies when a caller passes no limit.
	DefaultListLimit = 50
	// MaxListLimit is the hard cap on per-student listings.
	MaxListLimit = 200
)

// NotificationListParams filters a per-student listing.
type NotificationListParams struct {
	Status *domain.Status
	Limit  int
}

// NotificationUpdate is a partial update; nil fields are left untouched.
type NotificationUpdate struct {
	Title       *string
	Message     *string
	ScheduledAt *time.Time
	Status      *domain.Status
}

func (u NotificationUpdate) changes() map[string]any {
	updates := map[string]any{}
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Message != nil {
		updates["message"] = *u.Message
	}
	if u.ScheduledAt != nil {
		updates["scheduled_at"] = *u.ScheduledAt
	}
	if u.Status != nil {
		updates["status"] = u.Status.String()
	}
	return updates
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListByStudent(ctx context.Context, studentID int64, params NotificationListParams) ([]domain.Notification, error)
	Update(ctx context.Context, id int64, fields NotificationUpdate) (*domain.Notification, error)
	SaveTransition(ctx context.Context, n *domain.Notification) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error)
}

type GormNotificationRepo struct {
	db *gorm.DB
}

func NewGormNotificationRepo(db *gorm.DB) *GormNotificationRepo {
	return &GormNotificationRepo{db: db}
}

func (r *GormNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	model, err := notificationModelFromDomain(n)
	if err != nil {
		return err
	}
	if model == nil {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	stored, err := notificationModelToDomain(model)
	if err != nil {
		return err
	}
	*n = *stored
	return nil
}

func (r *GormNotificationRepo) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return notificationModelToDomain(&model)
}

func (r *GormNotificationRepo) ListByStudent(
	ctx context.Context,
	studentID int64,
	params NotificationListParams,
) ([]domain.Notification, error) {
	query := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("student_id = ?", studentID)

	if params.Status != nil {
		query = query.Where("status = ?", params.Status.String())
	}

	limit := params.Limit
	if limit < 1 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	var models []NotificationModel
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return notificationModelsToDomain(models)
}

func (r *GormNotificationRepo) Update(
	ctx context.Context,
	id int64,
	fields NotificationUpdate,
) (*domain.Notification, error) {
	updates := fields.changes()
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// SaveTransition persists the fields a state-machine transition can touch.
func (r *GormNotificationRepo) SaveTransition(ctx context.Context, n *domain.Notification) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"status":      n.Status.String(),
			"sent_at":     n.SentAt,
			"read_at":     n.ReadAt,
			"retry_count": n.RetryCount,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDue returns pending notifications whose scheduled time has passed,
// earliest first. Records without a scheduled time are never due.
func (r *GormNotificationRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", domain.StatusPending.String(), now).
		Order("scheduled_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []NotificationModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return notificationModelsToDomain(models)
}

func notificationModelsToDomain(models []NotificationModel) ([]domain.Notification, error) {
	notifications := make([]domain.Notification, 0, len(models))
	for i := range models {
		n, err := notificationModelToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, nil
}
