package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(ctx context.Context, s *domain.StudentProfile) error
	GetByID(ctx context.Context, id int64) (*domain.StudentProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.StudentProfile, error)
	List(ctx context.Context, page, pageSize int) ([]domain.StudentProfile, int64, error)
	Save(ctx context.Context, s *domain.StudentProfile) error
	Deactivate(ctx context.Context, id int64) error
}

type GormStudentRepo struct {
	db *gorm.DB
}

func NewGormStudentRepo(db *gorm.DB) *GormStudentRepo {
	return &GormStudentRepo{db: db}
}

func (r *GormStudentRepo) Create(ctx context.Context, s *domain.StudentProfile) error {
	model, err := studentModelFromDomain(s)
	if err != nil {
		return err
	}
	if model == nil {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}

	stored, err := studentModelToDomain(model)
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

func (r *GormStudentRepo) GetByID(ctx context.Context, id int64) (*domain.StudentProfile, error) {
	var model StudentProfileModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return studentModelToDomain(&model)
}

func (r *GormStudentRepo) GetByEmail(ctx context.Context, email string) (*domain.StudentProfile, error) {
	var model StudentProfileModel
	err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return studentModelToDomain(&model)
}

func (r *GormStudentRepo) List(ctx context.Context, page, pageSize int) ([]domain.StudentProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&StudentProfileModel{}).Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = max(page, 1)
	if pageSize < 1 {
		pageSize = DefaultListLimit
	}
	pageSize = min(pageSize, MaxListLimit)

	var models []StudentProfileModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	students := make([]domain.StudentProfile, 0, len(models))
	for i := range models {
		s, err := studentModelToDomain(&models[i])
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}

	return students, total, nil
}

func (r *GormStudentRepo) Save(ctx context.Context, s *domain.StudentProfile) error {
	model, err := studentModelFromDomain(s)
	if err != nil {
		return err
	}
	model.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&StudentProfileModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	s.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormStudentRepo) Deactivate(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&StudentProfileModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
