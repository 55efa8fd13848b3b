package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/repository"
	"go.uber.org/zap"
)

// StudentProfileUpdate is a partial profile update; nil fields are left
// untouched.
type StudentProfileUpdate struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	GPA              *float64
	SATScore         *int
	ACTScore         *int
	HighSchool       *string
	GraduationYear   *int
	DateOfBirth      *time.Time
	State            *string
	Country          *string
	IntendedMajor    *string
	Extracurriculars []string
	Achievements     []string
	ProfileCompleted *bool
}

type StudentService struct {
	students repository.StudentRepository
	logger   *zap.Logger
}

func NewStudentService(students repository.StudentRepository, logger *zap.Logger) (*StudentService, error) {
	if students == nil {
		return nil, fmt.Errorf("student repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StudentService{students: students, logger: logger}, nil
}

func (s *StudentService) Create(ctx context.Context, profile *domain.StudentProfile) (*domain.StudentProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", domain.ErrValidation)
	}

	profile.ID = 0
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)
	profile.IsActive = true
	profile.ProfileCompleted = false

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.students.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("student profile created",
		zap.Int64("studentId", profile.ID),
		zap.String("email", profile.Email),
	)
	return profile, nil
}

func (s *StudentService) GetByID(ctx context.Context, id int64) (*domain.StudentProfile, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: student id is required", domain.ErrValidation)
	}
	return s.students.GetByID(ctx, id)
}

// EmailByID resolves a student's email address. The notification channel
// senders use it as their recipient lookup.
func (s *StudentService) EmailByID(ctx context.Context, id int64) (string, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return profile.Email, nil
}

func (s *StudentService) List(ctx context.Context, page, pageSize int) ([]domain.StudentProfile, int64, error) {
	return s.students.List(ctx, page, pageSize)
}

// Update applies a partial update through read-modify-write, re-validating
// the whole profile before persisting.
func (s *StudentService) Update(ctx context.Context, id int64, fields StudentProfileUpdate) (*domain.StudentProfile, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*fields.FirstName)
	}
	if fields.LastName != nil {
		profile.LastName = strings.TrimSpace(*fields.LastName)
	}
	if fields.Phone != nil {
		profile.Phone = fields.Phone
	}
	if fields.GPA != nil {
		profile.GPA = fields.GPA
	}
	if fields.SATScore != nil {
		profile.SATScore = fields.SATScore
	}
	if fields.ACTScore != nil {
		profile.ACTScore = fields.ACTScore
	}
	if fields.HighSchool != nil {
		profile.HighSchool = fields.HighSchool
	}
	if fields.GraduationYear != nil {
		profile.GraduationYear = fields.GraduationYear
	}
	if fields.DateOfBirth != nil {
		profile.DateOfBirth = fields.DateOfBirth
	}
	if fields.State != nil {
		profile.State = fields.State
	}
	if fields.Country != nil {
		profile.Country = fields.Country
	}
	if fields.IntendedMajor != nil {
		profile.IntendedMajor = fields.IntendedMajor
	}
	if fields.Extracurriculars != nil {
		profile.Extracurriculars = fields.Extracurriculars
	}
	if fields.Achievements != nil {
		profile.Achievements = fields.Achievements
	}
	if fields.ProfileCompleted != nil {
		profile.ProfileCompleted = *fields.ProfileCompleted
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.students.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Deactivate soft-deletes a profile; the record itself is retained.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: student id is required", domain.ErrValidation)
	}
	return s.students.Deactivate(ctx, id)
}
