package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
)

// NotificationModel is the persistence model for the notifications table.
// Enums are stored as raw text; they are parsed back into closed domain
// types on read, rejecting unknown values.
type NotificationModel struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	StudentID   int64      `gorm:"not null;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Message     string     `gorm:"type:text;not null"`
	Type        string     `gorm:"column:notification_type;type:varchar(50);not null"`
	Channel     string     `gorm:"type:varchar(50);not null"`
	Status      string     `gorm:"type:varchar(50);not null;default:pending"`
	ScheduledAt *time.Time `gorm:"type:timestamptz"`
	SentAt      *time.Time `gorm:"type:timestamptz"`
	ReadAt      *time.Time `gorm:"type:timestamptz"`
	Metadata    *string    `gorm:"type:text"`
	RetryCount  int        `gorm:"not null;default:0"`
	MaxRetries  int        `gorm:"not null;default:3"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// StudentProfileModel is the persistence model for student_profiles.
type StudentProfileModel struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Email     string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName string  `gorm:"type:varchar(100);not null"`
	LastName  string  `gorm:"type:varchar(100);not null"`
	Phone     *string `gorm:"type:varchar(20)"`

	GPA            *float64
	SATScore       *int    `gorm:"column:sat_score"`
	ACTScore       *int    `gorm:"column:act_score"`
	HighSchool     *string `gorm:"type:varchar(255)"`
	GraduationYear *int

	DateOfBirth *time.Time `gorm:"type:timestamptz"`
	State       *string    `gorm:"type:varchar(50)"`
	Country     *string    `gorm:"type:varchar(100)"`

	IntendedMajor    *string `gorm:"type:varchar(255)"`
	Extracurriculars *string `gorm:"type:text"`
	Achievements     *string `gorm:"type:text"`

	IsActive         bool `gorm:"not null;default:true"`
	ProfileCompleted bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StudentProfileModel) TableName() string {
	return "student_profiles"
}

func notificationModelFromDomain(n *domain.Notification) (*NotificationModel, error) {
	if n == nil {
		return nil, nil
	}

	metadata, err := encodeMetadata(n.Metadata)
	if err != nil {
		return nil, err
	}

	return &NotificationModel{
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
		Metadata:    metadata,
		RetryCount:  n.RetryCount,
		MaxRetries:  n.MaxRetries,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}, nil
}

func notificationModelToDomain(m *NotificationModel) (*domain.Notification, error) {
	if m == nil {
		return nil, nil
	}

	notificationType, err := domain.ParseNotificationTypeFromString(m.Type)
	if err != nil {
		return nil, fmt.Errorf("notification %d: %w", m.ID, err)
	}
	channel, err := domain.ParseChannelFromString(m.Channel)
	if err != nil {
		return nil, fmt.Errorf("notification %d: %w", m.ID, err)
	}
	status, err := domain.ParseStatusFromString(m.Status)
	if err != nil {
		return nil, fmt.Errorf("notification %d: %w", m.ID, err)
	}

	metadata, err := decodeMetadata(m.Metadata)
	if err != nil {
		return nil, fmt.Errorf("notification %d: %w", m.ID, err)
	}

	return &domain.Notification{
		ID:          m.ID,
		StudentID:   m.StudentID,
		Title:       m.Title,
		Message:     m.Message,
		Type:        notificationType,
		Channel:     channel,
		Status:      status,
		ScheduledAt: m.ScheduledAt,
		SentAt:      m.SentAt,
		ReadAt:      m.ReadAt,
		Metadata:    metadata,
		RetryCount:  m.RetryCount,
		MaxRetries:  m.MaxRetries,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func encodeMetadata(metadata domain.Metadata) (*string, error) {
	if len(metadata) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	encoded := string(raw)
	return &encoded, nil
}

func decodeMetadata(raw *string) (domain.Metadata, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	var metadata domain.Metadata
	if err := json.Unmarshal([]byte(*raw), &metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	return metadata, nil
}

func studentModelFromDomain(s *domain.StudentProfile) (*StudentProfileModel, error) {
	if s == nil {
		return nil, nil
	}

	extracurriculars, err := encodeStringList(s.Extracurriculars)
	if err != nil {
		return nil, err
	}
	achievements, err := encodeStringList(s.Achievements)
	if err != nil {
		return nil, err
	}

	return &StudentProfileModel{
		ID:               s.ID,
		Email:            s.Email,
		FirstName:        s.FirstName,
		LastName:         s.LastName,
		Phone:            s.Phone,
		GPA:              s.GPA,
		SATScore:         s.SATScore,
		ACTScore:         s.ACTScore,
		HighSchool:       s.HighSchool,
		GraduationYear:   s.GraduationYear,
		DateOfBirth:      s.DateOfBirth,
		State:            s.State,
		Country:          s.Country,
		IntendedMajor:    s.IntendedMajor,
		Extracurriculars: extracurriculars,
		Achievements:     achievements,
		IsActive:         s.IsActive,
		ProfileCompleted: s.ProfileCompleted,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}, nil
}

func studentModelToDomain(m *StudentProfileModel) (*domain.StudentProfile, error) {
	if m == nil {
		return nil, nil
	}

	extracurriculars, err := decodeStringList(m.Extracurriculars)
	if err != nil {
		return nil, fmt.Errorf("student %d: %w", m.ID, err)
	}
	achievements, err := decodeStringList(m.Achievements)
	if err != nil {
		return nil, fmt.Errorf("student %d: %w", m.ID, err)
	}

	return &domain.StudentProfile{
		ID:               m.ID,
		Email:            m.Email,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Phone:            m.Phone,
		GPA:              m.GPA,
		SATScore:         m.SATScore,
		ACTScore:         m.ACTScore,
		HighSchool:       m.HighSchool,
		GraduationYear:   m.GraduationYear,
		DateOfBirth:      m.DateOfBirth,
		State:            m.State,
		Country:          m.Country,
		IntendedMajor:    m.IntendedMajor,
		Extracurriculars: extracurriculars,
		Achievements:     achievements,
		IsActive:         m.IsActive,
		ProfileCompleted: m.ProfileCompleted,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

func encodeStringList(values []string) (*string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}

	encoded := string(raw)
	return &encoded, nil
}

func decodeStringList(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(*raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}

	return values, nil
}
