package domain

import (
	"fmt"
	"strings"
	"time"
)

// Academic field bounds.
const (
	MinGPA            = 0.0
	MaxGPA            = 4.0
	MinSATScore       = 400
	MaxSATScore       = 1600
	MinACTScore       = 1
	MaxACTScore       = 36
	MinGraduationYear = 2020
	MaxGraduationYear = 2030
	MaxNameLength     = 100
)

// StudentProfile is a student identity and academic record.
type StudentProfile struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     *string

	GPA            *float64
	SATScore       *int
	ACTScore       *int
	HighSchool     *string
	GraduationYear *int

	DateOfBirth *time.Time
	State       *string
	Country     *string

	IntendedMajor    *string
	Extracurriculars []string
	Achievements     []string

	IsActive         bool
	ProfileCompleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *StudentProfile) Validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !strings.Contains(s.Email, "@") {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, s.Email)
	}
	if err := validateName("first name", s.FirstName); err != nil {
		return err
	}
	if err := validateName("last name", s.LastName); err != nil {
		return err
	}
	if s.GPA != nil && (*s.GPA < MinGPA || *s.GPA > MaxGPA) {
		return fmt.Errorf("%w: gpa must be between %.1f and %.1f", ErrValidation, MinGPA, MaxGPA)
	}
	if s.SATScore != nil && (*s.SATScore < MinSATScore || *s.SATScore > MaxSATScore) {
		return fmt.Errorf("%w: sat score must be between %d and %d", ErrValidation, MinSATScore, MaxSATScore)
	}
	if s.ACTScore != nil && (*s.ACTScore < MinACTScore || *s.ACTScore > MaxACTScore) {
		return fmt.Errorf("%w: act score must be between %d and %d", ErrValidation, MinACTScore, MaxACTScore)
	}
	if s.GraduationYear != nil && (*s.GraduationYear < MinGraduationYear || *s.GraduationYear > MaxGraduationYear) {
		return fmt.Errorf("%w: graduation year must be between %d and %d", ErrValidation, MinGraduationYear, MaxGraduationYear)
	}
	return nil
}

func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if nameLen := len([]rune(value)); nameLen > MaxNameLength {
		return fmt.Errorf("%w: %s exceeds %d characters (got %d)", ErrValidation, field, MaxNameLength, nameLen)
	}
	return nil
}
