package domain

import (
	"fmt"
	"strings"
	"time"
)

// EssayType classifies the application essay.
type EssayType string

const (
	EssayPersonalStatement EssayType = "personal_statement"
	EssaySupplemental      EssayType = "supplemental"
	EssayScholarship       EssayType = "scholarship"
	EssayCommonApp         EssayType = "common_app"
)

func (t EssayType) String() string { return string(t) }

func (t EssayType) IsValid() bool {
	switch t {
	case EssayPersonalStatement, EssaySupplemental, EssayScholarship, EssayCommonApp:
		return true
	}
	return false
}

func ParseEssayTypeFromString(s string) (EssayType, error) {
	t := EssayType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid essay type %q", ErrValidation, s)
	}
	return t, nil
}

// EssayStatus tracks the review workflow.
type EssayStatus string

const (
	EssayDraft       EssayStatus = "draft"
	EssaySubmitted   EssayStatus = "submitted"
	EssayUnderReview EssayStatus = "under_review"
	EssayReviewed    EssayStatus = "reviewed"
	EssayRevised     EssayStatus = "revised"
)

func (s EssayStatus) String() string { return string(s) }

func (s EssayStatus) IsValid() bool {
	switch s {
	case EssayDraft, EssaySubmitted, EssayUnderReview, EssayReviewed, EssayRevised:
		return true
	}
	return false
}

func ParseEssayStatusFromString(s string) (EssayStatus, error) {
	st := EssayStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid essay status %q", ErrValidation, s)
	}
	return st, nil
}

const MinEssayContentLength = 10

// Essay is an application essay stored in the document store. The id is the
// document store's object id rendered as a hex string.
type Essay struct {
	ID        string
	StudentID int64
	Title     string
	Content   string
	Type      EssayType
	Status    EssayStatus
	CollegeID *int64
	Prompt    *string
	WordLimit *int
	WordCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Essay) Validate() error {
	if e.StudentID <= 0 {
		return fmt.Errorf("%w: student id is required", ErrValidation)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if titleLen := len([]rune(e.Title)); titleLen > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters (got %d)", ErrValidation, MaxTitleLength, titleLen)
	}
	if contentLen := len([]rune(e.Content)); contentLen < MinEssayContentLength {
		return fmt.Errorf("%w: content must be at least %d characters", ErrValidation, MinEssayContentLength)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: invalid essay type %q", ErrValidation, e.Type)
	}
	if e.WordLimit != nil && *e.WordLimit < 0 {
		return fmt.Errorf("%w: word limit must be >= 0", ErrValidation)
	}
	return nil
}

// CountWords computes the whitespace-separated word count of the content.
func (e *Essay) CountWords() int {
	return len(strings.Fields(e.Content))
}
