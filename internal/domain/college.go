package domain

import "fmt"

// CollegeMatchRequest captures a student's matching preferences.
type CollegeMatchRequest struct {
	StudentID       int64
	PreferredStates []string
	MaxTuition      *float64
	PreferredMajors []string
	Limit           int
}

func (r *CollegeMatchRequest) Validate() error {
	if r.StudentID <= 0 {
		return fmt.Errorf("%w: student id is required", ErrValidation)
	}
	if r.MaxTuition != nil && *r.MaxTuition < 0 {
		return fmt.Errorf("%w: max tuition must be >= 0", ErrValidation)
	}
	return nil
}

// CollegeMatch is one ranked match produced for a student.
type CollegeMatch struct {
	CollegeID  int64
	Name       string
	State      string
	MatchScore float64
	Reasons    []string
}
