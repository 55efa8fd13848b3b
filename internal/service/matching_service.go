package service

import (
	"context"
	"fmt"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/repository"
	"go.uber.org/zap"
)

const defaultRecommendationLimit = 10

// MatchingService ranks colleges for a student. The matching algorithm is a
// placeholder: requests are validated against the student store, and an
// empty ranking is returned until the scoring engine lands.
type MatchingService struct {
	students repository.StudentRepository
	logger   *zap.Logger
}

func NewMatchingService(students repository.StudentRepository, logger *zap.Logger) (*MatchingService, error) {
	if students == nil {
		return nil, fmt.Errorf("student repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{students: students, logger: logger}, nil
}

// Match returns ranked college matches for the request.
// TODO: score against the college catalog (GPA, test scores, preferences)
// once the catalog import pipeline exists.
func (s *MatchingService) Match(ctx context.Context, request domain.CollegeMatchRequest) ([]domain.CollegeMatch, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.students.GetByID(ctx, request.StudentID); err != nil {
		return nil, err
	}

	s.logger.Info("college matching requested",
		zap.Int64("studentId", request.StudentID),
	)
	return []domain.CollegeMatch{}, nil
}

// Recommendations returns the top matches for a student with default
// preferences.
func (s *MatchingService) Recommendations(ctx context.Context, studentID int64, limit int) ([]domain.CollegeMatch, error) {
	if limit < 1 {
		limit = defaultRecommendationLimit
	}

	return s.Match(ctx, domain.CollegeMatchRequest{
		StudentID: studentID,
		Limit:     limit,
	})
}
