package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/repository"
	"go.uber.org/zap"
)

// EssayReview is the outcome of a review request. The scoring pipeline is a
// placeholder until the review backend lands; see RequestReview.
type EssayReview struct {
	EssayID     string
	Status      domain.EssayStatus
	WordCount   int
	Suggestions []string
}

type EssayService struct {
	essays repository.EssayRepository
	logger *zap.Logger
}

func NewEssayService(essays repository.EssayRepository, logger *zap.Logger) (*EssayService, error) {
	if essays == nil {
		return nil, fmt.Errorf("essay repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EssayService{essays: essays, logger: logger}, nil
}

func (s *EssayService) Create(ctx context.Context, essay *domain.Essay) (*domain.Essay, error) {
	if essay == nil {
		return nil, fmt.Errorf("%w: essay is required", domain.ErrValidation)
	}

	essay.ID = ""
	essay.Title = strings.TrimSpace(essay.Title)
	essay.Status = domain.EssayDraft
	essay.WordCount = essay.CountWords()

	if err := essay.Validate(); err != nil {
		return nil, err
	}

	if err := s.essays.Create(ctx, essay); err != nil {
		return nil, err
	}

	s.logger.Info("essay created",
		zap.String("essayId", essay.ID),
		zap.Int64("studentId", essay.StudentID),
		zap.Int("wordCount", essay.WordCount),
	)
	return essay, nil
}

func (s *EssayService) GetByID(ctx context.Context, id string) (*domain.Essay, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: essay id is required", domain.ErrValidation)
	}
	return s.essays.GetByID(ctx, strings.TrimSpace(id))
}

func (s *EssayService) ListByStudent(ctx context.Context, studentID int64, limit int) ([]domain.Essay, error) {
	if studentID <= 0 {
		return nil, fmt.Errorf("%w: student id is required", domain.ErrValidation)
	}
	return s.essays.ListByStudent(ctx, studentID, limit)
}

func (s *EssayService) Update(ctx context.Context, id string, fields repository.EssayUpdate) (*domain.Essay, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: essay id is required", domain.ErrValidation)
	}
	if fields.Content != nil && len([]rune(*fields.Content)) < domain.MinEssayContentLength {
		return nil, fmt.Errorf("%w: content must be at least %d characters", domain.ErrValidation, domain.MinEssayContentLength)
	}
	if fields.Type != nil && !fields.Type.IsValid() {
		return nil, fmt.Errorf("%w: invalid essay type %q", domain.ErrValidation, *fields.Type)
	}
	if fields.Status != nil && !fields.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid essay status %q", domain.ErrValidation, *fields.Status)
	}

	return s.essays.Update(ctx, strings.TrimSpace(id), fields)
}

func (s *EssayService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: essay id is required", domain.ErrValidation)
	}
	return s.essays.Delete(ctx, strings.TrimSpace(id))
}

// RequestReview moves an essay into review and returns placeholder feedback.
// TODO: call the essay-review backend once it is available; today this only
// reports the word count against the limit.
func (s *EssayService) RequestReview(ctx context.Context, id string) (*EssayReview, error) {
	status := domain.EssayUnderReview
	essay, err := s.Update(ctx, id, repository.EssayUpdate{Status: &status})
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, 1)
	if essay.WordLimit != nil && essay.WordCount > *essay.WordLimit {
		suggestions = append(suggestions,
			fmt.Sprintf("essay is %d words over the %d-word limit", essay.WordCount-*essay.WordLimit, *essay.WordLimit))
	}

	return &EssayReview{
		EssayID:     essay.ID,
		Status:      essay.Status,
		WordCount:   essay.WordCount,
		Suggestions: suggestions,
	}, nil
}
