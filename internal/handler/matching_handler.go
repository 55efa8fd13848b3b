package handler

import (
	"context"
	"fmt"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/gofiber/fiber/v2"
)

type MatchingService interface {
	Match(ctx context.Context, request domain.CollegeMatchRequest) ([]domain.CollegeMatch, error)
	Recommendations(ctx context.Context, studentID int64, limit int) ([]domain.CollegeMatch, error)
}

type MatchingHandler struct {
	service MatchingService
}

func NewMatchingHandler(service MatchingService) (*MatchingHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("matching service is required")
	}
	return &MatchingHandler{service: service}, nil
}

func RegisterMatchingRoutes(router fiber.Router, service MatchingService) error {
	h, err := NewMatchingHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/matching/match", h.MatchColleges)
	v1.Get("/matching/recommendations/:studentId", h.GetRecommendations)

	return nil
}

type matchCollegesRequest struct {
	StudentID       int64    `json:"studentId"`
	PreferredStates []string `json:"preferredStates"`
	MaxTuition      *float64 `json:"maxTuition"`
	PreferredMajors []string `json:"preferredMajors"`
	Limit           int      `json:"limit"`
}

type collegeMatchResponse struct {
	CollegeID  int64    `json:"collegeId"`
	Name       string   `json:"name"`
	State      string   `json:"state"`
	MatchScore float64  `json:"matchScore"`
	Reasons    []string `json:"reasons"`
}

type collegeMatchListResponse struct {
	Data []collegeMatchResponse `json:"data"`
}

func (h *MatchingHandler) MatchColleges(c *fiber.Ctx) error {
	var req matchCollegesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	matches, err := h.service.Match(c.Context(), domain.CollegeMatchRequest{
		StudentID:       req.StudentID,
		PreferredStates: req.PreferredStates,
		MaxTuition:      req.MaxTuition,
		PreferredMajors: req.PreferredMajors,
		Limit:           req.Limit,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toCollegeMatchListResponse(matches))
}

func (h *MatchingHandler) GetRecommendations(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "studentId", "student id")
	if err != nil {
		return toHTTPError(err)
	}

	matches, err := h.service.Recommendations(c.Context(), studentID, c.QueryInt("limit", 0))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toCollegeMatchListResponse(matches))
}

func toCollegeMatchListResponse(matches []domain.CollegeMatch) collegeMatchListResponse {
	responses := make([]collegeMatchResponse, 0, len(matches))
	for _, match := range matches {
		responses = append(responses, collegeMatchResponse{
			CollegeID:  match.CollegeID,
			Name:       match.Name,
			State:      match.State,
			MatchScore: match.MatchScore,
			Reasons:    match.Reasons,
		})
	}
	return collegeMatchListResponse{Data: responses}
}
