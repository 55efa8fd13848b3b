package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/repository"
	"github.com/admitpath/admissions-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type EssayService interface {
	Create(ctx context.Context, essay *domain.Essay) (*domain.Essay, error)
	GetByID(ctx context.Context, id string) (*domain.Essay, error)
	ListByStudent(ctx context.Context, studentID int64, limit int) ([]domain.Essay, error)
	Update(ctx context.Context, id string, fields repository.EssayUpdate) (*domain.Essay, error)
	Delete(ctx context.Context, id string) error
	RequestReview(ctx context.Context, id string) (*service.EssayReview, error)
}

type EssayHandler struct {
	service EssayService
}

func NewEssayHandler(service EssayService) (*EssayHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("essay service is required")
	}
	return &EssayHandler{service: service}, nil
}

func RegisterEssayRoutes(router fiber.Router, service EssayService) error {
	h, err := NewEssayHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/essays", h.CreateEssay)
	v1.Get("/essays/student/:studentId", h.ListStudentEssays)
	v1.Get("/essays/:id", h.GetEssay)
	v1.Put("/essays/:id", h.UpdateEssay)
	v1.Delete("/essays/:id", h.DeleteEssay)
	v1.Post("/essays/:id/review", h.RequestEssayReview)

	return nil
}

type createEssayRequest struct {
	StudentID int64   `json:"studentId"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Type      string  `json:"type"`
	CollegeID *int64  `json:"collegeId"`
	Prompt    *string `json:"prompt"`
	WordLimit *int    `json:"wordLimit"`
}

type updateEssayRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Type      *string `json:"type"`
	Status    *string `json:"status"`
	CollegeID *int64  `json:"collegeId"`
	Prompt    *string `json:"prompt"`
	WordLimit *int    `json:"wordLimit"`
}

type essayResponse struct {
	ID        string    `json:"id"`
	StudentID int64     `json:"studentId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CollegeID *int64    `json:"collegeId,omitempty"`
	Prompt    *string   `json:"prompt,omitempty"`
	WordLimit *int      `json:"wordLimit,omitempty"`
	WordCount int       `json:"wordCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type essayListResponse struct {
	Data []essayResponse `json:"data"`
}

type essayReviewResponse struct {
	EssayID     string   `json:"essayId"`
	Status      string   `json:"status"`
	WordCount   int      `json:"wordCount"`
	Suggestions []string `json:"suggestions"`
}

func (h *EssayHandler) CreateEssay(c *fiber.Ctx) error {
	var req createEssayRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	essayType, err := domain.ParseEssayTypeFromString(req.Type)
	if err != nil {
		return toHTTPError(err)
	}

	essay := domain.Essay{
		StudentID: req.StudentID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Type:      essayType,
		CollegeID: req.CollegeID,
		Prompt:    req.Prompt,
		WordLimit: req.WordLimit,
	}

	created, err := h.service.Create(c.Context(), &essay)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toEssayResponse(created))
}

func (h *EssayHandler) GetEssay(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	essay, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toEssayResponse(essay))
}

func (h *EssayHandler) ListStudentEssays(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "studentId", "student id")
	if err != nil {
		return toHTTPError(err)
	}

	essays, err := h.service.ListByStudent(c.Context(), studentID, c.QueryInt("limit", 0))
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]essayResponse, 0, len(essays))
	for _, essay := range essays {
		e := essay
		responses = append(responses, toEssayResponse(&e))
	}

	return c.Status(fiber.StatusOK).JSON(essayListResponse{Data: responses})
}

func (h *EssayHandler) UpdateEssay(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	var req updateEssayRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	fields := repository.EssayUpdate{
		Title:     req.Title,
		Content:   req.Content,
		CollegeID: req.CollegeID,
		Prompt:    req.Prompt,
		WordLimit: req.WordLimit,
	}
	if req.Type != nil {
		essayType, err := domain.ParseEssayTypeFromString(*req.Type)
		if err != nil {
			return toHTTPError(err)
		}
		fields.Type = &essayType
	}
	if req.Status != nil {
		status, err := domain.ParseEssayStatusFromString(*req.Status)
		if err != nil {
			return toHTTPError(err)
		}
		fields.Status = &status
	}

	updated, err := h.service.Update(c.Context(), id, fields)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toEssayResponse(updated))
}

func (h *EssayHandler) DeleteEssay(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"essayId": id,
		"deleted": true,
	})
}

func (h *EssayHandler) RequestEssayReview(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	review, err := h.service.RequestReview(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(essayReviewResponse{
		EssayID:     review.EssayID,
		Status:      review.Status.String(),
		WordCount:   review.WordCount,
		Suggestions: review.Suggestions,
	})
}

func toEssayResponse(e *domain.Essay) essayResponse {
	if e == nil {
		return essayResponse{}
	}

	return essayResponse{
		ID:        e.ID,
		StudentID: e.StudentID,
		Title:     e.Title,
		Content:   e.Content,
		Type:      e.Type.String(),
		Status:    e.Status.String(),
		CollegeID: e.CollegeID,
		Prompt:    e.Prompt,
		WordLimit: e.WordLimit,
		WordCount: e.WordCount,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
