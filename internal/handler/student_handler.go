package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 200
)

type StudentService interface {
	Create(ctx context.Context, profile *domain.StudentProfile) (*domain.StudentProfile, error)
	GetByID(ctx context.Context, id int64) (*domain.StudentProfile, error)
	List(ctx context.Context, page, pageSize int) ([]domain.StudentProfile, int64, error)
	Update(ctx context.Context, id int64, fields service.StudentProfileUpdate) (*domain.StudentProfile, error)
	Deactivate(ctx context.Context, id int64) error
}

type StudentHandler struct {
	service StudentService
}

func NewStudentHandler(service StudentService) (*StudentHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("student service is required")
	}
	return &StudentHandler{service: service}, nil
}

func RegisterStudentRoutes(router fiber.Router, service StudentService) error {
	h, err := NewStudentHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/students", h.CreateStudent)
	v1.Get("/students", h.ListStudents)
	v1.Get("/students/:id", h.GetStudent)
	v1.Put("/students/:id", h.UpdateStudent)
	v1.Delete("/students/:id", h.DeactivateStudent)

	return nil
}

type createStudentRequest struct {
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone"`

	GPA            *float64 `json:"gpa"`
	SATScore       *int     `json:"satScore"`
	ACTScore       *int     `json:"actScore"`
	HighSchool     *string  `json:"highSchool"`
	GraduationYear *int     `json:"graduationYear"`

	DateOfBirth *time.Time `json:"dateOfBirth"`
	State       *string    `json:"state"`
	Country     *string    `json:"country"`

	IntendedMajor    *string  `json:"intendedMajor"`
	Extracurriculars []string `json:"extracurriculars"`
	Achievements     []string `json:"achievements"`
}

type updateStudentRequest struct {
	FirstName        *string    `json:"firstName"`
	LastName         *string    `json:"lastName"`
	Phone            *string    `json:"phone"`
	GPA              *float64   `json:"gpa"`
	SATScore         *int       `json:"satScore"`
	ACTScore         *int       `json:"actScore"`
	HighSchool       *string    `json:"highSchool"`
	GraduationYear   *int       `json:"graduationYear"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	State            *string    `json:"state"`
	Country          *string    `json:"country"`
	IntendedMajor    *string    `json:"intendedMajor"`
	Extracurriculars []string   `json:"extracurriculars"`
	Achievements     []string   `json:"achievements"`
	ProfileCompleted *bool      `json:"profileCompleted"`
}

type studentResponse struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone,omitempty"`

	GPA            *float64 `json:"gpa,omitempty"`
	SATScore       *int     `json:"satScore,omitempty"`
	ACTScore       *int     `json:"actScore,omitempty"`
	HighSchool     *string  `json:"highSchool,omitempty"`
	GraduationYear *int     `json:"graduationYear,omitempty"`

	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	State       *string    `json:"state,omitempty"`
	Country     *string    `json:"country,omitempty"`

	IntendedMajor    *string  `json:"intendedMajor,omitempty"`
	Extracurriculars []string `json:"extracurriculars"`
	Achievements     []string `json:"achievements"`

	IsActive         bool `json:"isActive"`
	ProfileCompleted bool `json:"profileCompleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type listStudentsResponse struct {
	Data []studentResponse `json:"data"`
	Meta listMeta          `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req createStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	profile := domain.StudentProfile{
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		GPA:              req.GPA,
		SATScore:         req.SATScore,
		ACTScore:         req.ACTScore,
		HighSchool:       req.HighSchool,
		GraduationYear:   req.GraduationYear,
		DateOfBirth:      req.DateOfBirth,
		State:            req.State,
		Country:          req.Country,
		IntendedMajor:    req.IntendedMajor,
		Extracurriculars: req.Extracurriculars,
		Achievements:     req.Achievements,
	}

	created, err := h.service.Create(c.Context(), &profile)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toStudentResponse(created))
}

func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "student id")
	if err != nil {
		return toHTTPError(err)
	}

	profile, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toStudentResponse(profile))
}

func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	page := c.QueryInt("page", defaultPage)
	pageSize := c.QueryInt("pageSize", defaultPageSize)
	if page < 1 {
		return toHTTPError(fmt.Errorf("%w: page must be >= 1", domain.ErrValidation))
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return toHTTPError(fmt.Errorf("%w: pageSize must be between 1 and %d", domain.ErrValidation, maxPageSize))
	}

	profiles, total, err := h.service.List(c.Context(), page, pageSize)
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]studentResponse, 0, len(profiles))
	for _, profile := range profiles {
		p := profile
		responses = append(responses, toStudentResponse(&p))
	}

	return c.Status(fiber.StatusOK).JSON(listStudentsResponse{
		Data: responses,
		Meta: listMeta{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "student id")
	if err != nil {
		return toHTTPError(err)
	}

	var req updateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.Update(c.Context(), id, service.StudentProfileUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		GPA:              req.GPA,
		SATScore:         req.SATScore,
		ACTScore:         req.ACTScore,
		HighSchool:       req.HighSchool,
		GraduationYear:   req.GraduationYear,
		DateOfBirth:      req.DateOfBirth,
		State:            req.State,
		Country:          req.Country,
		IntendedMajor:    req.IntendedMajor,
		Extracurriculars: req.Extracurriculars,
		Achievements:     req.Achievements,
		ProfileCompleted: req.ProfileCompleted,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toStudentResponse(updated))
}

func (h *StudentHandler) DeactivateStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "student id")
	if err != nil {
		return toHTTPError(err)
	}

	if err := h.service.Deactivate(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"studentId": id,
		"isActive":  false,
	})
}

func toStudentResponse(p *domain.StudentProfile) studentResponse {
	if p == nil {
		return studentResponse{}
	}

	return studentResponse{
		ID:               p.ID,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Phone:            p.Phone,
		GPA:              p.GPA,
		SATScore:         p.SATScore,
		ACTScore:         p.ACTScore,
		HighSchool:       p.HighSchool,
		GraduationYear:   p.GraduationYear,
		DateOfBirth:      p.DateOfBirth,
		State:            p.State,
		Country:          p.Country,
		IntendedMajor:    p.IntendedMajor,
		Extracurriculars: p.Extracurriculars,
		Achievements:     p.Achievements,
		IsActive:         p.IsActive,
		ProfileCompleted: p.ProfileCompleted,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
