package handlers

import (
	"errors"
	"fmt"
	"time"

	"ilimi/internal/middleware"
	"ilimi/internal/services/academics"
	"ilimi/internal/utils/response"
	"ilimi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AcademicsHandler struct {
	academicsService academics.Service
}

func NewAcademicsHandler(academicsService academics.Service) *AcademicsHandler {
	return &AcademicsHandler{academicsService: academicsService}
}

func academicsError(c *fiber.Ctx, err error, fallback string) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return response.FieldError(c, verr.Field, verr.Message)
	}
	return response.ServerError(c, fallback)
}

// parseDate accepts YYYY-MM-DD.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

type yearPayload struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	IsCurrent bool   `json:"is_current"`
}

func (h *AcademicsHandler) CreateYear(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	var payload yearPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	start, err := parseDate(payload.StartDate)
	if err != nil {
		return response.FieldError(c, "start_date", "Enter a valid date (YYYY-MM-DD).")
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		return response.FieldError(c, "end_date", "Enter a valid date (YYYY-MM-DD).")
	}

	year, err := h.academicsService.CreateYear(school, academics.YearInput{
		Name:      payload.Name,
		StartDate: start,
		EndDate:   end,
		IsCurrent: payload.IsCurrent,
	})
	if err != nil {
		return academicsError(c, err, "Failed to create academic year")
	}
	return response.Created(c, "Academic year created successfully.", year)
}

func (h *AcademicsHandler) ListYears(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	years, err := h.academicsService.ListYears(school)
	if err != nil {
		return response.ServerError(c, "Failed to list academic years")
	}
	return c.JSON(fiber.Map{"academic_years": years})
}

// SetCurrentYear promotes one year to current; siblings lose the flag in
// the same transaction.
func (h *AcademicsHandler) SetCurrentYear(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	yearID, err := c.ParamsInt("yearID")
	if err != nil || yearID <= 0 {
		return response.BadRequest(c, "Invalid academic year id")
	}

	year, err := h.academicsService.SetCurrentYear(school, uint(yearID))
	if err != nil {
		return academicsError(c, err, "Failed to update academic year")
	}
	return response.Success(c, "Academic year set as current.", year)
}

type termPayload struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	IsCurrent bool   `json:"is_current"`
}

func (h *AcademicsHandler) CreateTerm(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	yearID, err := c.ParamsInt("yearID")
	if err != nil || yearID <= 0 {
		return response.BadRequest(c, "Invalid academic year id")
	}

	var payload termPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	start, err := parseDate(payload.StartDate)
	if err != nil {
		return response.FieldError(c, "start_date", "Enter a valid date (YYYY-MM-DD).")
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		return response.FieldError(c, "end_date", "Enter a valid date (YYYY-MM-DD).")
	}

	term, err := h.academicsService.CreateTerm(school, uint(yearID), academics.TermInput{
		Name:      payload.Name,
		StartDate: start,
		EndDate:   end,
		IsCurrent: payload.IsCurrent,
	})
	if err != nil {
		return academicsError(c, err, "Failed to create term")
	}
	return response.Created(c, "Term created successfully.", term)
}

func (h *AcademicsHandler) ListTerms(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	yearID, err := c.ParamsInt("yearID")
	if err != nil || yearID <= 0 {
		return response.BadRequest(c, "Invalid academic year id")
	}

	terms, err := h.academicsService.ListTerms(school, uint(yearID))
	if err != nil {
		return academicsError(c, err, "Failed to list terms")
	}
	return c.JSON(fiber.Map{"terms": terms})
}

func (h *AcademicsHandler) SetCurrentTerm(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	yearID, err := c.ParamsInt("yearID")
	if err != nil || yearID <= 0 {
		return response.BadRequest(c, "Invalid academic year id")
	}
	termID, err := c.ParamsInt("termID")
	if err != nil || termID <= 0 {
		return response.BadRequest(c, "Invalid term id")
	}

	term, err := h.academicsService.SetCurrentTerm(school, uint(yearID), uint(termID))
	if err != nil {
		return academicsError(c, err, "Failed to update term")
	}
	return response.Success(c, "Term set as current.", term)
}

type subjectPayload struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code"`
	SubjectType   string `json:"subject_type"`
	ElectiveGroup string `json:"elective_group"`
}

func (h *AcademicsHandler) CreateSubject(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	var payload subjectPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	subject, err := h.academicsService.CreateSubject(school, academics.SubjectInput{
		Name:          payload.Name,
		Code:          payload.Code,
		SubjectType:   payload.SubjectType,
		ElectiveGroup: payload.ElectiveGroup,
	})
	if err != nil {
		return academicsError(c, err, "Failed to create subject")
	}
	return response.Created(c, "Subject created successfully.", subject)
}

func (h *AcademicsHandler) ListSubjects(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	subjects, err := h.academicsService.ListSubjects(school)
	if err != nil {
		return response.ServerError(c, "Failed to list subjects")
	}
	return c.JSON(fiber.Map{"subjects": subjects})
}

type classLevelPayload struct {
	Name       string `json:"name" validate:"required"`
	CustomName string `json:"custom_name"`
	Order      int    `json:"order"`
}

func (h *AcademicsHandler) CreateClassLevel(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	var payload classLevelPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	level, err := h.academicsService.CreateClassLevel(school, academics.ClassLevelInput{
		Name:       payload.Name,
		CustomName: payload.CustomName,
		Order:      payload.Order,
	})
	if err != nil {
		return academicsError(c, err, "Failed to create class level")
	}
	return response.Created(c, "Class level created successfully.", level)
}

func (h *AcademicsHandler) ListClassLevels(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	levels, err := h.academicsService.ListClassLevels(school)
	if err != nil {
		return response.ServerError(c, "Failed to list class levels")
	}
	return c.JSON(fiber.Map{"class_levels": levels})
}

type classroomPayload struct {
	ClassLevelID  uint   `json:"class_level_id" validate:"required"`
	SectionName   string `json:"section_name" validate:"required"`
	ElectiveGroup string `json:"elective_group"`
	BranchID      *uint  `json:"branch_id"`
	FormTeacherID *uint  `json:"form_teacher_id"`
	Capacity      int    `json:"capacity"`
}

func (h *AcademicsHandler) CreateClassroom(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	yearID, err := c.ParamsInt("yearID")
	if err != nil || yearID <= 0 {
		return response.BadRequest(c, "Invalid academic year id")
	}

	var payload classroomPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	classroom, err := h.academicsService.CreateClassroom(school, uint(yearID), academics.ClassroomInput{
		ClassLevelID:  payload.ClassLevelID,
		SectionName:   payload.SectionName,
		ElectiveGroup: payload.ElectiveGroup,
		BranchID:      payload.BranchID,
		FormTeacherID: payload.FormTeacherID,
		Capacity:      payload.Capacity,
	})
	if err != nil {
		return academicsError(c, err, "Failed to create classroom")
	}
	return response.Created(c,
		fmt.Sprintf("Classroom '%s' created successfully.", classroom.FullName()), classroom)
}

func (h *AcademicsHandler) ListClassrooms(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	yearID, err := c.ParamsInt("yearID")
	if err != nil || yearID <= 0 {
		return response.BadRequest(c, "Invalid academic year id")
	}

	classrooms, err := h.academicsService.ListClassrooms(school, uint(yearID))
	if err != nil {
		return academicsError(c, err, "Failed to list classrooms")
	}
	return c.JSON(fiber.Map{"classrooms": classrooms})
}
