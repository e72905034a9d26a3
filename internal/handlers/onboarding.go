package handlers

import (
	"ilimi/internal/middleware"
	"ilimi/internal/services/onboarding"
	"ilimi/internal/utils/response"
	"ilimi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type OnboardingHandler struct {
	onboardingService onboarding.Service
}

func NewOnboardingHandler(onboardingService onboarding.Service) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

type createSchoolPayload struct {
	SchoolName  string `json:"school_name" validate:"required"`
	SchoolEmail string `json:"school_email" validate:"required,email"`
	SchoolPhone string `json:"school_phone" validate:"required"`
	Address     string `json:"address"`
	City        string `json:"city" validate:"required"`
	Country     string `json:"country"`
	Website     string `json:"website"`
	LogoURL     string `json:"logo_url"`
}

// CreateSchool creates the tenant and links the caller as school_admin.
func (h *OnboardingHandler) CreateSchool(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var payload createSchoolPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	school, err := h.onboardingService.CreateSchoolWithOwner(user, onboarding.CreateSchoolInput{
		Name:    payload.SchoolName,
		Email:   payload.SchoolEmail,
		Phone:   payload.SchoolPhone,
		Address: payload.Address,
		City:    payload.City,
		Country: payload.Country,
		Website: payload.Website,
		LogoURL: payload.LogoURL,
	})
	if err != nil {
		return response.ServerError(c, "Failed to create school")
	}

	return response.Created(c, "School created successfully.", school)
}

type createBranchPayload struct {
	BranchName string `json:"branch_name" validate:"required"`
	BranchCode string `json:"branch_code"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// CreateMainBranch creates the school's main branch. Safe to re-run on
// resume: an existing main branch is returned unchanged.
func (h *OnboardingHandler) CreateMainBranch(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	var payload createBranchPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	branch, err := h.onboardingService.CreateMainBranch(school, onboarding.CreateBranchInput{
		Name:       payload.BranchName,
		BranchCode: payload.BranchCode,
		Address:    payload.Address,
		City:       payload.City,
		Phone:      payload.Phone,
		Email:      payload.Email,
	})
	if err != nil {
		return response.ServerError(c, "Failed to create branch")
	}

	return response.Created(c, "Main branch created successfully.", branch)
}

// Complete marks onboarding finished and triggers the welcome SMS.
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	school := middleware.CurrentSchool(c)
	if user == nil || school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	if err := h.onboardingService.CompleteOnboarding(school, user); err != nil {
		return response.ServerError(c, "Failed to complete onboarding")
	}
	return response.Success(c, "Onboarding complete. Welcome to Ilimi!", fiber.Map{
		"onboarding_complete": school.OnboardingComplete,
		"onboarding_step":     school.OnboardingStep,
	})
}

// Status reports the persisted onboarding progress so clients can resume
// an interrupted setup sequence.
func (h *OnboardingHandler) Status(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}
	return c.JSON(fiber.Map{
		"onboarding_complete": school.OnboardingComplete,
		"onboarding_step":     school.OnboardingStep,
	})
}
