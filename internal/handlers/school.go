package handlers

import (
	"errors"

	"ilimi/internal/middleware"
	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/services/invite"
	"ilimi/internal/utils/response"
	"ilimi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type SchoolHandler struct {
	schoolRepo    repositories.SchoolRepository
	branchRepo    repositories.BranchRepository
	memberRepo    repositories.MemberRepository
	inviteService invite.Service
}

func NewSchoolHandler(
	schoolRepo repositories.SchoolRepository,
	branchRepo repositories.BranchRepository,
	memberRepo repositories.MemberRepository,
	inviteService invite.Service,
) *SchoolHandler {
	return &SchoolHandler{
		schoolRepo:    schoolRepo,
		branchRepo:    branchRepo,
		memberRepo:    memberRepo,
		inviteService: inviteService,
	}
}

// GetSchool returns the caller's school profile.
func (h *SchoolHandler) GetSchool(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}
	return c.JSON(school)
}

type updateSchoolPayload struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Website *string `json:"website"`
	LogoURL *string `json:"logo_url"`
}

// UpdateSchool patches the school profile. Only provided fields change.
func (h *SchoolHandler) UpdateSchool(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	var payload updateSchoolPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if payload.Name != nil {
		school.Name = *payload.Name
	}
	if payload.Email != nil {
		school.Email = *payload.Email
	}
	if payload.Phone != nil {
		school.Phone = *payload.Phone
	}
	if payload.Address != nil {
		school.Address = *payload.Address
	}
	if payload.City != nil {
		school.City = *payload.City
	}
	if payload.Country != nil {
		school.Country = *payload.Country
	}
	if payload.Website != nil {
		school.Website = *payload.Website
	}
	if payload.LogoURL != nil {
		school.LogoURL = *payload.LogoURL
	}

	if err := h.schoolRepo.Update(school); err != nil {
		return response.ServerError(c, "Failed to update school")
	}
	return response.Success(c, "School updated successfully.", school)
}

// ListBranches lists the school's branches, main branch first.
func (h *SchoolHandler) ListBranches(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	branches, err := h.branchRepo.ListBySchool(school.ID)
	if err != nil {
		return response.ServerError(c, "Failed to list branches")
	}
	return c.JSON(fiber.Map{"branches": branches})
}

type branchPayload struct {
	Name       string `json:"name" validate:"required"`
	BranchCode string `json:"branch_code" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// CreateBranch adds a secondary branch to the school.
func (h *SchoolHandler) CreateBranch(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	var payload branchPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	branch := &models.Branch{
		SchoolID:   school.ID,
		Name:       payload.Name,
		BranchCode: payload.BranchCode,
		Address:    payload.Address,
		City:       payload.City,
		Phone:      payload.Phone,
		Email:      payload.Email,
		IsActive:   true,
	}
	if err := h.branchRepo.Create(branch); err != nil {
		return response.ServerError(c, "Failed to create branch")
	}
	return response.Created(c, "Branch created successfully.", branch)
}

// GetBranch returns one branch, scoped to the caller's school.
func (h *SchoolHandler) GetBranch(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	branchID, err := c.ParamsInt("id")
	if err != nil || branchID <= 0 {
		return response.BadRequest(c, "Invalid branch id")
	}

	branch, err := h.branchRepo.GetByIDForSchool(uint(branchID), school.ID)
	if err != nil {
		if err == repositories.ErrBranchNotFound {
			return response.NotFound(c, "Branch not found in your school.")
		}
		return response.ServerError(c, "Failed to fetch branch")
	}
	return c.JSON(branch)
}

type updateBranchPayload struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

// UpdateBranch patches a branch, scoped to the caller's school.
func (h *SchoolHandler) UpdateBranch(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	branchID, err := c.ParamsInt("id")
	if err != nil || branchID <= 0 {
		return response.BadRequest(c, "Invalid branch id")
	}

	branch, err := h.branchRepo.GetByIDForSchool(uint(branchID), school.ID)
	if err != nil {
		if err == repositories.ErrBranchNotFound {
			return response.NotFound(c, "Branch not found in your school.")
		}
		return response.ServerError(c, "Failed to fetch branch")
	}

	var payload updateBranchPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if payload.Name != nil {
		branch.Name = *payload.Name
	}
	if payload.Address != nil {
		branch.Address = *payload.Address
	}
	if payload.City != nil {
		branch.City = *payload.City
	}
	if payload.Phone != nil {
		branch.Phone = *payload.Phone
	}
	if payload.Email != nil {
		branch.Email = *payload.Email
	}
	if payload.IsActive != nil {
		branch.IsActive = *payload.IsActive
	}

	if err := h.branchRepo.Update(branch); err != nil {
		return response.ServerError(c, "Failed to update branch")
	}
	return response.Success(c, "Branch updated successfully.", branch)
}

// ListMembers lists the school's memberships with user details.
func (h *SchoolHandler) ListMembers(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	members, err := h.memberRepo.ListBySchool(school.ID)
	if err != nil {
		return response.ServerError(c, "Failed to list members")
	}

	out := make([]fiber.Map, 0, len(members))
	for _, m := range members {
		out = append(out, fiber.Map{
			"id":        m.ID,
			"role":      m.Role,
			"branch_id": m.BranchID,
			"is_active": m.IsActive,
			"joined_at": m.JoinedAt,
			"user": fiber.Map{
				"id":         m.User.ID,
				"email":      m.User.Email,
				"first_name": m.User.FirstName,
				"last_name":  m.User.LastName,
			},
		})
	}
	return c.JSON(fiber.Map{"members": out})
}

type invitePayload struct {
	Email       string `json:"email" validate:"required,email"`
	Role        string `json:"role" validate:"required"`
	BranchID    *uint  `json:"branch_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// InviteMember adds a person to the school, creating an account with a
// temporary password when they are not on the platform yet.
func (h *SchoolHandler) InviteMember(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	school := middleware.CurrentSchool(c)
	if user == nil || school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	var payload invitePayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}
	if payload.PhoneNumber != "" && !validation.IsValidPhone(payload.PhoneNumber) {
		return response.FieldError(c, "phone_number", "Enter a valid phone number.")
	}

	result, err := h.inviteService.InviteMember(school, user, invite.MemberInput{
		Email:       payload.Email,
		Role:        payload.Role,
		BranchID:    payload.BranchID,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		PhoneNumber: payload.PhoneNumber,
	})
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return response.FieldError(c, verr.Field, verr.Message)
		}
		return response.ServerError(c, "Failed to invite member")
	}

	return response.Created(c, result.Message, fiber.Map{
		"member_id":   result.MemberID,
		"is_new_user": result.IsNewUser,
	})
}

// DeactivateMember revokes a membership without deleting it.
func (h *SchoolHandler) DeactivateMember(c *fiber.Ctx) error {
	school := middleware.CurrentSchool(c)
	if school == nil {
		return response.NotFound(c, "No school found for your account.")
	}

	memberID, err := c.ParamsInt("id")
	if err != nil || memberID <= 0 {
		return response.BadRequest(c, "Invalid member id")
	}

	if err := h.memberRepo.Deactivate(uint(memberID), school.ID); err != nil {
		if err == repositories.ErrMemberNotFound {
			return response.NotFound(c, "Member not found in your school.")
		}
		return response.ServerError(c, "Failed to deactivate member")
	}
	return response.Success(c, "Member deactivated.", nil)
}
