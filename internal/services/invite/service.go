// Package invite adds staff members to a school, creating accounts with
// temporary credentials for people not yet on the platform.
package invite

import (
	"fmt"

	"ilimi/internal/config"
	"ilimi/internal/logger"
	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/services/notification"
	"ilimi/internal/utils"
	"ilimi/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Notifier delivers membership notifications. Satisfied by
// notification.Service.
type Notifier interface {
	SendSMS(recipient, message string) error
}

// MemberInput carries an invitation request.
type MemberInput struct {
	Email       string
	Role        string
	BranchID    *uint
	FirstName   string
	LastName    string
	PhoneNumber string
}

// Result reports the outcome of an invitation.
type Result struct {
	Message   string `json:"message"`
	MemberID  uint   `json:"member_id"`
	IsNewUser bool   `json:"is_new_user"`
}

type Service interface {
	// InviteMember links an existing account or creates a new active one
	// with a temporary password, then creates the membership. Validation
	// failures (bad branch, duplicate membership) come back as
	// *validation.Error.
	InviteMember(school *models.School, invitedBy *models.User, input MemberInput) (*Result, error)
}

type service struct {
	userRepo   repositories.UserRepository
	memberRepo repositories.MemberRepository
	branchRepo repositories.BranchRepository
	notifier   Notifier
}

// NewService creates an invitation service.
func NewService(
	userRepo repositories.UserRepository,
	memberRepo repositories.MemberRepository,
	branchRepo repositories.BranchRepository,
	notifier Notifier,
) Service {
	return &service{
		userRepo:   userRepo,
		memberRepo: memberRepo,
		branchRepo: branchRepo,
		notifier:   notifier,
	}
}

func (s *service) InviteMember(school *models.School, invitedBy *models.User, input MemberInput) (*Result, error) {
	if !models.IsValidRole(input.Role) {
		return nil, validation.NewError("role", "Unknown role.")
	}

	var branch *models.Branch
	if input.BranchID != nil {
		b, err := s.branchRepo.GetByIDForSchool(*input.BranchID, school.ID)
		if err != nil {
			if err == repositories.ErrBranchNotFound {
				return nil, validation.NewError("branch_id", "Branch not found in your school.")
			}
			return nil, err
		}
		branch = b
	}

	existing, err := s.userRepo.GetByEmail(input.Email)
	if err != nil && err != repositories.ErrUserNotFound {
		return nil, err
	}

	if existing != nil {
		alreadyMember, err := s.memberRepo.ExistsForUserSchool(existing.ID, school.ID)
		if err != nil {
			return nil, err
		}
		if alreadyMember {
			return nil, validation.NewError("email", "This person is already a member of your school.")
		}
		return s.linkExistingUser(school, invitedBy, existing, branch, input.Role)
	}

	return s.createAndLinkNewUser(school, invitedBy, branch, input)
}

func (s *service) linkExistingUser(school *models.School, invitedBy, user *models.User, branch *models.Branch, role string) (*Result, error) {
	member := &models.SchoolMember{
		UserID:   user.ID,
		SchoolID: school.ID,
		Role:     role,
		IsActive: true,
	}
	if branch != nil {
		member.BranchID = &branch.ID
	}
	if err := s.memberRepo.Create(member); err != nil {
		return nil, err
	}

	s.notifyExistingUser(user, school, role, invitedBy)

	logger.Get().Info("existing user added to school",
		zap.String("email", user.Email), zap.String("school", school.Name), zap.String("role", role))
	return &Result{
		Message:   fmt.Sprintf("%s has been added to %s.", user.FirstName, school.Name),
		MemberID:  member.ID,
		IsNewUser: false,
	}, nil
}

func (s *service) createAndLinkNewUser(school *models.School, invitedBy *models.User, branch *models.Branch, input MemberInput) (*Result, error) {
	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:       input.Email,
		Password:    string(hashed),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		IsActive:    true,
	}
	// Without a phone there is no channel for the credential; force a
	// password reset on first login instead of leaking it to a log.
	if input.PhoneNumber == "" {
		user.RequirePasswordReset = true
	}

	member := &models.SchoolMember{
		SchoolID: school.ID,
		Role:     input.Role,
		IsActive: true,
	}
	if branch != nil {
		member.BranchID = &branch.ID
	}

	if err := s.memberRepo.CreateWithUser(user, member); err != nil {
		return nil, err
	}

	s.notifyNewUser(user, school, input.Role, tempPassword, invitedBy)

	logger.Get().Info("new user created and added to school",
		zap.String("email", user.Email), zap.String("school", school.Name), zap.String("role", input.Role))
	return &Result{
		Message:   fmt.Sprintf("Invitation sent to %s. They will receive their login details.", input.Email),
		MemberID:  member.ID,
		IsNewUser: true,
	}, nil
}

func (s *service) notifyExistingUser(user *models.User, school *models.School, role string, invitedBy *models.User) {
	if user.PhoneNumber == "" {
		return
	}
	message := fmt.Sprintf(
		"Hi %s, you have been added to %s as %s by %s. Log in at ilimi.app to get started.",
		user.FirstName, school.Name, role, invitedBy.FullName(),
	)
	if err := s.notifier.SendSMS(user.PhoneNumber, message); err != nil {
		notification.LogDeliveryFailure("invite", user.PhoneNumber, err)
	}
}

func (s *service) notifyNewUser(user *models.User, school *models.School, role, tempPassword string, invitedBy *models.User) {
	if user.PhoneNumber != "" {
		name := user.FirstName
		if name == "" {
			name = "there"
		}
		message := fmt.Sprintf(
			"Hi %s, you have been invited to join %s on Ilimi as %s. "+
				"Login: %s | Temp password: %s Please change your password after first login.",
			name, school.Name, role, user.Email, tempPassword,
		)
		if err := s.notifier.SendSMS(user.PhoneNumber, message); err != nil {
			notification.LogDeliveryFailure("invite", user.PhoneNumber, err)
		}
		return
	}

	if config.IsProduction() {
		logger.Get().Warn("invited user has no phone number; password reset required on first login",
			zap.String("email", user.Email), zap.String("school", school.Name))
		return
	}

	// Development only: surface the credential for manual delivery.
	logger.Get().Info("invite credentials (no phone on file)",
		zap.String("email", user.Email),
		zap.String("temp_password", tempPassword),
		zap.String("school", school.Name),
		zap.String("role", role),
	)
}
