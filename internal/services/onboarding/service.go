// Package onboarding implements the guided first-time setup a new school
// administrator completes: school creation, main branch, completion. Each
// step commits independently; the persisted onboarding step counter lets an
// interrupted sequence resume on next login.
package onboarding

import (
	"time"

	"ilimi/internal/logger"
	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/services/notification"

	"go.uber.org/zap"
)

// TrialPeriod is the free trial granted to every new school.
const TrialPeriod = 30 * 24 * time.Hour

// Notifier delivers the welcome message. Satisfied by notification.Service.
type Notifier interface {
	SendWelcomeSMS(recipient, schoolName string) error
}

// CreateSchoolInput carries step-2 registration data.
type CreateSchoolInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
	Website string
	LogoURL string
}

// CreateBranchInput carries main-branch setup data. City, phone and email
// default to the school's own values when omitted.
type CreateBranchInput struct {
	Name       string
	BranchCode string
	Address    string
	City       string
	Phone      string
	Email      string
}

type Service interface {
	// CreateSchoolWithOwner creates the tenant on a 30-day trial and links
	// the creator as school_admin
	CreateSchoolWithOwner(user *models.User, input CreateSchoolInput) (*models.School, error)

	// CreateMainBranch creates the school's main branch, or returns the
	// existing one when the step is re-run on resume
	CreateMainBranch(school *models.School, input CreateBranchInput) (*models.Branch, error)

	// CompleteOnboarding marks setup finished and sends the welcome SMS
	CompleteOnboarding(school *models.School, user *models.User) error
}

type service struct {
	schoolRepo repositories.SchoolRepository
	branchRepo repositories.BranchRepository
	planRepo   repositories.PlanRepository
	notifier   Notifier
}

// NewService creates an onboarding service.
func NewService(
	schoolRepo repositories.SchoolRepository,
	branchRepo repositories.BranchRepository,
	planRepo repositories.PlanRepository,
	notifier Notifier,
) Service {
	return &service{
		schoolRepo: schoolRepo,
		branchRepo: branchRepo,
		planRepo:   planRepo,
		notifier:   notifier,
	}
}

func (s *service) CreateSchoolWithOwner(user *models.User, input CreateSchoolInput) (*models.School, error) {
	// The free plan is looked up by its fixed key; absence is tolerated
	// and leaves the reference null.
	var planID *uint
	if plan, err := s.planRepo.GetByType(models.PlanFree); err == nil {
		planID = &plan.ID
	} else if err != repositories.ErrPlanNotFound {
		return nil, err
	}

	country := input.Country
	if country == "" {
		country = "Ghana"
	}

	trialEnd := time.Now().Add(TrialPeriod)
	school := &models.School{
		Name:               input.Name,
		Email:              input.Email,
		Phone:              input.Phone,
		Address:            input.Address,
		City:               input.City,
		Country:            country,
		Website:            input.Website,
		SubscriptionPlanID: planID,
		SubscriptionStatus: models.SubscriptionTrial,
		TrialEndsAt:        &trialEnd,
		OnboardingComplete: false,
		OnboardingStep:     models.OnboardingStepSchool,
	}
	member := &models.SchoolMember{
		UserID:   user.ID,
		Role:     models.RoleSchoolAdmin,
		BranchID: nil,
		IsActive: true,
	}

	if err := s.schoolRepo.CreateWithAdmin(school, member); err != nil {
		return nil, err
	}

	// The logo lands in a follow-up write so the primary insert never
	// carries a large payload.
	if input.LogoURL != "" {
		if err := s.schoolRepo.AttachLogo(school.ID, input.LogoURL); err != nil {
			return nil, err
		}
		school.LogoURL = input.LogoURL
	}

	logger.Get().Info("school created",
		zap.String("school", school.Name), zap.String("by", user.Email))
	return school, nil
}

func (s *service) CreateMainBranch(school *models.School, input CreateBranchInput) (*models.Branch, error) {
	// Re-running this step on resume must not create a second main branch.
	if existing, err := s.branchRepo.MainBranch(school.ID); err == nil {
		return existing, nil
	} else if err != repositories.ErrBranchNotFound {
		return nil, err
	}

	branchCode := input.BranchCode
	if branchCode == "" {
		branchCode = models.DefaultBranchCode
	}
	city := input.City
	if city == "" {
		city = school.City
	}
	phone := input.Phone
	if phone == "" {
		phone = school.Phone
	}
	email := input.Email
	if email == "" {
		email = school.Email
	}

	branch := &models.Branch{
		SchoolID:     school.ID,
		Name:         input.Name,
		BranchCode:   branchCode,
		Address:      input.Address,
		City:         city,
		Phone:        phone,
		Email:        email,
		IsMainBranch: true,
		IsActive:     true,
	}
	if err := s.branchRepo.Create(branch); err != nil {
		return nil, err
	}

	if err := s.schoolRepo.SetOnboardingState(school.ID, models.OnboardingStepBranch, false); err != nil {
		return nil, err
	}
	school.OnboardingStep = models.OnboardingStepBranch

	logger.Get().Info("main branch created",
		zap.String("branch", branch.Name), zap.String("school", school.Name))
	return branch, nil
}

func (s *service) CompleteOnboarding(school *models.School, user *models.User) error {
	if err := s.schoolRepo.SetOnboardingState(school.ID, models.OnboardingStepComplete, true); err != nil {
		return err
	}
	school.OnboardingComplete = true
	school.OnboardingStep = models.OnboardingStepComplete

	if err := s.notifier.SendWelcomeSMS(user.PhoneNumber, school.Name); err != nil {
		notification.LogDeliveryFailure("welcome", user.PhoneNumber, err)
	}

	logger.Get().Info("onboarding completed", zap.String("school", school.Name))
	return nil
}
