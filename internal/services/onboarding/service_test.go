package onboarding

import (
	"errors"
	"testing"
	"time"

	"ilimi/internal/models"
	"ilimi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSchoolRepo struct {
	mock.Mock
}

func (m *MockSchoolRepo) Create(school *models.School) error {
	return m.Called(school).Error(0)
}

func (m *MockSchoolRepo) CreateWithAdmin(school *models.School, member *models.SchoolMember) error {
	return m.Called(school, member).Error(0)
}

func (m *MockSchoolRepo) GetByID(id uint) (*models.School, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.School), args.Error(1)
}

func (m *MockSchoolRepo) Update(school *models.School) error {
	return m.Called(school).Error(0)
}

func (m *MockSchoolRepo) AttachLogo(schoolID uint, logoURL string) error {
	return m.Called(schoolID, logoURL).Error(0)
}

func (m *MockSchoolRepo) SetOnboardingState(schoolID uint, step int, complete bool) error {
	return m.Called(schoolID, step, complete).Error(0)
}

type MockBranchRepo struct {
	mock.Mock
}

func (m *MockBranchRepo) Create(branch *models.Branch) error {
	return m.Called(branch).Error(0)
}

func (m *MockBranchRepo) GetByIDForSchool(id, schoolID uint) (*models.Branch, error) {
	args := m.Called(id, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Branch), args.Error(1)
}

func (m *MockBranchRepo) ListBySchool(schoolID uint) ([]models.Branch, error) {
	args := m.Called(schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Branch), args.Error(1)
}

func (m *MockBranchRepo) Update(branch *models.Branch) error {
	return m.Called(branch).Error(0)
}

func (m *MockBranchRepo) MainBranch(schoolID uint) (*models.Branch, error) {
	args := m.Called(schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Branch), args.Error(1)
}

type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) GetByType(planType string) (*models.SubscriptionPlan, error) {
	args := m.Called(planType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepo) Upsert(plan *models.SubscriptionPlan) error {
	return m.Called(plan).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendWelcomeSMS(recipient, schoolName string) error {
	return m.Called(recipient, schoolName).Error(0)
}

func owner() *models.User {
	u := &models.User{Email: "kwame@example.com", PhoneNumber: "+233241234567"}
	u.ID = 1
	return u
}

func TestCreateSchoolWithOwner(t *testing.T) {
	schoolRepo := new(MockSchoolRepo)
	branchRepo := new(MockBranchRepo)
	planRepo := new(MockPlanRepo)
	notifier := new(MockNotifier)

	freePlan := &models.SubscriptionPlan{ID: 5, PlanType: models.PlanFree}
	planRepo.On("GetByType", models.PlanFree).Return(freePlan, nil)

	var createdMember *models.SchoolMember
	schoolRepo.On("CreateWithAdmin", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			createdMember = args.Get(1).(*models.SchoolMember)
		}).Return(nil)

	svc := NewService(schoolRepo, branchRepo, planRepo, notifier)
	school, err := svc.CreateSchoolWithOwner(owner(), CreateSchoolInput{
		Name:  "Sunrise Academy",
		Email: "info@sunrise.edu.gh",
		Phone: "+233302111222",
		City:  "Accra",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.SubscriptionTrial, school.SubscriptionStatus)
	assert.Equal(t, uint(5), *school.SubscriptionPlanID)
	assert.Equal(t, "Ghana", school.Country, "country defaults when omitted")
	assert.Equal(t, models.OnboardingStepSchool, school.OnboardingStep)
	assert.False(t, school.OnboardingComplete)
	assert.NotNil(t, school.TrialEndsAt)
	assert.WithinDuration(t, time.Now().Add(TrialPeriod), *school.TrialEndsAt, 5*time.Second)

	assert.Equal(t, models.RoleSchoolAdmin, createdMember.Role)
	assert.Equal(t, uint(1), createdMember.UserID)
	assert.Nil(t, createdMember.BranchID, "the first membership is school-wide")
	assert.True(t, createdMember.IsActive)
	schoolRepo.AssertNotCalled(t, "AttachLogo", mock.Anything, mock.Anything)
}

func TestCreateSchoolWithOwner_MissingFreePlanTolerated(t *testing.T) {
	schoolRepo := new(MockSchoolRepo)
	planRepo := new(MockPlanRepo)

	planRepo.On("GetByType", models.PlanFree).Return(nil, repositories.ErrPlanNotFound)
	schoolRepo.On("CreateWithAdmin", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(schoolRepo, new(MockBranchRepo), planRepo, new(MockNotifier))
	school, err := svc.CreateSchoolWithOwner(owner(), CreateSchoolInput{
		Name:  "Sunrise Academy",
		Email: "info@sunrise.edu.gh",
	})

	assert.NoError(t, err)
	assert.Nil(t, school.SubscriptionPlanID)
}

func TestCreateSchoolWithOwner_LogoSecondWrite(t *testing.T) {
	schoolRepo := new(MockSchoolRepo)
	planRepo := new(MockPlanRepo)

	planRepo.On("GetByType", models.PlanFree).Return(nil, repositories.ErrPlanNotFound)
	schoolRepo.On("CreateWithAdmin", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.School).ID = 3
		}).Return(nil)
	schoolRepo.On("AttachLogo", uint(3), "https://cdn.example.com/logo.png").Return(nil)

	svc := NewService(schoolRepo, new(MockBranchRepo), planRepo, new(MockNotifier))
	school, err := svc.CreateSchoolWithOwner(owner(), CreateSchoolInput{
		Name:    "Sunrise Academy",
		Email:   "info@sunrise.edu.gh",
		LogoURL: "https://cdn.example.com/logo.png",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", school.LogoURL)
	schoolRepo.AssertExpectations(t)
}

func TestCreateMainBranch_InheritsSchoolContacts(t *testing.T) {
	schoolRepo := new(MockSchoolRepo)
	branchRepo := new(MockBranchRepo)

	school := &models.School{
		Name:  "Sunrise Academy",
		Email: "info@sunrise.edu.gh",
		Phone: "+233302111222",
		City:  "Accra",
	}
	school.ID = 3

	branchRepo.On("MainBranch", uint(3)).Return(nil, repositories.ErrBranchNotFound)

	var created *models.Branch
	branchRepo.On("Create", mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*models.Branch)
		}).Return(nil)
	schoolRepo.On("SetOnboardingState", uint(3), models.OnboardingStepBranch, false).Return(nil)

	svc := NewService(schoolRepo, branchRepo, new(MockPlanRepo), new(MockNotifier))
	branch, err := svc.CreateMainBranch(school, CreateBranchInput{
		Name:    "Main Campus",
		Address: "12 Ring Road",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.DefaultBranchCode, created.BranchCode)
	assert.Equal(t, "Accra", created.City)
	assert.Equal(t, "+233302111222", created.Phone)
	assert.Equal(t, "info@sunrise.edu.gh", created.Email)
	assert.True(t, created.IsMainBranch)
	assert.True(t, created.IsActive)
	assert.Equal(t, models.OnboardingStepBranch, school.OnboardingStep)
	assert.Same(t, created, branch)
	schoolRepo.AssertExpectations(t)
}

func TestCreateMainBranch_ResumeReturnsExisting(t *testing.T) {
	schoolRepo := new(MockSchoolRepo)
	branchRepo := new(MockBranchRepo)

	school := &models.School{Name: "Sunrise Academy"}
	school.ID = 3
	existing := &models.Branch{SchoolID: 3, Name: "Main Campus", IsMainBranch: true}
	existing.ID = 9

	branchRepo.On("MainBranch", uint(3)).Return(existing, nil)

	svc := NewService(schoolRepo, branchRepo, new(MockPlanRepo), new(MockNotifier))
	branch, err := svc.CreateMainBranch(school, CreateBranchInput{Name: "Another Name"})

	assert.NoError(t, err)
	assert.Same(t, existing, branch)
	branchRepo.AssertNotCalled(t, "Create", mock.Anything)
	schoolRepo.AssertNotCalled(t, "SetOnboardingState", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteOnboarding(t *testing.T) {
	schoolRepo := new(MockSchoolRepo)
	notifier := new(MockNotifier)

	school := &models.School{Name: "Sunrise Academy", OnboardingStep: models.OnboardingStepBranch}
	school.ID = 3

	schoolRepo.On("SetOnboardingState", uint(3), models.OnboardingStepComplete, true).Return(nil)
	notifier.On("SendWelcomeSMS", "+233241234567", "Sunrise Academy").Return(nil)

	svc := NewService(schoolRepo, new(MockBranchRepo), new(MockPlanRepo), notifier)
	err := svc.CompleteOnboarding(school, owner())

	assert.NoError(t, err)
	assert.True(t, school.OnboardingComplete)
	assert.Equal(t, models.OnboardingStepComplete, school.OnboardingStep)
	notifier.AssertExpectations(t)
}

func TestCompleteOnboarding_WelcomeSMSFailureTolerated(t *testing.T) {
	schoolRepo := new(MockSchoolRepo)
	notifier := new(MockNotifier)

	school := &models.School{Name: "Sunrise Academy"}
	school.ID = 3

	schoolRepo.On("SetOnboardingState", uint(3), models.OnboardingStepComplete, true).Return(nil)
	notifier.On("SendWelcomeSMS", mock.Anything, mock.Anything).Return(errors.New("gateway down"))

	svc := NewService(schoolRepo, new(MockBranchRepo), new(MockPlanRepo), notifier)
	err := svc.CompleteOnboarding(school, owner())

	assert.NoError(t, err)
	assert.True(t, school.OnboardingComplete)
}
