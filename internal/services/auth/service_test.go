package auth

import (
	"testing"

	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/utils"
	"ilimi/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) CreateWithOTP(user *models.User, otp *models.PhoneVerificationOTP) error {
	return m.Called(user, otp).Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	return m.Called(userID, hashedPassword).Error(0)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func activeUser(t *testing.T) *models.User {
	user := &models.User{
		Email:        "ama@example.com",
		Password:     hashOf(t, "sekret-pass"),
		IsActive:     true,
		TokenVersion: 2,
	}
	user.ID = 7
	return user
}

func TestLogin_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := new(MockUserRepo)
	user := activeUser(t)
	repo.On("GetByEmail", "ama@example.com").Return(user, nil)

	got, access, refresh, err := NewService(repo).Login("ama@example.com", "", "sekret-pass")

	assert.NoError(t, err)
	assert.Equal(t, user, got)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	_, claims, err := utils.ParseToken(access)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, 2, claims.TokenVersion)
}

func TestLogin_ByPhone(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := new(MockUserRepo)
	user := activeUser(t)
	user.PhoneNumber = "+233241234567"
	repo.On("GetByPhone", "+233241234567").Return(user, nil)

	_, access, _, err := NewService(repo).Login("", "+233241234567", "sekret-pass")

	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByEmail", "ama@example.com").Return(activeUser(t), nil)

	_, _, _, err := NewService(repo).Login("ama@example.com", "", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByEmail", "ghost@example.com").Return(nil, repositories.ErrUserNotFound)

	_, _, _, err := NewService(repo).Login("ghost@example.com", "", "sekret-pass")

	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown identifier and wrong password are indistinguishable")
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	repo := new(MockUserRepo)
	user := activeUser(t)
	user.IsActive = false
	repo.On("GetByEmail", "ama@example.com").Return(user, nil)

	_, _, _, err := NewService(repo).Login("ama@example.com", "", "sekret-pass")

	assert.ErrorIs(t, err, ErrAccountNotVerified)
}

func TestRefreshTokens_VersionMismatch(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := new(MockUserRepo)
	user := activeUser(t)
	svc := NewService(repo)

	_, refresh, err := svc.TokensFor(user)
	assert.NoError(t, err)

	// Logout elsewhere bumps the version; the old refresh token dies.
	user.TokenVersion++
	repo.On("GetByID", uint(7)).Return(user, nil)

	_, _, err = svc.RefreshTokens(refresh)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token version mismatch")
}

func TestRefreshTokens_Valid(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := new(MockUserRepo)
	user := activeUser(t)
	svc := NewService(repo)

	_, refresh, err := svc.TokensFor(user)
	assert.NoError(t, err)

	repo.On("GetByID", uint(7)).Return(user, nil)

	access, newRefresh, err := svc.RefreshTokens(refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)
}

func TestLogout(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("IncrementTokenVersion", uint(7)).Return(nil)

	assert.NoError(t, NewService(repo).Logout(7))
	repo.AssertExpectations(t)
}

func TestChangePassword(t *testing.T) {
	repo := new(MockUserRepo)
	user := activeUser(t)
	user.RequirePasswordReset = true
	repo.On("GetByID", uint(7)).Return(user, nil)
	repo.On("Update", user).Return(nil)

	err := NewService(repo).ChangePassword(7, "sekret-pass", "new-sekret-pass")

	assert.NoError(t, err)
	assert.Equal(t, 3, user.TokenVersion, "existing sessions are invalidated")
	assert.False(t, user.RequirePasswordReset)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("new-sekret-pass")))
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByID", uint(7)).Return(activeUser(t), nil)

	err := NewService(repo).ChangePassword(7, "wrong", "new-sekret-pass")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestChangePassword_PolicyViolation(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByID", uint(7)).Return(activeUser(t), nil)

	err := NewService(repo).ChangePassword(7, "sekret-pass", "short")

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}
