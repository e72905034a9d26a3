package verification

import (
	"errors"
	"testing"
	"time"

	"ilimi/internal/models"
	"ilimi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOTPRepo struct {
	mock.Mock
}

func (m *MockOTPRepo) GetByUserID(userID uint) (*models.PhoneVerificationOTP, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PhoneVerificationOTP), args.Error(1)
}

func (m *MockOTPRepo) ReplaceForUser(otp *models.PhoneVerificationOTP) error {
	return m.Called(otp).Error(0)
}

func (m *MockOTPRepo) SaveAttempts(otp *models.PhoneVerificationOTP) error {
	return m.Called(otp).Error(0)
}

func (m *MockOTPRepo) MarkUsedAndActivate(otp *models.PhoneVerificationOTP, user *models.User) error {
	return m.Called(otp, user).Error(0)
}

func liveOTP(userID uint, code string) *models.PhoneVerificationOTP {
	return &models.PhoneVerificationOTP{
		ID:        1,
		UserID:    userID,
		Code:      code,
		ExpiresAt: time.Now().Add(models.OTPTTL),
	}
}

func TestVerifyPhoneOTP_Success(t *testing.T) {
	repo := new(MockOTPRepo)
	user := &models.User{Email: "ama@example.com", PhoneNumber: "+233241234567"}
	user.ID = 7
	otp := liveOTP(7, "482913")

	repo.On("GetByUserID", uint(7)).Return(otp, nil)
	repo.On("MarkUsedAndActivate", otp, user).Return(nil)

	ok, msg, err := NewService(repo).VerifyPhoneOTP(user, "482913")

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Phone number verified successfully.", msg)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "SaveAttempts", mock.Anything)
}

func TestVerifyPhoneOTP_WrongCodePersistsAttempt(t *testing.T) {
	repo := new(MockOTPRepo)
	user := &models.User{}
	user.ID = 7
	otp := liveOTP(7, "482913")

	repo.On("GetByUserID", uint(7)).Return(otp, nil)
	repo.On("SaveAttempts", otp).Return(nil)

	ok, msg, err := NewService(repo).VerifyPhoneOTP(user, "000000")

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Invalid code. 2 attempt(s) remaining.", msg)
	assert.Equal(t, 1, otp.Attempts)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkUsedAndActivate", mock.Anything, mock.Anything)
}

func TestVerifyPhoneOTP_NoRecord(t *testing.T) {
	repo := new(MockOTPRepo)
	user := &models.User{}
	user.ID = 7

	repo.On("GetByUserID", uint(7)).Return(nil, repositories.ErrOTPNotFound)

	ok, msg, err := NewService(repo).VerifyPhoneOTP(user, "482913")

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "No verification code found. Please request a new one.", msg)
	repo.AssertNotCalled(t, "SaveAttempts", mock.Anything)
}

func TestVerifyPhoneOTP_ExhaustedRecordSkipsWrite(t *testing.T) {
	repo := new(MockOTPRepo)
	user := &models.User{}
	user.ID = 7
	otp := liveOTP(7, "482913")
	otp.Attempts = models.OTPMaxAttempts

	repo.On("GetByUserID", uint(7)).Return(otp, nil)

	ok, msg, err := NewService(repo).VerifyPhoneOTP(user, "482913")

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Maximum attempts exceeded. Please request a new code.", msg)
	repo.AssertNotCalled(t, "SaveAttempts", mock.Anything)
}

func TestVerifyPhoneOTP_RepositoryError(t *testing.T) {
	repo := new(MockOTPRepo)
	user := &models.User{}
	user.ID = 7

	repo.On("GetByUserID", uint(7)).Return(nil, errors.New("connection reset"))

	ok, _, err := NewService(repo).VerifyPhoneOTP(user, "482913")

	assert.Error(t, err)
	assert.False(t, ok)
}
