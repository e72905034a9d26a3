// Package registration creates inactive user accounts and manages the
// phone verification codes that activate them.
package registration

import (
	"fmt"
	"time"

	"ilimi/internal/logger"
	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/services/notification"
	"ilimi/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ResendCooldown is the minimum interval between OTP resend requests.
const ResendCooldown = 60 * time.Second

// Notifier delivers verification codes. Satisfied by notification.Service.
type Notifier interface {
	SendOTPSMS(recipient, code string) error
}

// CreateAccountInput carries step-1 registration data. Email and phone are
// pre-validated as unregistered by the handler; this service trusts them.
type CreateAccountInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type Service interface {
	// CreateUserAccount creates an inactive user plus its OTP record and
	// dispatches the code by SMS (best-effort, after the commit)
	CreateUserAccount(input CreateAccountInput) (*models.User, *models.PhoneVerificationOTP, error)

	// ResendOTP replaces the user's code, rate limited to once per minute
	ResendOTP(user *models.User) (bool, string, error)
}

type service struct {
	userRepo repositories.UserRepository
	otpRepo  repositories.OTPRepository
	notifier Notifier
}

// NewService creates a registration service.
func NewService(userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, notifier Notifier) Service {
	return &service{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		notifier: notifier,
	}
}

func (s *service) CreateUserAccount(input CreateAccountInput) (*models.User, *models.PhoneVerificationOTP, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	user := &models.User{
		Email:       input.Email,
		Password:    string(hashed),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		IsActive:    false,
	}
	otp := &models.PhoneVerificationOTP{
		Code:      code,
		ExpiresAt: time.Now().Add(models.OTPTTL),
	}

	if err := s.userRepo.CreateWithOTP(user, otp); err != nil {
		return nil, nil, err
	}

	// Dispatch sits outside the transaction: a gateway fault must not lose
	// the account that was just created.
	if err := s.notifier.SendOTPSMS(user.PhoneNumber, otp.Code); err != nil {
		notification.LogDeliveryFailure("otp", user.PhoneNumber, err)
	}

	logger.Get().Info("new user account created", zap.String("email", user.Email))
	return user, otp, nil
}

func (s *service) ResendOTP(user *models.User) (bool, string, error) {
	existing, err := s.otpRepo.GetByUserID(user.ID)
	if err != nil && err != repositories.ErrOTPNotFound {
		return false, "", err
	}

	if existing != nil {
		elapsed := time.Since(existing.CreatedAt)
		if elapsed < ResendCooldown {
			secondsLeft := int(ResendCooldown.Seconds()) - int(elapsed.Seconds())
			return false, fmt.Sprintf("Please wait %d seconds before requesting a new code.", secondsLeft), nil
		}
	}

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return false, "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	otp := &models.PhoneVerificationOTP{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(models.OTPTTL),
	}
	if err := s.otpRepo.ReplaceForUser(otp); err != nil {
		return false, "", err
	}

	if err := s.notifier.SendOTPSMS(user.PhoneNumber, otp.Code); err != nil {
		notification.LogDeliveryFailure("otp", user.PhoneNumber, err)
	}

	return true, "A new verification code has been sent to your phone.", nil
}
