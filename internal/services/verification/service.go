// Package verification checks submitted phone codes and activates accounts.
package verification

import (
	"ilimi/internal/logger"
	"ilimi/internal/models"
	"ilimi/internal/repositories"

	"go.uber.org/zap"
)

type Service interface {
	// VerifyPhoneOTP checks a submitted code for the user. Expected
	// failures (wrong, expired, exhausted, missing code) come back as
	// (false, message, nil); error is reserved for persistence faults.
	// On success the phone-verified and active flags are set together.
	VerifyPhoneOTP(user *models.User, code string) (bool, string, error)
}

type service struct {
	otpRepo repositories.OTPRepository
}

// NewService creates a verification service.
func NewService(otpRepo repositories.OTPRepository) Service {
	return &service{otpRepo: otpRepo}
}

func (s *service) VerifyPhoneOTP(user *models.User, code string) (bool, string, error) {
	otp, err := s.otpRepo.GetByUserID(user.ID)
	if err != nil {
		if err == repositories.ErrOTPNotFound {
			return false, "No verification code found. Please request a new one.", nil
		}
		return false, "", err
	}

	attemptsBefore := otp.Attempts
	ok, message := otp.Verify(code)

	if !ok {
		// Terminal pre-checks (used/expired/exhausted) do not touch the
		// counter; only a consumed attempt needs persisting.
		if otp.Attempts != attemptsBefore {
			if err := s.otpRepo.SaveAttempts(otp); err != nil {
				return false, "", err
			}
		}
		return false, message, nil
	}

	if err := s.otpRepo.MarkUsedAndActivate(otp, user); err != nil {
		return false, "", err
	}

	logger.Get().Info("phone verified", zap.String("email", user.Email))
	return true, message, nil
}
