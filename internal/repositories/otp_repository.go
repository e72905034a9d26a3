package repositories

import (
	"context"
	"errors"

	"ilimi/internal/logger"
	"ilimi/internal/models"
	"ilimi/internal/repositories/cache"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrOTPNotFound is returned when no verification code exists for a user.
var ErrOTPNotFound = errors.New("otp record not found")

// OTPRepository persists one-time phone verification codes. The invariant
// "at most one live record per user" is enforced by ReplaceForUser running
// delete and create inside one transaction.
type OTPRepository interface {
	// GetByUserID retrieves the OTP record for a user
	GetByUserID(userID uint) (*models.PhoneVerificationOTP, error)

	// ReplaceForUser atomically deletes any existing record for the user
	// and persists the given one
	ReplaceForUser(otp *models.PhoneVerificationOTP) error

	// SaveAttempts persists the attempt counter after a failed check
	SaveAttempts(otp *models.PhoneVerificationOTP) error

	// MarkUsedAndActivate persists the consumed OTP and flips the user's
	// phone-verified and active flags in one transaction
	MarkUsedAndActivate(otp *models.PhoneVerificationOTP, user *models.User) error
}

type otpRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewOTPRepository creates a new instance of OTPRepository.
func NewOTPRepository(db *gorm.DB, cache *cache.CacheService) OTPRepository {
	return &otpRepository{db: db, cache: cache}
}

func (r *otpRepository) GetByUserID(userID uint) (*models.PhoneVerificationOTP, error) {
	var otp models.PhoneVerificationOTP
	if err := r.db.Where("user_id = ?", userID).First(&otp).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOTPNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &otp, nil
}

func (r *otpRepository) ReplaceForUser(otp *models.PhoneVerificationOTP) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", otp.UserID).
			Delete(&models.PhoneVerificationOTP{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *otpRepository) SaveAttempts(otp *models.PhoneVerificationOTP) error {
	if err := r.db.Model(otp).
		Updates(map[string]interface{}{"attempts": otp.Attempts, "is_used": otp.IsUsed}).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *otpRepository) MarkUsedAndActivate(otp *models.PhoneVerificationOTP, user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(otp).
			Updates(map[string]interface{}{"attempts": otp.Attempts, "is_used": true}).Error; err != nil {
			return err
		}
		// Both flags flip in the same statement; a half-activated account
		// is an invariant violation.
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"is_phone_verified": true,
				"is_active":         true,
			}).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}

	user.IsPhoneVerified = true
	user.IsActive = true
	if err := r.cache.InvalidateUser(context.Background(), user); err != nil {
		logger.Get().Warn("failed to invalidate user cache", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return nil
}
