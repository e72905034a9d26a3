package models

import (
	"fmt"
	"time"
)

// OTP verification rules. A code lives for ten minutes and allows three
// checks; any terminal state (used, expired, exhausted) requires a fresh
// record via resend.
const (
	OTPLength      = 6
	OTPMaxAttempts = 3
	OTPTTL         = 10 * time.Minute
)

// PhoneVerificationOTP is a one-time code tied 1:1 to a user. At most one
// record exists per user; creating a new one replaces any prior record.
type PhoneVerificationOTP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	Attempts  int       `gorm:"default:0" json:"attempts"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired reports whether the code's lifetime has elapsed.
func (o *PhoneVerificationOTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// IsValid reports whether the record can still be checked with a chance of
// success.
func (o *PhoneVerificationOTP) IsValid() bool {
	return !o.IsUsed && !o.IsExpired() && o.Attempts < OTPMaxAttempts
}

// Verify checks a submitted code against the record. It mutates the record
// (attempt counter, used flag) but does not persist it; the caller saves the
// record so the write shares a transaction with the account activation.
// Every check against a live record consumes one attempt, including the
// successful one.
func (o *PhoneVerificationOTP) Verify(code string) (bool, string) {
	if o.IsUsed {
		return false, "This code has already been used."
	}
	if o.IsExpired() {
		return false, "This code has expired. Please request a new one."
	}
	if o.Attempts >= OTPMaxAttempts {
		return false, "Maximum attempts exceeded. Please request a new code."
	}

	o.Attempts++

	if o.Code != code {
		remaining := OTPMaxAttempts - o.Attempts
		if remaining <= 0 {
			return false, "Maximum attempts exceeded. Please request a new code."
		}
		return false, fmt.Sprintf("Invalid code. %d attempt(s) remaining.", remaining)
	}

	o.IsUsed = true
	return true, "Phone number verified successfully."
}
