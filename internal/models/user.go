package models

import (
	"gorm.io/gorm"
)

// User is a platform-level identity. Accounts are created inactive and only
// become active once the phone number has been verified. Schools reference
// users through SchoolMember rows; they never own the account itself.
type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// Invited accounts may be created without a phone number, so uniqueness
	// is enforced only over non-empty values.
	PhoneNumber          string `gorm:"not null;uniqueIndex:idx_users_phone_number,where:phone_number <> ''" json:"phone_number"`
	IsActive             bool   `gorm:"default:false" json:"is_active"`
	IsPhoneVerified      bool   `gorm:"default:false" json:"is_phone_verified"`
	IsEmailVerified      bool   `gorm:"default:false" json:"is_email_verified"`
	RequirePasswordReset bool   `gorm:"default:false" json:"-"`
	TokenVersion         int    `gorm:"default:1" json:"-"`
}

// FullName returns the display name used in SMS messages.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
