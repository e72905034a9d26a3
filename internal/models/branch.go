package models

import (
	"gorm.io/gorm"
)

// DefaultBranchCode is used for the first branch created during onboarding.
const DefaultBranchCode = "MAIN"

// Branch is a physical location belonging to exactly one school. By
// convention a school has exactly one branch flagged as main; the flag is
// set by the onboarding service rather than enforced by the database.
type Branch struct {
	gorm.Model
	SchoolID     uint    `gorm:"not null;index;uniqueIndex:idx_branch_school_code" json:"school_id"`
	School       *School `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name         string  `gorm:"not null" json:"name"`
	BranchCode   string  `gorm:"not null;uniqueIndex:idx_branch_school_code" json:"branch_code"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	IsMainBranch bool    `gorm:"default:false" json:"is_main_branch"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`
}
