package models

import (
	"time"
)

// Staff roles a user can hold at a school.
const (
	RoleSchoolAdmin   = "school_admin"
	RoleBranchManager = "branch_manager"
	RoleTeacher       = "teacher"
	RoleAccountant    = "accountant"
	RoleReceptionist  = "receptionist"
)

// MemberRoles lists every assignable role.
var MemberRoles = []string{
	RoleSchoolAdmin,
	RoleBranchManager,
	RoleTeacher,
	RoleAccountant,
	RoleReceptionist,
}

// IsValidRole reports whether role is one of the assignable member roles.
func IsValidRole(role string) bool {
	for _, r := range MemberRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SchoolMember links a user to a school with a role and an optional branch
// scope. A user may hold the same role at a school only once, but may hold
// several distinct roles at the same school. IsActive supports soft
// revocation without deleting the row.
type SchoolMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_member_user_school_role" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SchoolID uint      `gorm:"not null;index;uniqueIndex:idx_member_user_school_role" json:"school_id"`
	School   *School   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BranchID *uint     `json:"branch_id"`
	Branch   *Branch   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Role     string    `gorm:"not null;uniqueIndex:idx_member_user_school_role" json:"role"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// IsSchoolLevel reports whether the membership applies across all branches.
func (m *SchoolMember) IsSchoolLevel() bool { return m.BranchID == nil }
