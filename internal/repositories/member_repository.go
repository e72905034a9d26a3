package repositories

import (
	"errors"

	"ilimi/internal/models"

	"gorm.io/gorm"
)

// ErrMemberNotFound is returned when no membership matches a lookup.
var ErrMemberNotFound = errors.New("school member not found")

// MemberRepository persists (user, school, role) associations.
type MemberRepository interface {
	Create(member *models.SchoolMember) error

	// CreateWithUser creates an invited user's account and membership in
	// one transaction
	CreateWithUser(user *models.User, member *models.SchoolMember) error

	// ExistsForUserSchool reports whether the user already holds any role
	// at the school
	ExistsForUserSchool(userID, schoolID uint) (bool, error)

	// HasRole reports whether the user holds an active membership with the
	// given role at the school
	HasRole(userID, schoolID uint, role string) (bool, error)

	// FirstActiveByUser resolves the caller's school context: the first
	// active membership, with the school preloaded
	FirstActiveByUser(userID uint) (*models.SchoolMember, error)

	ListBySchool(schoolID uint) ([]models.SchoolMember, error)

	// Deactivate soft-revokes a membership without deleting the row
	Deactivate(memberID, schoolID uint) error
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(member *models.SchoolMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *memberRepository) CreateWithUser(user *models.User, member *models.SchoolMember) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		member.UserID = user.ID
		return tx.Create(member).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *memberRepository) ExistsForUserSchool(userID, schoolID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.SchoolMember{}).
		Where("user_id = ? AND school_id = ?", userID, schoolID).
		Count(&count).Error; err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}

func (r *memberRepository) HasRole(userID, schoolID uint, role string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.SchoolMember{}).
		Where("user_id = ? AND school_id = ? AND role = ? AND is_active = true",
			userID, schoolID, role).
		Count(&count).Error; err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}

func (r *memberRepository) FirstActiveByUser(userID uint) (*models.SchoolMember, error) {
	var member models.SchoolMember
	if err := r.db.Preload("School").
		Where("user_id = ? AND is_active = true", userID).
		Order("joined_at ASC").First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &member, nil
}

func (r *memberRepository) ListBySchool(schoolID uint) ([]models.SchoolMember, error) {
	var members []models.SchoolMember
	if err := r.db.Preload("User").
		Where("school_id = ?", schoolID).
		Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return members, nil
}

func (r *memberRepository) Deactivate(memberID, schoolID uint) error {
	result := r.db.Model(&models.SchoolMember{}).
		Where("id = ? AND school_id = ?", memberID, schoolID).
		Update("is_active", false)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
