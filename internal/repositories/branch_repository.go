package repositories

import (
	"errors"

	"ilimi/internal/models"

	"gorm.io/gorm"
)

// ErrBranchNotFound is returned when a branch does not exist within the
// requested school scope.
var ErrBranchNotFound = errors.New("branch not found")

// BranchRepository persists branches. All lookups are scoped to a school so
// a branch id from another tenant can never resolve.
type BranchRepository interface {
	Create(branch *models.Branch) error
	GetByIDForSchool(id, schoolID uint) (*models.Branch, error)
	ListBySchool(schoolID uint) ([]models.Branch, error)
	Update(branch *models.Branch) error

	// MainBranch returns the branch flagged main for the school, or
	// ErrBranchNotFound when onboarding has not created one yet
	MainBranch(schoolID uint) (*models.Branch, error)
}

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new instance of BranchRepository.
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(branch *models.Branch) error {
	if err := r.db.Create(branch).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *branchRepository) GetByIDForSchool(id, schoolID uint) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.Where("id = ? AND school_id = ?", id, schoolID).First(&branch).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBranchNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &branch, nil
}

func (r *branchRepository) ListBySchool(schoolID uint) ([]models.Branch, error) {
	var branches []models.Branch
	if err := r.db.Where("school_id = ?", schoolID).
		Order("is_main_branch DESC, name ASC").Find(&branches).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return branches, nil
}

func (r *branchRepository) Update(branch *models.Branch) error {
	if err := r.db.Save(branch).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *branchRepository) MainBranch(schoolID uint) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.Where("school_id = ? AND is_main_branch = true", schoolID).
		First(&branch).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBranchNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &branch, nil
}
