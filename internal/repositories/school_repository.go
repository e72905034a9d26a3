package repositories

import (
	"errors"

	"ilimi/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSchoolNotFound = errors.New("school not found")
	ErrPlanNotFound   = errors.New("subscription plan not found")
)

// SchoolRepository persists tenant records.
type SchoolRepository interface {
	Create(school *models.School) error

	// CreateWithAdmin creates the school and its first school_admin
	// membership in one transaction
	CreateWithAdmin(school *models.School, member *models.SchoolMember) error

	GetByID(id uint) (*models.School, error)
	Update(school *models.School) error

	// AttachLogo writes the logo reference as a follow-up to the initial
	// insert so the primary row write stays small
	AttachLogo(schoolID uint, logoURL string) error

	// SetOnboardingState persists the step counter and completion flag
	SetOnboardingState(schoolID uint, step int, complete bool) error
}

// PlanRepository reads and seeds the subscription plan catalogue.
type PlanRepository interface {
	GetByType(planType string) (*models.SubscriptionPlan, error)
	Upsert(plan *models.SubscriptionPlan) error
}

type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository creates a new instance of SchoolRepository.
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(school *models.School) error {
	if err := r.db.Create(school).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *schoolRepository) CreateWithAdmin(school *models.School, member *models.SchoolMember) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(school).Error; err != nil {
			return err
		}
		member.SchoolID = school.ID
		return tx.Create(member).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *schoolRepository) GetByID(id uint) (*models.School, error) {
	var school models.School
	if err := r.db.First(&school, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSchoolNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &school, nil
}

func (r *schoolRepository) Update(school *models.School) error {
	if err := r.db.Save(school).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *schoolRepository) AttachLogo(schoolID uint, logoURL string) error {
	if err := r.db.Model(&models.School{}).Where("id = ?", schoolID).
		Update("logo_url", logoURL).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *schoolRepository) SetOnboardingState(schoolID uint, step int, complete bool) error {
	if err := r.db.Model(&models.School{}).Where("id = ?", schoolID).
		Updates(map[string]interface{}{
			"onboarding_step":     step,
			"onboarding_complete": complete,
		}).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new instance of PlanRepository.
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) GetByType(planType string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("plan_type = ?", planType).First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPlanNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &plan, nil
}

func (r *planRepository) Upsert(plan *models.SubscriptionPlan) error {
	var existing models.SubscriptionPlan
	err := r.db.Where("plan_type = ?", plan.PlanType).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := r.db.Create(plan).Error; err != nil {
			return ErrDatabaseOperation
		}
		return nil
	}
	if err != nil {
		return ErrDatabaseOperation
	}

	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	if err := r.db.Save(plan).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}
