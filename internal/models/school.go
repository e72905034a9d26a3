package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription lifecycle for a school.
const (
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
)

// Onboarding step counter values. The counter is persisted so an interrupted
// onboarding sequence can be resumed on next login instead of being inferred.
const (
	OnboardingStepSchool   = 1
	OnboardingStepBranch   = 2
	OnboardingStepComplete = 3
)

// School is the tenant record. All domain data is scoped to a school.
type School struct {
	gorm.Model
	Name               string            `gorm:"not null" json:"name"`
	Slug               string            `gorm:"uniqueIndex" json:"slug"`
	Email              string            `gorm:"uniqueIndex;not null" json:"email"`
	Phone              string            `json:"phone"`
	Address            string            `json:"address"`
	City               string            `json:"city"`
	Country            string            `gorm:"default:'Ghana'" json:"country"`
	LogoURL            string            `json:"logo_url"`
	Website            string            `json:"website"`
	SubscriptionPlanID *uint             `json:"subscription_plan_id"`
	SubscriptionPlan   *SubscriptionPlan `json:"-"`
	SubscriptionStatus string            `gorm:"default:'trial'" json:"subscription_status"`
	TrialEndsAt        *time.Time        `json:"trial_ends_at"`
	OnboardingComplete bool              `gorm:"default:false" json:"onboarding_complete"`
	OnboardingStep     int               `gorm:"default:1" json:"onboarding_step"`
	IsActive           bool              `gorm:"default:true" json:"is_active"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a school name.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// BeforeSave fills in the slug from the name when one was not set. A taken
// slug gets a short random suffix rather than failing the insert.
func (s *School) BeforeSave(tx *gorm.DB) error {
	if s.Slug != "" {
		return nil
	}
	slug := Slugify(s.Name)
	var count int64
	if err := tx.Model(&School{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slug = slug + "-" + uuid.NewString()[:8]
	}
	s.Slug = slug
	return nil
}
