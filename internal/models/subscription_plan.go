package models

import (
	"time"
)

// Plan tiers. PlanFree is assigned automatically during onboarding.
const (
	PlanFree       = "free"
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// SubscriptionPlan is an internal catalogue entry describing limits and
// pricing for a tier. Schools hold at most one plan reference.
type SubscriptionPlan struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	PlanType     string    `gorm:"uniqueIndex;not null" json:"plan_type"`
	MaxBranches  int       `gorm:"default:1" json:"max_branches"`
	MaxStudents  int       `gorm:"default:100" json:"max_students"`
	PriceMonthly float64   `gorm:"default:0" json:"price_monthly"`
	PriceYearly  float64   `gorm:"default:0" json:"price_yearly"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
