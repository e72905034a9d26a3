// Package main seeds the subscription plan catalogue. Safe to run
// repeatedly: plans are matched by type and updated in place.
package main

import (
	"log"

	"ilimi/internal/config"
	"ilimi/internal/logger"
	"ilimi/internal/models"
	"ilimi/internal/repositories"

	"go.uber.org/zap"
)

var plans = []models.SubscriptionPlan{
	{
		Name:        "Free",
		PlanType:    models.PlanFree,
		MaxBranches: 1,
		MaxStudents: 100,
		IsActive:    true,
	},
	{
		Name:         "Basic",
		PlanType:     models.PlanBasic,
		MaxBranches:  2,
		MaxStudents:  500,
		PriceMonthly: 49,
		PriceYearly:  490,
		IsActive:     true,
	},
	{
		Name:         "Pro",
		PlanType:     models.PlanPro,
		MaxBranches:  5,
		MaxStudents:  2000,
		PriceMonthly: 149,
		PriceYearly:  1490,
		IsActive:     true,
	},
	{
		Name:         "Enterprise",
		PlanType:     models.PlanEnterprise,
		MaxBranches:  50,
		MaxStudents:  50000,
		PriceMonthly: 499,
		PriceYearly:  4990,
		IsActive:     true,
	},
}

func main() {
	config.LoadEnv()
	logger.Init()
	defer logger.Sync()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	planRepo := repositories.NewPlanRepository(repositories.DB)
	for i := range plans {
		if err := planRepo.Upsert(&plans[i]); err != nil {
			log.Fatalf("Failed to seed plan %s: %v", plans[i].PlanType, err)
		}
		logger.Get().Info("seeded subscription plan",
			zap.String("plan_type", plans[i].PlanType),
			zap.Uint("id", plans[i].ID),
		)
	}

	logger.Get().Info("subscription plans seeded", zap.Int("count", len(plans)))
}
