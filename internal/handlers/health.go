package handlers

import (
	"context"
	"time"

	"ilimi/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// Health reports liveness of the API and its backing stores.
func Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	sqlDB, err := repositories.DB.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unavailable"
	}

	cacheStatus := "ok"
	if repositories.CacheService == nil || repositories.CacheService.HealthCheck(ctx) != nil {
		cacheStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus != "ok" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   dbStatus,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
