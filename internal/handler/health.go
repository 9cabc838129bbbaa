package handler

import (
	"context"
	"time"

	"mcq-portal/internal/dto"
	"mcq-portal/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Health handles GET /healthz by pinging the session store.
func Health(store Pinger, backend string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Get().Warn("Session store unreachable", zap.String("backend", backend), zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{
				Status:       "unavailable",
				SessionStore: backend,
			})
		}
		return c.JSON(dto.HealthResponse{Status: "ok", SessionStore: backend})
	}
}
