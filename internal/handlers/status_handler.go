package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/haeun-dev/health-tracker-backend/internal/database"
	"github.com/haeun-dev/health-tracker-backend/internal/dto"
)

type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

func (h *StatusHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "Health tracker backend is running"})
}

func (h *StatusHandler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
