package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/haeun-dev/health-tracker-backend/internal/auth"
	"github.com/haeun-dev/health-tracker-backend/internal/dto"
	"github.com/haeun-dev/health-tracker-backend/internal/models"
	"github.com/haeun-dev/health-tracker-backend/internal/services"
)

type RecordHandler struct {
	records *services.RecordService
}

func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

func (h *RecordHandler) GetDay(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	date, err := models.ParseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	day, err := h.records.GetDay(userID, date)
	if err != nil {
		slog.Error("failed to fetch day", "error", err, "date", date)
		return internalError(c)
	}

	return c.JSON(day)
}

func (h *RecordHandler) Save(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	date, err := models.ParseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	category, err := models.ParseCategory(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	if err := h.records.Save(userID, date, category, c.Body()); err != nil {
		if errors.Is(err, services.ErrInvalidPayload) || errors.Is(err, services.ErrEmptyPayload) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("failed to save record", "error", err, "date", date, "category", category)
		return internalError(c)
	}

	return c.JSON(dto.MessageResponse{Message: "Data saved successfully"})
}

func (h *RecordHandler) WeightChart(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	points, err := h.records.WeightChart(userID)
	if err != nil {
		slog.Error("failed to build weight chart", "error", err)
		return internalError(c)
	}

	return c.JSON(points)
}

func (h *RecordHandler) Export(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	records, err := h.records.Export(userID)
	if err != nil {
		slog.Error("failed to export records", "error", err)
		return internalError(c)
	}

	return c.JSON(records)
}

func (h *RecordHandler) Import(c *fiber.Ctx) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.records.Import(userID, req); err != nil {
		if errors.Is(err, models.ErrInvalidDate) || errors.Is(err, models.ErrInvalidCategory) ||
			errors.Is(err, services.ErrInvalidPayload) || errors.Is(err, services.ErrEmptyPayload) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("import failed", "error", err)
		return internalError(c)
	}

	return c.JSON(dto.MessageResponse{Message: "Data imported successfully"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Authentication required",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
