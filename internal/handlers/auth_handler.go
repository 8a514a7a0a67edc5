package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/haeun-dev/health-tracker-backend/internal/auth"
	"github.com/haeun-dev/health-tracker-backend/internal/dto"
	"github.com/haeun-dev/health-tracker-backend/internal/models"
	"github.com/haeun-dev/health-tracker-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	store       *session.Store
}

func NewAuthHandler(authService *services.AuthService, store *session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, store: store}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) || errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("register failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	if err := auth.Bind(c, h.store, user.ID); err != nil {
		slog.Error("session bind failed", "error", err, "user_id", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{User: publicUser(user)})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) || errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("login failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	if err := auth.Bind(c, h.store, user.ID); err != nil {
		slog.Error("session bind failed", "error", err, "user_id", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.AuthResponse{User: publicUser(user)})
}

// Logout clears the bound session. Succeeds even when no session exists.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := auth.Clear(c, h.store); err != nil {
		slog.Error("session clear failed", "error", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// CheckAuth reports whether the request carries a live session, resolving the
// bound id against the users table. Auth here is optional, not enforced.
func (h *AuthHandler) CheckAuth(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c, h.store)
	if !ok {
		return c.JSON(dto.CheckAuthResponse{Authenticated: false})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.JSON(dto.CheckAuthResponse{Authenticated: false})
	}

	pub := publicUser(user)
	return c.JSON(dto.CheckAuthResponse{Authenticated: true, User: &pub})
}

func publicUser(u *models.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
