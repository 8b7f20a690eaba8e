package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"photoevent/domain/dto"
	"photoevent/domain/services"
	"photoevent/pkg/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a host account and returns a session token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	token, user, err := h.authService.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Registration failed", err)
	}

	return utils.CreatedResponse(c, "Account created", dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        dto.UserToUserResponse(user),
	})
}

// Login authenticates a host and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.UnauthorizedResponse(c, "Invalid email or password")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", err)
	}

	return utils.SuccessResponse(c, "Logged in", dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        dto.UserToUserResponse(user),
	})
}

// Me returns the authenticated host.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
	user, err := h.authService.GetCurrentUser(c.UserContext(), token)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Invalid session")
	}
	return utils.SuccessResponse(c, "", dto.UserToUserResponse(user))
}
