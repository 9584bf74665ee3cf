package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/service"
	"blogapi/internal/upload"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	gate        *upload.Gate
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, gate *upload.Gate) *AuthHandler {
	return &AuthHandler{authService: authService, gate: gate}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse wraps a user returned by auth endpoints.
type UserResponse struct {
	User    interface{} `json:"user"`
	Message string      `json:"message"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param userImage formData file false "Avatar (jpeg/png, max 2MB)"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	up, err := h.gate.Accept(ctx, c.Request(), upload.UserImage)
	if err != nil {
		return httpError(err)
	}

	user, err := h.authService.Register(ctx, service.RegisterInput{
		Username: up.Form.Get("username"),
		Email:    up.Form.Get("email"),
		Password: up.Form.Get("password"),
		Image:    up.Image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, UserResponse{User: user, Message: "account created"})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("INVALID_REQUEST", "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest("VALIDATION_ERROR", err.Error())
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, UserResponse{User: user, Message: "login successful"})
}
