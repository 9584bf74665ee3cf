package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/service"
	"blogapi/internal/upload"
)

// UserHandler handles self-service user endpoints.
type UserHandler struct {
	svc  service.UserService
	gate *upload.Gate
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, gate *upload.Gate) *UserHandler {
	return &UserHandler{svc: svc, gate: gate}
}

// DeleteUserRequest carries the id the caller claims to be.
type DeleteUserRequest struct {
	ID string `json:"id" validate:"required"`
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/getuser/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update own profile
// @Description The form id must equal the path id. A new username is applied to the user's blogs as well.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "User ID"
// @Param id formData string true "Caller's user ID"
// @Param username formData string false "New username"
// @Param email formData string false "New email"
// @Param password formData string false "New password"
// @Param userImage formData file false "Avatar (jpeg/png, max 2MB)"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /user/updateuser/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	up, err := h.gate.Accept(ctx, c.Request(), upload.UserProfile)
	if err != nil {
		return httpError(err)
	}

	user, err := h.svc.UpdateUser(ctx, c.Param("id"), service.UpdateUserInput{
		ClaimedID: up.Form.Get("id"),
		Username:  up.Form.Get("username"),
		Email:     up.Form.Get("email"),
		Password:  up.Form.Get("password"),
		Image:     up.Image,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete own account
// @Description Removes the user, every blog they wrote and all their images.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body DeleteUserRequest true "Caller's user ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/deleteuser/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	var req DeleteUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("INVALID_REQUEST", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("VALIDATION_ERROR", err.Error())
	}

	if err := h.svc.DeleteUser(c.Request().Context(), c.Param("id"), req.ID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}
