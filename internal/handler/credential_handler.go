package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chathub/internal/service"
)

// CredentialHandler handles the authenticated user's credential endpoints.
type CredentialHandler struct {
	credService service.CredentialService
}

// NewCredentialHandler creates a new credential handler.
func NewCredentialHandler(credService service.CredentialService) *CredentialHandler {
	return &CredentialHandler{credService: credService}
}

// UpdateCredentialRequest changes username and/or password.
type UpdateCredentialRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// ChangePasswordRequest changes the password after verifying the old one.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// GetMine returns the caller's credential.
func (h *CredentialHandler) GetMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	cred, err := h.credService.Get(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cred)
}

// UpdateMine updates the caller's username and/or password.
func (h *CredentialHandler) UpdateMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateCredentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cred, err := h.credService.Update(c.Request().Context(), userID, req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cred)
}

// ChangePassword godoc
// @Summary Change password
// @Description Requires the current password; rejects reusing it.
// @Tags credentials
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /credentials/change-password [post]
func (h *CredentialHandler) ChangePassword(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.credService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password changed successfully", Success: true})
}

// DeleteMine removes the caller's credential, disabling login.
func (h *CredentialHandler) DeleteMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.credService.Delete(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "credential deleted successfully", Success: true})
}
