package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chathub/internal/service"
)

// UserHandler handles user profile and registration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest starts the verify-then-set-password registration flow.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
}

// CreateUserRequest creates a user and credential directly.
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Username  string  `json:"username" validate:"required,min=3"`
	Password  string  `json:"password" validate:"required,min=6"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdateUserRequest updates profile fields; nil fields are untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates an unverified user. The verification token is returned
// @Description in the response for development; production sends it by email.
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.userService.Register(c.Request().Context(), req.Email, req.FullName)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":              user,
		"verificationToken": token,
	})
}

// Create makes a user with credential in one step (no verification flow).
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Create(c.Request().Context(), req.Email, req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// List returns users with skip/limit paging.
func (h *UserHandler) List(c echo.Context) error {
	skip, limit := paging(c)
	users, err := h.userService.List(c.Request().Context(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a user by ID.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the authenticated user's own profile.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	return h.update(c, userID, userID)
}

// Update updates a user's profile; only the user themself may do it.
func (h *UserHandler) Update(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.update(c, actorID, targetID)
}

func (h *UserHandler) update(c echo.Context, actorID, targetID uint) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actorID, targetID, req.Email, req.FirstName, req.LastName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Approve marks a user approved. Admin only.
func (h *UserHandler) Approve(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.Approve(c.Request().Context(), actorID, targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Reject unsets a user's approval. Admin only.
func (h *UserHandler) Reject(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.Reject(c.Request().Context(), actorID, targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Pending lists verified users awaiting approval. Admin only.
func (h *UserHandler) Pending(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	skip, limit := paging(c)

	users, err := h.userService.ListPending(c.Request().Context(), actorID, skip, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Delete removes the user's own account and everything cascading from it.
func (h *UserHandler) Delete(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), actorID, targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "user deleted successfully", Success: true})
}
