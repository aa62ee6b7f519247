package handler

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"chathub/internal/auth"
	apperrors "chathub/internal/errors"
)

// MessageResponse is the generic success envelope.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// respondError translates a domain error into its HTTP status and JSON body.
// Unexpected errors are logged with context and surfaced as a generic 500.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// currentClaims returns the JWT claims echo-jwt attached to the context.
func currentClaims(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

// currentUserID returns the authenticated user's ID.
func currentUserID(c echo.Context) (uint, error) {
	claims, err := currentClaims(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// paging reads skip/limit query parameters with the conventional defaults.
func paging(c echo.Context) (skip, limit int) {
	skip, limit = 0, 100
	if v, err := strconv.Atoi(c.QueryParam("skip")); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	return skip, limit
}
