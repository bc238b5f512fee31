package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jupiter/internal/errors"
	"jupiter/internal/middleware"
	"jupiter/internal/service"
)

// UserHandler serves profile data for the signed-in user.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidSession)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	user, err := h.svc.GetProfile(c.Request().Context(), claims.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}
