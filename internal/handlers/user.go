package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/auth"
	"github.com/organconnect/organconnect/backend/internal/middleware"
	"github.com/organconnect/organconnect/backend/internal/repositories"
)

// UserHandler serves the profile of the authenticated user
type UserHandler struct {
	auth *auth.Service
}

func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{auth: authService}
}

// RegisterProfileRoutes expects g to carry the JWT middleware
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
}

func (h *UserHandler) Me(c echo.Context) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	user, err := h.auth.User(c.Request().Context(), claims.UserID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user.ToResponse())
}
