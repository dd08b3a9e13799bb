package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/pages"
)

type HealthHandler struct {
	pages *pages.Manager
}

func NewHealthHandler(m *pages.Manager) *HealthHandler {
	return &HealthHandler{pages: m}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":        "healthy",
		"service":       "organconnect-api",
		"page_sessions": h.pages.Len(),
	})
}
