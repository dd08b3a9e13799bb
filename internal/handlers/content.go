package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/repositories"
)

// ContentHandler serves the read-only catalog
type ContentHandler struct {
	content repositories.ContentRepository
}

func NewContentHandler(content repositories.ContentRepository) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) RegisterContentRoutes(g *echo.Group) {
	g.GET("/reels", list(h.content.Reels))
	g.GET("/posts", list(h.content.Posts))
	g.GET("/events", list(h.content.Events))
	g.GET("/faqs", list(h.content.FAQs))
}

func list[T any](load func(context.Context) ([]T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := load(c.Request().Context())
		if err != nil {
			c.Logger().Errorf("load content: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load content")
		}
		return c.JSON(http.StatusOK, items)
	}
}
