package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/forms"
	"github.com/organconnect/organconnect/backend/internal/repositories"
)

// SubmissionHandler lets administrators review archived page forms
type SubmissionHandler struct {
	submissions repositories.SubmissionRepository
}

func NewSubmissionHandler(repo repositories.SubmissionRepository) *SubmissionHandler {
	return &SubmissionHandler{submissions: repo}
}

// RegisterSubmissionRoutes expects g to carry the JWT and admin middleware
func (h *SubmissionHandler) RegisterSubmissionRoutes(g *echo.Group) {
	g.GET("", h.List)
}

// List returns archived submissions, newest first. Optional query
// parameters: kind, skip, limit (default 20).
func (h *SubmissionHandler) List(c echo.Context) error {
	kind := c.QueryParam("kind")
	if kind != "" {
		if _, err := forms.ParseKind(kind); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return err
	}

	items, err := h.submissions.ListSubmissions(c.Request().Context(), kind, skip, limit)
	if err != nil {
		c.Logger().Errorf("list submissions: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load submissions")
	}
	return c.JSON(http.StatusOK, items)
}

func queryInt(c echo.Context, name string, def int64) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return n, nil
}
