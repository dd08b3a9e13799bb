package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/forms"
	"github.com/organconnect/organconnect/backend/internal/interaction"
	"github.com/organconnect/organconnect/backend/internal/middleware"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/pages"
)

// PageHandler exposes page sessions: one request per user event.
type PageHandler struct {
	pages *pages.Manager
}

func NewPageHandler(m *pages.Manager) *PageHandler {
	return &PageHandler{pages: m}
}

// RegisterPageRoutes expects g to carry the optional JWT middleware.
func (h *PageHandler) RegisterPageRoutes(g *echo.Group) {
	g.POST("", h.Mount)
	g.GET("/:session_id", h.Snapshot)
	g.DELETE("/:session_id", h.Unmount)

	g.POST("/:session_id/likes/:kind/:item_id", h.ToggleLike)
	g.POST("/:session_id/panels/:panel/toggle", h.TogglePanel)
	g.POST("/:session_id/carousels/:carousel/scroll", h.Scroll)

	g.GET("/:session_id/forms/:form", h.FormState)
	g.PUT("/:session_id/forms/:form/fields/:field", h.SetField)
	g.POST("/:session_id/forms/:form/fields/:field/toggle", h.ToggleOption)
	g.POST("/:session_id/forms/:form/submit", h.SubmitForm)

	g.POST("/:session_id/registration/otp", h.RequestOTP)
	g.POST("/:session_id/registration/otp/verify", h.VerifyOTP)
	g.POST("/:session_id/registration/submit", h.SubmitRegistration)

	g.POST("/:session_id/chat", h.SendChat)
	g.GET("/:session_id/chat", h.Transcript)
	g.GET("/:session_id/notifications", h.Notifications)
}

type mountRequest struct {
	Page string `json:"page" validate:"required"`
}

type fieldRequest struct {
	Value any `json:"value"`
}

type optionRequest struct {
	Option string `json:"option" validate:"required"`
}

type scrollRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

type codeRequest struct {
	Code string `json:"code"`
}

func (h *PageHandler) Mount(c echo.Context) error {
	var req mountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	page, err := pages.ParseName(req.Page)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	principal := middleware.Principal(c)
	s, err := h.pages.Mount(c.Request().Context(), page, principal)
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *PageHandler) Snapshot(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

func (h *PageHandler) Unmount(c echo.Context) error {
	if err := h.pages.Unmount(c.Param("session_id")); err != nil {
		return pageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PageHandler) ToggleLike(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	kind, err := models.ParseFeedKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}
	key := models.ItemKey{Kind: kind, ID: id}
	st := s.ToggleLike(key)
	return c.JSON(http.StatusOK, interaction.ItemSnapshot{ItemKey: key, ItemState: st})
}

func (h *PageHandler) TogglePanel(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	panel := c.Param("panel")
	return c.JSON(http.StatusOK, echo.Map{"panel": panel, "open": s.TogglePanel(panel)})
}

func (h *PageHandler) Scroll(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req scrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	dir, err := interaction.ParseDirection(req.Direction)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	carousel := c.Param("carousel")
	idx, err := s.Scroll(carousel, dir)
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"carousel": carousel, "index": idx})
}

func (h *PageHandler) FormState(c echo.Context) error {
	s, kind, err := h.sessionForm(c)
	if err != nil {
		return err
	}
	st, err := s.FormState(kind)
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PageHandler) SetField(c echo.Context) error {
	s, kind, err := h.sessionForm(c)
	if err != nil {
		return err
	}
	var req fieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	f, err := s.Form(kind)
	if err != nil {
		return pageError(c, err)
	}
	if err := f.SetField(c.Param("field"), req.Value); err != nil {
		return pageError(c, err)
	}
	return h.FormState(c)
}

func (h *PageHandler) ToggleOption(c echo.Context) error {
	s, kind, err := h.sessionForm(c)
	if err != nil {
		return err
	}
	var req optionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	f, err := s.Form(kind)
	if err != nil {
		return pageError(c, err)
	}
	if err := f.ToggleOption(c.Param("field"), req.Option); err != nil {
		return pageError(c, err)
	}
	return h.FormState(c)
}

func (h *PageHandler) SubmitForm(c echo.Context) error {
	s, kind, err := h.sessionForm(c)
	if err != nil {
		return err
	}
	res, err := s.SubmitForm(kind)
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PageHandler) RequestOTP(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	st, err := s.RequestOTP()
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PageHandler) VerifyOTP(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req codeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	st, err := s.VerifyOTP(req.Code)
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PageHandler) SubmitRegistration(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	res, err := s.SubmitForm(forms.KindRegistration)
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PageHandler) SendChat(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req models.ChatSendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	accepted, err := s.SendChat(req.Text)
	if err != nil {
		return pageError(c, err)
	}
	transcript, _ := s.Transcript()
	return c.JSON(http.StatusAccepted, echo.Map{"accepted": accepted, "transcript": transcript})
}

func (h *PageHandler) Transcript(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	transcript, err := s.Transcript()
	if err != nil {
		return pageError(c, err)
	}
	return c.JSON(http.StatusOK, transcript)
}

func (h *PageHandler) Notifications(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": s.Notifications()})
}

func (h *PageHandler) session(c echo.Context) (*pages.Session, error) {
	s, err := h.pages.Get(c.Param("session_id"))
	if err != nil {
		return nil, pageError(c, err)
	}
	return s, nil
}

func (h *PageHandler) sessionForm(c echo.Context) (*pages.Session, forms.Kind, error) {
	s, err := h.session(c)
	if err != nil {
		return nil, "", err
	}
	kind, err := forms.ParseKind(c.Param("form"))
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return s, kind, nil
}

// pageError maps domain errors of the page packages to HTTP errors.
func pageError(c echo.Context, err error) error {
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message":    "Please check the form",
			"violations": verr.Violations,
		})
	case errors.Is(err, pages.ErrSessionNotFound),
		errors.Is(err, pages.ErrNoForm),
		errors.Is(err, pages.ErrNoChat),
		errors.Is(err, pages.ErrNoRegistration),
		errors.Is(err, interaction.ErrUnknownCarousel):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, pages.ErrUnknownPage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, pages.ErrForbidden):
		if !middleware.Principal(c).Authenticated() {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
		}
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, forms.ErrUnknownField),
		errors.Is(err, forms.ErrInvalidValue),
		errors.Is(err, forms.ErrNotSetField):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, forms.ErrInvalidMobile),
		errors.Is(err, forms.ErrInvalidOTP),
		errors.Is(err, forms.ErrOTPNotRequested),
		errors.Is(err, forms.ErrOTPNotVerified),
		errors.Is(err, forms.ErrMobileLocked):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, forms.ErrSubmitting),
		errors.Is(err, forms.ErrBusy),
		errors.Is(err, forms.ErrWrongState),
		errors.Is(err, forms.ErrRegistrationDone):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, forms.ErrOTPRequestFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to send OTP. Please try again.")
	case errors.Is(err, forms.ErrRegistrationFailed):
		return echo.NewHTTPError(http.StatusBadRequest, strings.TrimPrefix(err.Error(), forms.ErrRegistrationFailed.Error()+": "))
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(http.StatusGone, "page session was unmounted")
	default:
		c.Logger().Errorf("page request: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
