package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/auth"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/otp"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *auth.Service
	otp  *otp.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, otpService *otp.Service) *AuthHandler {
	return &AuthHandler{auth: authService, otp: otpService}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/request-otp", h.RequestOTP)
	g.POST("/verify-otp", h.VerifyOTP)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register handles donor and hospital self-registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Password != req.ConfirmPassword {
		return echo.NewHTTPError(http.StatusBadRequest, auth.ErrPasswordMismatch.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.auth.Register(c.Request().Context(), req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, token)
	case errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrMobileTaken),
		errors.Is(err, auth.ErrRoleNotAllowed),
		errors.Is(err, auth.ErrInvalidMobile),
		errors.Is(err, auth.ErrMobileNotVerified):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		c.Logger().Errorf("register: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}
}

// Login handles email and password authentication
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.Request().Context(), req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, token)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInactive):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		c.Logger().Errorf("login: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}
}

// RequestOTP issues a verification code for a mobile number
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req models.OTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	issued, err := h.otp.RequestOTP(c.Request().Context(), req.Mobile)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, issued)
	case errors.Is(err, otp.ErrInvalidMobile):
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter a valid 10-digit mobile number")
	default:
		c.Logger().Errorf("request otp: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to send OTP. Please try again.")
	}
}

// VerifyOTP checks a code issued by RequestOTP
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req models.OTPVerify
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid OTP")
	}

	err := h.otp.VerifyOTP(c.Request().Context(), req.Mobile, req.OTP)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"verified": true, "message": "OTP verified successfully"})
	case errors.Is(err, otp.ErrTooManyAttempts):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, otp.ErrNotFound), errors.Is(err, otp.ErrCodeMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid OTP")
	default:
		c.Logger().Errorf("verify otp: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "OTP verification failed")
	}
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, token)
	case errors.Is(err, auth.ErrFirebaseDisabled):
		return echo.NewHTTPError(http.StatusNotImplemented, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInactive):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	default:
		c.Logger().Errorf("firebase login: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}
}
