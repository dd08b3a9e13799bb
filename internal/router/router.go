package router

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/auth"
	"github.com/organconnect/organconnect/backend/internal/handlers"
	"github.com/organconnect/organconnect/backend/internal/middleware"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/otp"
	"github.com/organconnect/organconnect/backend/internal/pages"
	"github.com/organconnect/organconnect/backend/internal/repositories"
)

// Services are the collaborators the handlers are built from.
type Services struct {
	Auth        *auth.Service
	OTP         *otp.Service
	Content     repositories.ContentRepository
	Submissions repositories.SubmissionRepository
	Pages       *pages.Manager
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, s Services) {
	e.GET("/health", handlers.NewHealthHandler(s.Pages).HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(s.Auth, s.OTP).RegisterAuthRoutes(authGroup)
	handlers.NewUserHandler(s.Auth).RegisterProfileRoutes(authGroup.Group("", middleware.JWTAuthMiddleware(s.Auth)))
	log.Println("Auth routes configured.")

	handlers.NewContentHandler(s.Content).RegisterContentRoutes(e.Group("/api/v1/content"))
	log.Println("Content routes configured.")

	adminGroup := e.Group("/api/v1/submissions", middleware.JWTAuthMiddleware(s.Auth), middleware.RequireRole(models.RoleAdmin))
	handlers.NewSubmissionHandler(s.Submissions).RegisterSubmissionRoutes(adminGroup)
	log.Println("Submission routes configured.")

	// Page sessions accept anonymous visitors; a bearer token sets the role.
	pageGroup := e.Group("/api/v1/pages", middleware.OptionalJWT(s.Auth))
	handlers.NewPageHandler(s.Pages).RegisterPageRoutes(pageGroup)
	log.Println("Page session routes configured.")
}
