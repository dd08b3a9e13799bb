package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/organconnect/organconnect/backend/internal/auth"
	"github.com/organconnect/organconnect/backend/internal/chat"
	"github.com/organconnect/organconnect/backend/internal/otp"
	"github.com/organconnect/organconnect/backend/internal/pages"
	"github.com/organconnect/organconnect/backend/internal/repositories"
	"github.com/organconnect/organconnect/backend/internal/router"
	"github.com/organconnect/organconnect/backend/pkg/config"
	"github.com/organconnect/organconnect/backend/pkg/firebase"
	"github.com/organconnect/organconnect/backend/validators"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	var users repositories.UserRepository = repositories.NewMemoryUserRepository()
	if db.Postgres != nil {
		pgUsers := repositories.NewPostgresUserRepository(db.Postgres)
		if err := pgUsers.Migrate(); err != nil {
			log.Fatalf("Failed to auto migrate models: %v", err)
		}
		users = pgUsers
	}

	var content repositories.ContentRepository = repositories.NewStaticContentRepository()
	var submissions repositories.SubmissionRepository = repositories.NewMemorySubmissionRepository()
	if db.Mongo != nil {
		mongoDB := db.Mongo.Database(cfg.MongoDatabase)
		mongoContent := repositories.NewMongoContentRepository(mongoDB, logger)
		if cfg.SeedMongoCatalog {
			if err := mongoContent.Seed(ctx); err != nil {
				log.Fatalf("Failed to seed content catalog: %v", err)
			}
		}
		content = mongoContent
		submissions = repositories.NewMongoSubmissionRepository(mongoDB)
	}

	badgerDB, err := otp.OpenBadger(cfg.BadgerPath, logger)
	if err != nil {
		log.Fatalf("Failed to open OTP store: %v", err)
	}
	defer badgerDB.Close()

	if cfg.OTPEchoCode && cfg.IsProduction() {
		logger.Warn("OTP_ECHO_CODE is enabled in production, issued codes are returned to clients")
	}
	otpService := otp.NewService(
		otp.NewBadgerStore(badgerDB, logger),
		otp.NewLogSender(logger),
		otp.Config{TTL: cfg.OTPTTL, MaxAttempts: cfg.OTPMaxAttempts, EchoCode: cfg.OTPEchoCode},
		logger,
	)

	// Firebase login is optional
	var idTokens auth.IDTokenVerifier
	if client, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath); err == nil {
		idTokens = client
		log.Println("Firebase auth client initialized successfully!")
	} else if !errors.Is(err, firebase.ErrNotConfigured) {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authService := auth.NewService(users, otpService, idTokens,
		auth.Config{Secret: cfg.JWTSecret, TokenTTL: cfg.JWTTTL}, logger)
	if cfg.SeedDemoUsers {
		if err := authService.SeedDemoUsers(ctx); err != nil {
			log.Fatalf("Failed to seed demo users: %v", err)
		}
	}

	pageManager := pages.NewManager(pages.Deps{
		Content:   content,
		OTP:       otpService,
		Registrar: authService,
		Intake:    pages.ArchiveIntake{Repo: submissions, Log: logger},
		Chat:      chat.Config{Delay: cfg.ChatReplyDelay},
	}, cfg.PageSessionTTL, logger)
	go pageManager.RunJanitor(ctx, cfg.JanitorInterval)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, logger)
	router.SetupRoutes(e, router.Services{
		Auth:        authService,
		OTP:         otpService,
		Content:     content,
		Submissions: submissions,
		Pages:       pageManager,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	pageManager.Close()
}
