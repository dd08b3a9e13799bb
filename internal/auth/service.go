// Package auth owns accounts: registration, password login, Firebase login
// and the bearer tokens the HTTP layer accepts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/repositories"
	"github.com/organconnect/organconnect/backend/validators"
	"golang.org/x/crypto/bcrypt"
)

const TokenType = "bearer"

var (
	ErrPasswordMismatch   = errors.New("Passwords do not match")
	ErrEmailTaken         = errors.New("Email already registered")
	ErrMobileTaken        = errors.New("Mobile number already registered")
	ErrRoleNotAllowed     = errors.New("role must be donor or hospital")
	ErrInvalidMobile      = errors.New("Please enter a valid 10-digit mobile number")
	ErrMobileNotVerified  = errors.New("Please verify your mobile number first")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrInactive           = errors.New("Account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrFirebaseDisabled   = errors.New("firebase login is not configured")
)

// MobileVerifier confirms that a mobile number passed the OTP step. The
// marker is checked before the account is created and consumed after.
type MobileVerifier interface {
	MobileVerified(ctx context.Context, mobile string) (bool, error)
	ConsumeVerification(ctx context.Context, mobile string) (bool, error)
}

// IDTokenVerifier checks a Firebase ID token. *firebaseauth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

type Config struct {
	Secret   string
	TokenTTL time.Duration
}

type Service struct {
	users    repositories.UserRepository
	verifier MobileVerifier
	firebase IDTokenVerifier
	secret   []byte
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewService builds the account service. verifier and firebase may be nil:
// without a verifier registration trusts the caller's OTP step, without
// firebase FirebaseLogin is disabled.
func NewService(users repositories.UserRepository, verifier MobileVerifier, firebase IDTokenVerifier, cfg Config, log *slog.Logger) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	return &Service{
		users:    users,
		verifier: verifier,
		firebase: firebase,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TokenTTL,
		log:      log,
		now:      time.Now,
	}
}

// Register creates a self-registered donor or hospital account and returns a
// token for it.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.Token, error) {
	if req.Password != req.ConfirmPassword {
		return models.Token{}, ErrPasswordMismatch
	}
	if !req.Role.SelfRegistrable() {
		return models.Token{}, ErrRoleNotAllowed
	}
	if !validators.IsMobile(req.Mobile) {
		return models.Token{}, ErrInvalidMobile
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return models.Token{}, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return models.Token{}, err
	}
	if _, err := s.users.GetUserByMobile(ctx, req.Mobile); err == nil {
		return models.Token{}, ErrMobileTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return models.Token{}, err
	}

	if s.verifier != nil {
		ok, err := s.verifier.MobileVerified(ctx, req.Mobile)
		if err != nil {
			return models.Token{}, fmt.Errorf("check mobile verification: %w", err)
		}
		if !ok {
			return models.Token{}, ErrMobileNotVerified
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Token{}, fmt.Errorf("hash password: %w", err)
	}
	mobile := req.Mobile
	user := &models.User{
		Email:          email,
		Password:       string(hashed),
		Role:           req.Role,
		Name:           req.Name,
		Mobile:         &mobile,
		Age:            req.Age,
		MobileVerified: true,
		IsActive:       true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return models.Token{}, fmt.Errorf("create user: %w", err)
	}
	if s.verifier != nil {
		if _, err := s.verifier.ConsumeVerification(ctx, req.Mobile); err != nil {
			s.log.Warn("Failed to consume mobile verification", "mobile", req.Mobile, "error", err)
		}
	}
	s.log.Info("User registered", "email", user.Email, "role", user.Role)
	return s.tokenFor(user)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (models.Token, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Token{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.Token{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return models.Token{}, ErrInactive
	}
	s.log.Info("User logged in", "email", user.Email)
	return s.tokenFor(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token, linking the
// Firebase account to an existing user by email or creating a donor account.
func (s *Service) FirebaseLogin(ctx context.Context, idToken string) (models.Token, error) {
	if s.firebase == nil {
		return models.Token{}, ErrFirebaseDisabled
	}
	tok, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return models.Token{}, ErrInvalidToken
	}
	email, _ := tok.Claims["email"].(string)
	name, _ := tok.Claims["name"].(string)
	uid := tok.UID

	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	switch {
	case err == nil:
		if name != "" {
			user.Name = name
		}
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return models.Token{}, err
		}
	case errors.Is(err, repositories.ErrUserNotFound):
		user, err = s.users.GetUserByEmail(ctx, strings.ToLower(email))
		switch {
		case err == nil:
			user.FirebaseUID = &uid
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return models.Token{}, err
			}
		case errors.Is(err, repositories.ErrUserNotFound):
			if email == "" {
				return models.Token{}, ErrInvalidToken
			}
			user = &models.User{
				Email:       strings.ToLower(email),
				Name:        name,
				Role:        models.RoleDonor,
				FirebaseUID: &uid,
				IsActive:    true,
			}
			if err := s.users.CreateUser(ctx, user); err != nil {
				return models.Token{}, err
			}
		default:
			return models.Token{}, err
		}
	default:
		return models.Token{}, err
	}
	if !user.IsActive {
		return models.Token{}, ErrInactive
	}
	return s.tokenFor(user)
}

func (s *Service) User(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(raw string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) tokenFor(user *models.User) (models.Token, error) {
	now := s.now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return models.Token{AccessToken: signed, TokenType: TokenType}, nil
}
