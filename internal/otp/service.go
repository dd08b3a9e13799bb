// Package otp issues and checks the one-time codes used to verify a mobile
// number during registration.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/validators"
)

const CodeLength = 6

var (
	ErrInvalidMobile   = errors.New("please enter a valid 10-digit mobile number")
	ErrCodeMismatch    = errors.New("invalid OTP")
	ErrTooManyAttempts = errors.New("too many attempts, request a new OTP")
)

type Config struct {
	TTL         time.Duration
	MaxAttempts int
	// EchoCode returns the issued code in the response. Demo deployments only.
	EchoCode bool
}

type Service struct {
	store  Store
	sender Sender
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
}

func NewService(store Store, sender Sender, cfg Config, log *slog.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Service{store: store, sender: sender, cfg: cfg, log: log, now: time.Now}
}

// RequestOTP issues a fresh code for mobile, replacing any pending one.
func (s *Service) RequestOTP(ctx context.Context, mobile string) (models.OTPIssued, error) {
	if !validators.IsMobile(mobile) {
		return models.OTPIssued{}, ErrInvalidMobile
	}
	code, err := generateCode()
	if err != nil {
		return models.OTPIssued{}, fmt.Errorf("generate otp: %w", err)
	}
	now := s.now()
	challenge := models.OTPChallenge{
		Mobile:    mobile,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if err := s.store.Save(ctx, challenge); err != nil {
		return models.OTPIssued{}, fmt.Errorf("store otp: %w", err)
	}
	if err := s.sender.Send(ctx, mobile, code); err != nil {
		_ = s.store.Delete(ctx, mobile)
		return models.OTPIssued{}, fmt.Errorf("send otp: %w", err)
	}
	s.log.Info("OTP issued", "mobile", mobile, "expires_at", challenge.ExpiresAt)

	issued := models.OTPIssued{Message: "OTP sent successfully", ExpiresAt: challenge.ExpiresAt}
	if s.cfg.EchoCode {
		issued.Code = code
	}
	return issued, nil
}

// VerifyOTP checks code against the pending challenge. A match consumes the
// challenge and leaves a verified marker for the registration step; each
// miss counts towards the attempt limit.
func (s *Service) VerifyOTP(ctx context.Context, mobile, code string) error {
	c, err := s.store.Get(ctx, mobile)
	if err != nil {
		return err
	}
	if !s.now().Before(c.ExpiresAt) {
		_ = s.store.Delete(ctx, mobile)
		return ErrNotFound
	}
	if c.Attempts >= s.cfg.MaxAttempts {
		_ = s.store.Delete(ctx, mobile)
		return ErrTooManyAttempts
	}
	if subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) != 1 {
		c.Attempts++
		if c.Attempts >= s.cfg.MaxAttempts {
			_ = s.store.Delete(ctx, mobile)
			s.log.Warn("OTP attempts exhausted", "mobile", mobile)
			return ErrTooManyAttempts
		}
		if err := s.store.Save(ctx, c); err != nil {
			return err
		}
		return ErrCodeMismatch
	}

	if err := s.store.Delete(ctx, mobile); err != nil {
		return err
	}
	if err := s.store.MarkVerified(ctx, mobile, s.cfg.TTL); err != nil {
		return err
	}
	s.log.Info("Mobile verified", "mobile", mobile)
	return nil
}

// MobileVerified reports whether mobile passed VerifyOTP within the code
// lifetime and the marker was not consumed yet.
func (s *Service) MobileVerified(ctx context.Context, mobile string) (bool, error) {
	return s.store.HasVerified(ctx, mobile)
}

// ConsumeVerification reports whether mobile passed VerifyOTP within the
// code lifetime. The marker is single use.
func (s *Service) ConsumeVerification(ctx context.Context, mobile string) (bool, error) {
	return s.store.TakeVerified(ctx, mobile)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
