package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/notify"
	"github.com/organconnect/organconnect/backend/validators"
)

var (
	ErrInvalidMobile      = errors.New("please enter a valid 10-digit mobile number")
	ErrInvalidOTP         = errors.New("invalid OTP, please enter the correct 6-digit OTP")
	ErrOTPRequestFailed   = errors.New("failed to send OTP")
	ErrOTPNotRequested    = errors.New("no OTP has been requested")
	ErrOTPNotVerified     = errors.New("please verify your mobile number first")
	ErrMobileLocked       = errors.New("mobile number cannot change once an OTP was requested")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrRegistrationDone   = errors.New("registration already completed")
	ErrBusy               = errors.New("another registration step is in progress")
	ErrWrongState         = errors.New("registration step not allowed now")
)

// RegistrationState is a node of the registration flow.
type RegistrationState string

const (
	StateIdle         RegistrationState = "idle"
	StateOTPRequested RegistrationState = "otp_requested"
	StateOTPVerified  RegistrationState = "otp_verified"
	StateSubmitting   RegistrationState = "submitting"
	StateSuccess      RegistrationState = "success"
	StateFailed       RegistrationState = "failed"
)

// OTPIssuer issues and checks one-time codes for a mobile number.
type OTPIssuer interface {
	RequestOTP(ctx context.Context, mobile string) (models.OTPIssued, error)
	VerifyOTP(ctx context.Context, mobile, code string) error
}

// Registrar creates the account once the flow reaches the final submit.
type Registrar interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.Token, error)
}

// RegistrationStatus is the externally visible part of the flow.
type RegistrationStatus struct {
	State    RegistrationState `json:"state"`
	Mobile   string            `json:"mobile,omitempty"`
	DemoCode string            `json:"demo_otp,omitempty"`
	Verified bool              `json:"verified"`
	Error    string            `json:"error,omitempty"`
}

// Registration drives Idle → OTPRequested → OTPVerified → Submitting →
// Success. A failed submit returns to OTPVerified with the error kept for
// display.
type Registration struct {
	form      *Session
	issuer    OTPIssuer
	registrar Registrar
	notify    notify.Channel
	log       *slog.Logger

	mu        sync.Mutex
	state     RegistrationState
	busy      bool
	mobile    string
	issued    string
	lastError string
}

func NewRegistration(issuer OTPIssuer, registrar Registrar, ch notify.Channel, log *slog.Logger) *Registration {
	return &Registration{
		form:      NewSession(RegistrationDefinition(), ch, nil, log),
		issuer:    issuer,
		registrar: registrar,
		notify:    ch,
		log:       log.With("flow", "registration"),
		state:     StateIdle,
	}
}

func (r *Registration) Kind() Kind { return KindRegistration }

func (r *Registration) SetField(name string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateSuccess {
		return ErrRegistrationDone
	}
	if name == "mobile" && r.state != StateIdle {
		return ErrMobileLocked
	}
	return r.form.SetField(name, value)
}

func (r *Registration) ToggleOption(name, option string) error {
	return r.form.ToggleOption(name, option)
}

func (r *Registration) Values() map[string]any { return r.form.Values() }

func (r *Registration) Validate() []Violation { return r.form.Validate() }

func (r *Registration) Status() RegistrationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RegistrationStatus{
		State:    r.state,
		Mobile:   r.mobile,
		DemoCode: r.issued,
		Verified: r.state == StateOTPVerified || r.state == StateSubmitting || r.state == StateSuccess,
		Error:    r.lastError,
	}
}

func (r *Registration) transition(to RegistrationState) {
	r.log.Debug("Registration transition", "from", r.state, "to", to)
	r.state = to
}

// begin marks the flow busy so collaborator calls run without holding mu.
func (r *Registration) begin(allowed ...RegistrationState) error {
	if r.busy {
		return ErrBusy
	}
	if r.state == StateSuccess {
		return ErrRegistrationDone
	}
	for _, s := range allowed {
		if r.state == s {
			r.busy = true
			return nil
		}
	}
	return fmt.Errorf("%w: registration is %s", ErrWrongState, r.state)
}

// RequestOTP asks the issuer for a code for the mobile field. A malformed
// number is rejected before the issuer is contacted.
func (r *Registration) RequestOTP(ctx context.Context) (RegistrationStatus, error) {
	mobile, _ := r.form.Values()["mobile"].(string)

	r.mu.Lock()
	if !validators.IsMobile(mobile) {
		r.lastError = "Please enter a valid 10-digit mobile number"
		r.mu.Unlock()
		return r.Status(), ErrInvalidMobile
	}
	if err := r.begin(StateIdle, StateOTPRequested); err != nil {
		r.mu.Unlock()
		return r.Status(), err
	}
	r.lastError = ""
	r.mu.Unlock()

	issued, err := r.issuer.RequestOTP(ctx, mobile)

	r.mu.Lock()
	r.busy = false
	if ctx.Err() != nil {
		r.mu.Unlock()
		return RegistrationStatus{}, ctx.Err()
	}
	if err != nil {
		r.transition(StateIdle)
		r.lastError = "Failed to send OTP"
		r.mu.Unlock()
		r.log.Warn("OTP request failed", "error", err)
		r.notify.Notify("OTP Failed", "Failed to send OTP. Please try again.", models.ToastDestructive)
		return r.Status(), fmt.Errorf("%w: %v", ErrOTPRequestFailed, err)
	}
	r.mobile = mobile
	r.issued = issued.Code
	r.transition(StateOTPRequested)
	r.mu.Unlock()

	desc := fmt.Sprintf("OTP sent to %s.", mobile)
	if issued.Code != "" {
		desc = fmt.Sprintf("OTP sent to %s. For demo: %s", mobile, issued.Code)
	}
	r.notify.Notify("OTP Sent!", desc, models.ToastDefault)
	return r.Status(), nil
}

// VerifyOTP checks code against the issued challenge.
func (r *Registration) VerifyOTP(ctx context.Context, code string) (RegistrationStatus, error) {
	r.mu.Lock()
	if r.state == StateIdle {
		r.mu.Unlock()
		return r.Status(), ErrOTPNotRequested
	}
	if len(code) != 6 || !validators.IsDigits(code) {
		r.lastError = "Invalid OTP. Please enter the correct 6-digit OTP."
		r.mu.Unlock()
		return r.Status(), ErrInvalidOTP
	}
	if err := r.begin(StateOTPRequested); err != nil {
		r.mu.Unlock()
		return r.Status(), err
	}
	mobile := r.mobile
	r.mu.Unlock()

	err := r.issuer.VerifyOTP(ctx, mobile, code)

	r.mu.Lock()
	r.busy = false
	if ctx.Err() != nil {
		r.mu.Unlock()
		return RegistrationStatus{}, ctx.Err()
	}
	if err != nil {
		r.lastError = "Invalid OTP. Please enter the correct 6-digit OTP."
		r.mu.Unlock()
		return r.Status(), fmt.Errorf("%w: %v", ErrInvalidOTP, err)
	}
	r.lastError = ""
	r.transition(StateOTPVerified)
	r.mu.Unlock()
	return r.Status(), nil
}

// Submit registers the account. A password mismatch is reported whatever
// the OTP state; everything else requires a verified mobile first.
func (r *Registration) Submit(ctx context.Context) (Result, error) {
	values := r.form.Values()
	form, violations := r.form.def.decode(values)

	r.mu.Lock()
	if hasCode(violations, CodePasswordMismatch) {
		r.lastError = "Passwords do not match"
		r.mu.Unlock()
		r.notify.Notify("Please check the form", "Passwords do not match", models.ToastDestructive)
		return Result{}, &ValidationError{Violations: violations}
	}
	if r.state == StateSuccess {
		r.mu.Unlock()
		return Result{}, ErrRegistrationDone
	}
	if r.state != StateOTPVerified {
		r.lastError = "Please verify your mobile number first"
		r.mu.Unlock()
		return Result{}, ErrOTPNotVerified
	}
	if len(violations) > 0 {
		r.lastError = violations[0].Message
		r.mu.Unlock()
		r.notify.Notify("Please check the form", violations[0].Message, models.ToastDestructive)
		return Result{}, &ValidationError{Violations: violations}
	}
	if err := r.begin(StateOTPVerified); err != nil {
		r.mu.Unlock()
		return Result{}, err
	}
	r.lastError = ""
	r.transition(StateSubmitting)
	r.mu.Unlock()

	token, err := r.registrar.Register(ctx, toRegisterRequest(form.(*RegistrationForm)))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = false
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if err != nil {
		r.transition(StateFailed)
		r.lastError = err.Error()
		r.transition(StateOTPVerified)
		r.notify.Notify("Registration Failed", err.Error(), models.ToastDestructive)
		return Result{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	r.transition(StateSuccess)
	r.notify.Notify(r.form.def.Success.Title, r.form.def.Success.Description, models.ToastDefault)
	r.form.reset()
	r.log.Info("Account registered", "mobile", r.mobile)
	return Result{Accepted: true, Token: &token}, nil
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = s.def.initialValues()
}

func toRegisterRequest(f *RegistrationForm) models.RegisterRequest {
	req := models.RegisterRequest{
		Name:            f.Name,
		Mobile:          f.Mobile,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		Role:            models.Role(f.Role),
	}
	if age, err := strconv.Atoi(f.Age); err == nil {
		req.Age = &age
	}
	return req
}
