package forms

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/notify"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	mu        sync.Mutex
	requested []string
	verified  int
	code      string
	failSend  error
}

func (f *fakeIssuer) RequestOTP(_ context.Context, mobile string) (models.OTPIssued, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, mobile)
	if f.failSend != nil {
		return models.OTPIssued{}, f.failSend
	}
	return models.OTPIssued{Message: "OTP sent successfully", Code: f.code}, nil
}

func (f *fakeIssuer) VerifyOTP(_ context.Context, _ string, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified++
	if code != f.code {
		return errors.New("code mismatch")
	}
	return nil
}

type fakeRegistrar struct {
	calls []models.RegisterRequest
	err   error
}

func (f *fakeRegistrar) Register(_ context.Context, req models.RegisterRequest) (models.Token, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return models.Token{}, f.err
	}
	return models.Token{AccessToken: "tok", TokenType: "bearer"}, nil
}

func newRegistration(t *testing.T) (*Registration, *fakeIssuer, *fakeRegistrar, *notify.Outbox) {
	t.Helper()
	issuer := &fakeIssuer{code: "123456"}
	registrar := &fakeRegistrar{}
	out := notify.NewOutbox(0, discard)
	return NewRegistration(issuer, registrar, out, discard), issuer, registrar, out
}

func fillRegistration(t *testing.T, r *Registration, mobile string) {
	t.Helper()
	require.NoError(t, r.SetField("name", "Meera"))
	require.NoError(t, r.SetField("age", "31"))
	require.NoError(t, r.SetField("mobile", mobile))
	require.NoError(t, r.SetField("email", "meera@example.com"))
	require.NoError(t, r.SetField("password", "secret1"))
	require.NoError(t, r.SetField("confirm_password", "secret1"))
}

func TestRequestOTP_BadMobileNeverReachesIssuer(t *testing.T) {
	for _, mobile := range []string{"", "98765", "98765432101", "98765abcde"} {
		r, issuer, _, _ := newRegistration(t)
		fillRegistration(t, r, mobile)

		st, err := r.RequestOTP(context.Background())
		require.ErrorIs(t, err, ErrInvalidMobile, mobile)
		require.Equal(t, StateIdle, st.State)
		require.Empty(t, issuer.requested)
	}
}

func TestRegistration_HappyPath(t *testing.T) {
	r, issuer, registrar, out := newRegistration(t)
	fillRegistration(t, r, "9876543210")

	st, err := r.RequestOTP(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateOTPRequested, st.State)
	require.Equal(t, []string{"9876543210"}, issuer.requested)

	sent := out.Drain()
	require.Len(t, sent, 1)
	require.Equal(t, "OTP Sent!", sent[0].Title)
	require.Contains(t, sent[0].Description, "123456")

	st, err = r.VerifyOTP(context.Background(), "123456")
	require.NoError(t, err)
	require.True(t, st.Verified)

	res, err := r.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, "bearer", res.Token.TokenType)
	require.Equal(t, StateSuccess, r.Status().State)

	require.Len(t, registrar.calls, 1)
	req := registrar.calls[0]
	require.Equal(t, models.RoleDonor, req.Role)
	require.Equal(t, 31, *req.Age)
	require.Equal(t, "9876543210", req.Mobile)

	toasts := out.Drain()
	require.Equal(t, "Success!", toasts[len(toasts)-1].Title)
	require.Equal(t, "", r.Values()["name"])
}

func TestSubmit_PasswordMismatchIndependentOfOTP(t *testing.T) {
	r, _, registrar, out := newRegistration(t)
	fillRegistration(t, r, "9876543210")
	require.NoError(t, r.SetField("confirm_password", "other12"))

	// before any OTP
	_, err := r.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has(CodePasswordMismatch))
	require.Equal(t, "Passwords do not match", r.Status().Error)

	// after verification
	_, err = r.RequestOTP(context.Background())
	require.NoError(t, err)
	_, err = r.VerifyOTP(context.Background(), "123456")
	require.NoError(t, err)
	_, err = r.Submit(context.Background())
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has(CodePasswordMismatch))

	require.Empty(t, registrar.calls)
	require.NotEmpty(t, out.Drain())
}

func TestSubmit_EmptyConfirmationIsAMismatch(t *testing.T) {
	r, _, registrar, _ := newRegistration(t)
	fillRegistration(t, r, "9876543210")
	require.NoError(t, r.SetField("confirm_password", ""))

	_, err := r.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has(CodePasswordMismatch))
	require.NotErrorIs(t, err, ErrOTPNotVerified)
	require.Equal(t, "Passwords do not match", r.Status().Error)
	require.Equal(t, StateIdle, r.Status().State)
	require.Empty(t, registrar.calls)
}

func TestRegistration_StepsOutOfOrder(t *testing.T) {
	r, issuer, _, _ := newRegistration(t)
	fillRegistration(t, r, "9876543210")
	_, err := r.RequestOTP(context.Background())
	require.NoError(t, err)
	_, err = r.VerifyOTP(context.Background(), "123456")
	require.NoError(t, err)

	_, err = r.VerifyOTP(context.Background(), "123456")
	require.ErrorIs(t, err, ErrWrongState)
	_, err = r.RequestOTP(context.Background())
	require.ErrorIs(t, err, ErrWrongState)

	require.Len(t, issuer.requested, 1)
	require.Equal(t, StateOTPVerified, r.Status().State)
}

func TestSubmit_RequiresVerifiedMobile(t *testing.T) {
	r, _, registrar, _ := newRegistration(t)
	fillRegistration(t, r, "9876543210")

	_, err := r.Submit(context.Background())
	require.ErrorIs(t, err, ErrOTPNotVerified)

	_, err = r.RequestOTP(context.Background())
	require.NoError(t, err)
	_, err = r.Submit(context.Background())
	require.ErrorIs(t, err, ErrOTPNotVerified)
	require.Empty(t, registrar.calls)
}

func TestVerifyOTP_Rejections(t *testing.T) {
	r, issuer, _, _ := newRegistration(t)
	fillRegistration(t, r, "9876543210")

	_, err := r.VerifyOTP(context.Background(), "123456")
	require.ErrorIs(t, err, ErrOTPNotRequested)

	_, err = r.RequestOTP(context.Background())
	require.NoError(t, err)

	_, err = r.VerifyOTP(context.Background(), "12345")
	require.ErrorIs(t, err, ErrInvalidOTP)
	require.Zero(t, issuer.verified)

	st, err := r.VerifyOTP(context.Background(), "654321")
	require.ErrorIs(t, err, ErrInvalidOTP)
	require.Equal(t, StateOTPRequested, st.State)
	require.NotEmpty(t, st.Error)
}

func TestRegistration_MobileLockedAfterRequest(t *testing.T) {
	r, _, _, _ := newRegistration(t)
	fillRegistration(t, r, "9876543210")
	_, err := r.RequestOTP(context.Background())
	require.NoError(t, err)

	require.ErrorIs(t, r.SetField("mobile", "9876543211"), ErrMobileLocked)
	require.NoError(t, r.SetField("name", "Meera K"))
}

func TestSubmit_RegistrarFailureReturnsToVerified(t *testing.T) {
	r, _, registrar, out := newRegistration(t)
	registrar.err = errors.New("Email already registered")
	fillRegistration(t, r, "9876543210")
	_, err := r.RequestOTP(context.Background())
	require.NoError(t, err)
	_, err = r.VerifyOTP(context.Background(), "123456")
	require.NoError(t, err)

	_, err = r.Submit(context.Background())
	require.ErrorIs(t, err, ErrRegistrationFailed)

	st := r.Status()
	require.Equal(t, StateOTPVerified, st.State)
	require.Equal(t, "Email already registered", st.Error)
	require.Equal(t, "Meera", r.Values()["name"])

	toasts := out.Drain()
	require.Equal(t, models.ToastDestructive, toasts[len(toasts)-1].Variant)

	registrar.err = nil
	res, err := r.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, res.Accepted)
}

func TestRequestOTP_IssuerFailure(t *testing.T) {
	r, issuer, _, out := newRegistration(t)
	issuer.failSend = errors.New("sms gateway down")
	fillRegistration(t, r, "9876543210")

	st, err := r.RequestOTP(context.Background())
	require.ErrorIs(t, err, ErrOTPRequestFailed)
	require.Equal(t, StateIdle, st.State)
	require.Equal(t, "OTP Failed", out.Drain()[0].Title)
	require.NoError(t, r.SetField("mobile", "9876543211"))
}
