package otp

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

type recordingSender struct {
	codes map[string]string
	err   error
}

func (r *recordingSender) Send(_ context.Context, mobile, code string) error {
	if r.err != nil {
		return r.err
	}
	r.codes[mobile] = code
	return nil
}

func setupService(t *testing.T, cfg Config) (*Service, *recordingSender) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sender := &recordingSender{codes: map[string]string{}}
	return NewService(NewBadgerStore(db, discard), sender, cfg, discard), sender
}

func TestRequestOTP_IssuesSixDigits(t *testing.T) {
	svc, sender := setupService(t, Config{})

	issued, err := svc.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	require.Equal(t, "OTP sent successfully", issued.Message)
	require.Empty(t, issued.Code)

	code := sender.codes["9876543210"]
	require.Len(t, code, CodeLength)
}

func TestRequestOTP_EchoCode(t *testing.T) {
	svc, sender := setupService(t, Config{EchoCode: true})

	issued, err := svc.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	require.Equal(t, sender.codes["9876543210"], issued.Code)
}

func TestRequestOTP_InvalidMobile(t *testing.T) {
	svc, sender := setupService(t, Config{})

	for _, m := range []string{"12345", "98765432100", "abcdefghij"} {
		_, err := svc.RequestOTP(context.Background(), m)
		require.ErrorIs(t, err, ErrInvalidMobile)
	}
	require.Empty(t, sender.codes)
}

func TestRequestOTP_SenderFailureDropsChallenge(t *testing.T) {
	svc, sender := setupService(t, Config{})
	sender.err = errors.New("gateway down")

	_, err := svc.RequestOTP(context.Background(), "9876543210")
	require.Error(t, err)
	require.ErrorIs(t, svc.VerifyOTP(context.Background(), "9876543210", "000000"), ErrNotFound)
}

func TestVerifyOTP_ConsumesChallenge(t *testing.T) {
	svc, sender := setupService(t, Config{})
	ctx := context.Background()
	_, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)
	code := sender.codes["9876543210"]

	require.NoError(t, svc.VerifyOTP(ctx, "9876543210", code))
	require.ErrorIs(t, svc.VerifyOTP(ctx, "9876543210", code), ErrNotFound)

	for range 2 {
		ok, err := svc.MobileVerified(ctx, "9876543210")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := svc.ConsumeVerification(ctx, "9876543210")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.MobileVerified(ctx, "9876543210")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.ConsumeVerification(ctx, "9876543210")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyOTP_WithoutRequest(t *testing.T) {
	svc, _ := setupService(t, Config{})
	require.ErrorIs(t, svc.VerifyOTP(context.Background(), "9876543210", "123456"), ErrNotFound)
}

func TestVerifyOTP_AttemptLimit(t *testing.T) {
	svc, sender := setupService(t, Config{MaxAttempts: 3})
	ctx := context.Background()
	_, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)
	code := sender.codes["9876543210"]
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	require.ErrorIs(t, svc.VerifyOTP(ctx, "9876543210", wrong), ErrCodeMismatch)
	require.ErrorIs(t, svc.VerifyOTP(ctx, "9876543210", wrong), ErrCodeMismatch)
	require.ErrorIs(t, svc.VerifyOTP(ctx, "9876543210", wrong), ErrTooManyAttempts)
	// the challenge is gone, even the right code no longer works
	require.ErrorIs(t, svc.VerifyOTP(ctx, "9876543210", code), ErrNotFound)
}

func TestVerifyOTP_Expired(t *testing.T) {
	svc, sender := setupService(t, Config{TTL: time.Minute})
	ctx := context.Background()
	_, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.ErrorIs(t, svc.VerifyOTP(ctx, "9876543210", sender.codes["9876543210"]), ErrNotFound)
}

func TestRequestOTP_ReissueReplacesCode(t *testing.T) {
	svc, sender := setupService(t, Config{})
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)
	first := sender.codes["9876543210"]
	_, err = svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)
	second := sender.codes["9876543210"]

	if first != second {
		require.ErrorIs(t, svc.VerifyOTP(ctx, "9876543210", first), ErrCodeMismatch)
	}
	require.NoError(t, svc.VerifyOTP(ctx, "9876543210", second))
}
