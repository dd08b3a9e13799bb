package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/repositories"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{ verified map[string]bool }

func (v *stubVerifier) MobileVerified(_ context.Context, mobile string) (bool, error) {
	return v.verified[mobile], nil
}

func (v *stubVerifier) ConsumeVerification(_ context.Context, mobile string) (bool, error) {
	ok := v.verified[mobile]
	delete(v.verified, mobile)
	return ok, nil
}

type stubFirebase struct {
	token *firebaseauth.Token
	err   error
}

func (f stubFirebase) VerifyIDToken(context.Context, string) (*firebaseauth.Token, error) {
	return f.token, f.err
}

func newService(t *testing.T, verifier MobileVerifier, fb IDTokenVerifier) (*Service, *repositories.MemoryUserRepository) {
	t.Helper()
	users := repositories.NewMemoryUserRepository()
	return NewService(users, verifier, fb, Config{Secret: "test-secret"}, slog.New(slog.DiscardHandler)), users
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:            "Meera",
		Age:             lo.ToPtr(31),
		Mobile:          "9876500001",
		Email:           "Meera@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            models.RoleDonor,
	}
}

func TestRegister_IssuesBearerToken(t *testing.T) {
	svc, users := newService(t, nil, nil)

	tok, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.Equal(t, "bearer", tok.TokenType)

	claims, err := svc.ParseToken(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.RoleDonor, claims.Role)

	u, err := users.GetUserByID(context.Background(), claims.UserID)
	require.NoError(t, err)
	require.Equal(t, "meera@example.com", u.Email)
	require.True(t, u.MobileVerified)
	require.NotEqual(t, "secret1", u.Password)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	mismatch := registerRequest()
	mismatch.ConfirmPassword = "other"
	_, err = svc.Register(ctx, mismatch)
	require.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = svc.Register(ctx, registerRequest())
	require.ErrorIs(t, err, ErrEmailTaken)

	sameMobile := registerRequest()
	sameMobile.Email = "other@example.com"
	_, err = svc.Register(ctx, sameMobile)
	require.ErrorIs(t, err, ErrMobileTaken)

	admin := registerRequest()
	admin.Email, admin.Mobile, admin.Role = "x@example.com", "9876500009", models.RoleAdmin
	_, err = svc.Register(ctx, admin)
	require.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestRegister_RequiresVerifiedMobile(t *testing.T) {
	verifier := &stubVerifier{verified: map[string]bool{}}
	svc, _ := newService(t, verifier, nil)

	_, err := svc.Register(context.Background(), registerRequest())
	require.ErrorIs(t, err, ErrMobileNotVerified)

	verifier.verified["9876500001"] = true
	_, err = svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
}

// failingUsers rejects the first CreateUser call.
type failingUsers struct {
	*repositories.MemoryUserRepository
	failed bool
}

func (f *failingUsers) CreateUser(ctx context.Context, u *models.User) error {
	if !f.failed {
		f.failed = true
		return errors.New("connection reset")
	}
	return f.MemoryUserRepository.CreateUser(ctx, u)
}

func TestRegister_KeepsVerificationWhenCreateFails(t *testing.T) {
	verifier := &stubVerifier{verified: map[string]bool{"9876500001": true}}
	users := &failingUsers{MemoryUserRepository: repositories.NewMemoryUserRepository()}
	svc := NewService(users, verifier, nil, Config{Secret: "test-secret"}, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMobileNotVerified)
	require.True(t, verifier.verified["9876500001"])

	_, err = svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.False(t, verifier.verified["9876500001"])
}

func TestLogin(t *testing.T) {
	svc, users := newService(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, svc.SeedDemoUsers(ctx))

	tok, err := svc.Login(ctx, models.LoginRequest{Email: "hospital@organconnect.com", Password: "hospital123"})
	require.NoError(t, err)
	claims, err := svc.ParseToken(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.RoleHospital, claims.Role)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "hospital@organconnect.com", Password: "nope"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "ghost@organconnect.com", Password: "x"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := users.GetUserByEmail(ctx, "donor@organconnect.com")
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, users.UpdateUser(ctx, u))
	_, err = svc.Login(ctx, models.LoginRequest{Email: "donor@organconnect.com", Password: "donor123"})
	require.ErrorIs(t, err, ErrInactive)
}

func TestSeedDemoUsers_Idempotent(t *testing.T) {
	svc, users := newService(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, svc.SeedDemoUsers(ctx))
	require.NoError(t, svc.SeedDemoUsers(ctx))

	admin, err := users.GetUserByEmail(ctx, "admin@organconnect.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.Equal(t, "9876543212", *admin.Mobile)
}

func TestParseToken_Rejects(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	tok, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.ParseToken(tok.AccessToken + "x")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(repositories.NewMemoryUserRepository(), nil, nil, Config{Secret: "other"}, slog.New(slog.DiscardHandler))
	_, err = other.ParseToken(tok.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	unknownRole, err := svc.tokenFor(&models.User{ID: "u1", Role: models.Role("superuser")})
	require.NoError(t, err)
	_, err = svc.ParseToken(unknownRole.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(-100 * time.Hour) }
	expired, err := svc.tokenFor(&models.User{ID: "u1", Role: models.RoleDonor})
	require.NoError(t, err)
	_, err = svc.ParseToken(expired.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestFirebaseLogin(t *testing.T) {
	_, err := func() (models.Token, error) {
		svc, _ := newService(t, nil, nil)
		return svc.FirebaseLogin(context.Background(), "x")
	}()
	require.ErrorIs(t, err, ErrFirebaseDisabled)

	fb := stubFirebase{token: &firebaseauth.Token{UID: "fb-1", Claims: map[string]interface{}{"email": "fan@example.com", "name": "Fan"}}}
	svc, users := newService(t, nil, fb)
	tok, err := svc.FirebaseLogin(context.Background(), "id-token")
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)

	u, err := users.GetUserByFirebaseUID(context.Background(), "fb-1")
	require.NoError(t, err)
	require.Equal(t, models.RoleDonor, u.Role)

	bad, _ := newService(t, nil, stubFirebase{err: errors.New("expired")})
	_, err = bad.FirebaseLogin(context.Background(), "id-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
