package pages

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/organconnect/organconnect/backend/internal/chat"
	"github.com/organconnect/organconnect/backend/internal/forms"
	"github.com/organconnect/organconnect/backend/internal/interaction"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/repositories"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

type okIssuer struct{}

func (okIssuer) RequestOTP(context.Context, string) (models.OTPIssued, error) {
	return models.OTPIssued{Message: "OTP sent successfully", Code: "123456"}, nil
}

func (okIssuer) VerifyOTP(_ context.Context, _ string, code string) error {
	if code != "123456" {
		return errors.New("mismatch")
	}
	return nil
}

// blockingRegistrar holds Register until release is closed.
type blockingRegistrar struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRegistrar) Register(ctx context.Context, _ models.RegisterRequest) (models.Token, error) {
	close(b.started)
	<-b.release
	return models.Token{AccessToken: "tok", TokenType: "bearer"}, nil
}

type recordingIntake struct {
	mu    sync.Mutex
	kinds []forms.Kind
}

func (r *recordingIntake) Accept(_ context.Context, kind forms.Kind, _ models.Principal, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	return nil
}

func newManager(registrar forms.Registrar, intake Intake) *Manager {
	return NewManager(Deps{
		Content:   repositories.NewStaticContentRepository(),
		OTP:       okIssuer{},
		Registrar: registrar,
		Intake:    intake,
		Chat:      chat.Config{Delay: 20 * time.Millisecond},
	}, time.Minute, discard)
}

var (
	anonymous = models.Principal{}
	donor     = models.Principal{UserID: "u-donor", Role: models.RoleDonor}
	hospital  = models.Principal{UserID: "u-hospital", Role: models.RoleHospital}
	admin     = models.Principal{UserID: "u-admin", Role: models.RoleAdmin}
)

func TestMount_CapabilityGating(t *testing.T) {
	m := newManager(nil, nil)
	ctx := context.Background()

	cases := []struct {
		page      Name
		principal models.Principal
		allowed   bool
	}{
		{Donate, donor, true},
		{Donate, admin, true},
		{Donate, hospital, false},
		{Donate, anonymous, false},
		{RecipientPortal, hospital, true},
		{RecipientPortal, admin, true},
		{RecipientPortal, donor, false},
		{Community, anonymous, true},
		{Register, anonymous, true},
	}
	for _, tc := range cases {
		_, err := m.Mount(ctx, tc.page, tc.principal)
		if tc.allowed {
			require.NoError(t, err, "%s as %q", tc.page, tc.principal.Role)
		} else {
			require.ErrorIs(t, err, ErrForbidden, "%s as %q", tc.page, tc.principal.Role)
		}
	}

	_, err := m.Mount(ctx, "dashboard", admin)
	require.ErrorIs(t, err, ErrUnknownPage)
}

func TestCommunity_LikesAndCarousel(t *testing.T) {
	m := newManager(nil, nil)
	s, err := m.Mount(context.Background(), Community, anonymous)
	require.NoError(t, err)

	st := s.ToggleLike(models.ItemKey{Kind: models.FeedKindReel, ID: 3})
	require.Equal(t, interaction.ItemState{Liked: true, DisplayedLikes: 3457}, st)

	st = s.ToggleLike(models.ItemKey{Kind: models.FeedKindPost, ID: 1})
	require.Equal(t, interaction.ItemState{Liked: false, DisplayedLikes: 891}, st)

	for range 10 {
		_, err = s.Scroll(ReelsCarousel, interaction.DirectionDown)
		require.NoError(t, err)
	}
	idx, err := s.Scroll(ReelsCarousel, interaction.DirectionDown)
	require.NoError(t, err)
	require.Equal(t, 3, idx)
}

func TestUnmount_VoidsPendingChatReplies(t *testing.T) {
	m := newManager(nil, nil)
	s, err := m.Mount(context.Background(), Home, anonymous)
	require.NoError(t, err)

	ok, err := s.SendChat("hello")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, m.Unmount(s.ID))

	time.Sleep(60 * time.Millisecond)
	tr, err := s.Transcript()
	require.NoError(t, err)
	require.Len(t, tr, 2)

	_, err = m.Get(s.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, m.Unmount(s.ID), ErrSessionNotFound)
}

func TestRegisterPage_HasNoChat(t *testing.T) {
	m := newManager(nil, nil)
	s, err := m.Mount(context.Background(), Register, anonymous)
	require.NoError(t, err)

	_, err = s.SendChat("hi")
	require.ErrorIs(t, err, ErrNoChat)
	_, err = s.Form(forms.KindDonor)
	require.ErrorIs(t, err, ErrNoForm)

	snap := s.Snapshot()
	require.Len(t, snap.Forms, 1)
	require.Equal(t, forms.KindRegistration, snap.Forms[0].Kind)
	require.Equal(t, forms.StateIdle, snap.Forms[0].Registration.State)
}

func TestEventsPage_SubmitClosesPanel(t *testing.T) {
	intake := &recordingIntake{}
	m := newManager(nil, intake)
	s, err := m.Mount(context.Background(), Events, anonymous)
	require.NoError(t, err)
	require.True(t, s.TogglePanel("event-form"))

	f, err := s.Form(forms.KindEvent)
	require.NoError(t, err)
	require.NoError(t, f.SetField("title", "Awareness Walk"))
	require.NoError(t, f.SetField("date", "2026-11-02"))
	require.NoError(t, f.SetField("time", "09:30"))
	require.NoError(t, f.SetField("location", "Marine Drive"))

	res, err := s.SubmitForm(forms.KindEvent)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, []forms.Kind{forms.KindEvent}, intake.kinds)
	require.False(t, s.Snapshot().Interaction.Panels["event-form"])

	toasts := s.Notifications()
	require.Len(t, toasts, 1)
	require.Equal(t, "Event Created!", toasts[0].Title)
	require.Empty(t, s.Notifications())
}

func TestUnmount_DiscardsLateRegistrationResult(t *testing.T) {
	registrar := &blockingRegistrar{started: make(chan struct{}), release: make(chan struct{})}
	m := newManager(registrar, nil)
	s, err := m.Mount(context.Background(), Register, anonymous)
	require.NoError(t, err)

	f, err := s.Form(forms.KindRegistration)
	require.NoError(t, err)
	for name, v := range map[string]string{
		"name": "Meera", "mobile": "9876543210", "email": "meera@example.com",
		"password": "secret1", "confirm_password": "secret1",
	} {
		require.NoError(t, f.SetField(name, v))
	}
	_, err = s.RequestOTP()
	require.NoError(t, err)
	_, err = s.VerifyOTP("123456")
	require.NoError(t, err)
	s.Notifications()

	done := make(chan error, 1)
	go func() {
		_, err := s.SubmitForm(forms.KindRegistration)
		done <- err
	}()
	<-registrar.started
	require.NoError(t, m.Unmount(s.ID))
	close(registrar.release)

	require.ErrorIs(t, <-done, context.Canceled)
	require.NotEqual(t, forms.StateSuccess, s.registration.Status().State)
	require.Empty(t, s.Notifications())
}

func TestSweep_RemovesIdleSessions(t *testing.T) {
	m := newManager(nil, nil)
	base := time.Now()
	m.now = func() time.Time { return base }
	stale, err := m.Mount(context.Background(), About, anonymous)
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(45 * time.Second) }
	fresh, err := m.Mount(context.Background(), About, anonymous)
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(90 * time.Second) }
	require.Equal(t, 1, m.Sweep())
	require.True(t, stale.Closed())
	require.False(t, fresh.Closed())
	require.Equal(t, 1, m.Len())
}

func TestCommunityPost_ArchivedWithAuthor(t *testing.T) {
	repo := repositories.NewMemorySubmissionRepository()
	m := newManager(nil, ArchiveIntake{Repo: repo, Log: discard})
	s, err := m.Mount(context.Background(), Community, donor)
	require.NoError(t, err)

	f, err := s.Form(forms.KindPost)
	require.NoError(t, err)
	require.NoError(t, f.SetField("content", "Registered as a donor today."))
	_, err = s.SubmitForm(forms.KindPost)
	require.NoError(t, err)

	stored, err := repo.ListSubmissions(context.Background(), "post", 0, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "u-donor", stored[0].UserID)
	require.Equal(t, models.RoleDonor, stored[0].Role)
	require.Equal(t, "Registered as a donor today.", stored[0].Fields["content"])
}
