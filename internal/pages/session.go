package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/organconnect/organconnect/backend/internal/chat"
	"github.com/organconnect/organconnect/backend/internal/forms"
	"github.com/organconnect/organconnect/backend/internal/interaction"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/notify"
)

var (
	ErrUnknownPage     = errors.New("unknown page")
	ErrForbidden       = errors.New("your role cannot open this page")
	ErrSessionNotFound = errors.New("page session not found")
	ErrNoForm          = errors.New("page has no such form")
	ErrNoChat          = errors.New("page has no chat widget")
	ErrNoRegistration  = errors.New("page has no registration flow")
)

// Session is one mounted page. Its context is cancelled on unmount, which
// voids every callback still in flight.
type Session struct {
	ID        string           `json:"id"`
	Page      Name             `json:"page"`
	Principal models.Principal `json:"principal"`
	CreatedAt time.Time        `json:"created_at"`

	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	store        *interaction.Store
	forms        map[forms.Kind]forms.Form
	registration *forms.Registration
	chat         *chat.Responder
	outbox       *notify.Outbox

	mu       sync.Mutex
	lastSeen time.Time
}

// FormState is a form's values together with its current violations.
type FormState struct {
	Kind         forms.Kind                `json:"kind"`
	Values       map[string]any            `json:"values"`
	Violations   []forms.Violation         `json:"violations"`
	Registration *forms.RegistrationStatus `json:"registration,omitempty"`
}

// Snapshot is everything a renderer needs to draw the page.
type Snapshot struct {
	ID          string               `json:"id"`
	Page        Name                 `json:"page"`
	Principal   models.Principal     `json:"principal"`
	Interaction interaction.Snapshot `json:"interaction"`
	Forms       []FormState          `json:"forms"`
	Chat        []models.ChatEntry   `json:"chat,omitempty"`
	ChatPending int                  `json:"chat_pending"`
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.cancel()
	if s.chat != nil {
		s.chat.Close()
	}
	s.log.Debug("Page session closed")
}

// Closed reports whether the session was unmounted.
func (s *Session) Closed() bool { return s.ctx.Err() != nil }

func (s *Session) ToggleLike(key models.ItemKey) interaction.ItemState {
	return s.store.ToggleLike(key)
}

func (s *Session) TogglePanel(panel string) bool {
	return s.store.TogglePanel(panel)
}

func (s *Session) Scroll(carousel string, dir interaction.Direction) (int, error) {
	return s.store.Scroll(carousel, dir)
}

func (s *Session) Form(kind forms.Kind) (forms.Form, error) {
	f, ok := s.forms[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoForm, kind)
	}
	return f, nil
}

func (s *Session) FormState(kind forms.Kind) (FormState, error) {
	f, err := s.Form(kind)
	if err != nil {
		return FormState{}, err
	}
	st := FormState{Kind: kind, Values: f.Values(), Violations: f.Validate()}
	if st.Violations == nil {
		st.Violations = []forms.Violation{}
	}
	if kind == forms.KindRegistration && s.registration != nil {
		status := s.registration.Status()
		st.Registration = &status
	}
	return st, nil
}

// SubmitForm runs the form's submit under the session context so that an
// unmount discards a result that arrives late.
func (s *Session) SubmitForm(kind forms.Kind) (forms.Result, error) {
	f, err := s.Form(kind)
	if err != nil {
		return forms.Result{}, err
	}
	return f.Submit(s.ctx)
}

func (s *Session) Registration() (*forms.Registration, error) {
	if s.registration == nil {
		return nil, ErrNoRegistration
	}
	return s.registration, nil
}

func (s *Session) RequestOTP() (forms.RegistrationStatus, error) {
	r, err := s.Registration()
	if err != nil {
		return forms.RegistrationStatus{}, err
	}
	return r.RequestOTP(s.ctx)
}

func (s *Session) VerifyOTP(code string) (forms.RegistrationStatus, error) {
	r, err := s.Registration()
	if err != nil {
		return forms.RegistrationStatus{}, err
	}
	return r.VerifyOTP(s.ctx, code)
}

func (s *Session) SendChat(text string) (bool, error) {
	if s.chat == nil {
		return false, ErrNoChat
	}
	return s.chat.Send(text), nil
}

func (s *Session) Transcript() ([]models.ChatEntry, error) {
	if s.chat == nil {
		return nil, ErrNoChat
	}
	return s.chat.Transcript(), nil
}

// Notifications drains the toast outbox.
func (s *Session) Notifications() []models.Toast {
	return s.outbox.Drain()
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		Page:        s.Page,
		Principal:   s.Principal,
		Interaction: s.store.Snapshot(),
		Forms:       []FormState{},
	}
	for _, kind := range layouts[s.Page].forms {
		if st, err := s.FormState(kind); err == nil {
			snap.Forms = append(snap.Forms, st)
		}
	}
	if s.registration != nil {
		if st, err := s.FormState(forms.KindRegistration); err == nil {
			snap.Forms = append(snap.Forms, st)
		}
	}
	if s.chat != nil {
		snap.Chat = s.chat.Transcript()
		snap.ChatPending = s.chat.Pending()
	}
	return snap
}
