package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/organconnect/organconnect/backend/internal/chat"
	"github.com/organconnect/organconnect/backend/internal/forms"
	"github.com/organconnect/organconnect/backend/internal/interaction"
	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/notify"
	"github.com/organconnect/organconnect/backend/internal/repositories"
)

// Intake receives accepted donor, recipient, event and post submissions.
type Intake interface {
	Accept(ctx context.Context, kind forms.Kind, principal models.Principal, form any) error
}

// LogIntake records submissions in the log only.
type LogIntake struct {
	Log *slog.Logger
}

func (l LogIntake) Accept(_ context.Context, kind forms.Kind, principal models.Principal, _ any) error {
	l.Log.Info("Form accepted", "form", kind, "user_id", principal.UserID)
	return nil
}

// ArchiveIntake stores every accepted form in a submission repository.
type ArchiveIntake struct {
	Repo repositories.SubmissionRepository
	Log  *slog.Logger
}

func (a ArchiveIntake) Accept(ctx context.Context, kind forms.Kind, principal models.Principal, form any) error {
	raw, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode %s form: %w", kind, err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("encode %s form: %w", kind, err)
	}
	sub := &models.Submission{
		Kind:   string(kind),
		UserID: principal.UserID,
		Role:   principal.Role,
		Fields: fields,
	}
	if err := a.Repo.CreateSubmission(ctx, sub); err != nil {
		return fmt.Errorf("store %s form: %w", kind, err)
	}
	a.Log.Info("Form archived", "form", kind, "submission_id", sub.ID.Hex(), "user_id", principal.UserID)
	return nil
}

type Deps struct {
	Content        repositories.ContentRepository
	OTP            forms.OTPIssuer
	Registrar      forms.Registrar
	Intake         Intake
	Chat           chat.Config
	OutboxCapacity int
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewManager(deps Deps, ttl time.Duration, log *slog.Logger) *Manager {
	if deps.Intake == nil {
		deps.Intake = LogIntake{Log: log}
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: map[string]*Session{},
		deps:     deps,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Mount creates the session for one visit of page. Gated pages need a
// principal holding the page's capability.
func (m *Manager) Mount(ctx context.Context, page Name, principal models.Principal) (*Session, error) {
	l, ok := layouts[page]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if !page.Allowed(principal) {
		return nil, ErrForbidden
	}

	index := interaction.Index{}
	carousels := map[string]int{}
	if l.feed {
		posts, err := m.deps.Content.Posts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load posts: %w", err)
		}
		reels, err := m.deps.Content.Reels(ctx)
		if err != nil {
			return nil, fmt.Errorf("load reels: %w", err)
		}
		index = interaction.NewIndex(posts, reels)
		carousels[ReelsCarousel] = len(reels)
	}

	id := uuid.NewString()
	log := m.log.With("session_id", id, "page", page)
	sessCtx, cancel := context.WithCancel(context.Background())
	now := m.now()
	s := &Session{
		ID:        id,
		Page:      page,
		Principal: principal,
		CreatedAt: now,
		ctx:       sessCtx,
		cancel:    cancel,
		log:       log,
		store:     interaction.NewStore(index, carousels),
		forms:     map[forms.Kind]forms.Form{},
		outbox:    notify.NewOutbox(m.deps.OutboxCapacity, log),
		lastSeen:  now,
	}
	for _, kind := range l.forms {
		s.forms[kind] = forms.NewSession(m.definition(kind, principal), s.outbox, s.store, log)
	}
	if l.registration {
		s.registration = forms.NewRegistration(m.deps.OTP, m.deps.Registrar, s.outbox, log)
		s.forms[forms.KindRegistration] = s.registration
	}
	if l.chat {
		s.chat = chat.NewResponder(m.deps.Chat, log)
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	log.Info("Page mounted", "user_id", principal.UserID, "role", principal.Role)
	return s, nil
}

func (m *Manager) definition(kind forms.Kind, principal models.Principal) *forms.Definition {
	accept := func(ctx context.Context, form any) error {
		return m.deps.Intake.Accept(ctx, kind, principal, form)
	}
	switch kind {
	case forms.KindDonor:
		return forms.DonorDefinition(accept)
	case forms.KindRecipient:
		return forms.RecipientDefinition(accept)
	case forms.KindEvent:
		return forms.EventDefinition(accept)
	default:
		return forms.PostDefinition(accept)
	}
}

// Get returns a live session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Unmount tears the session down. Pending chat replies and submissions are
// voided.
func (m *Manager) Unmount(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep unmounts every session idle for longer than the TTL and returns how
// many were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)
	var stale []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
	}
	if len(stale) > 0 {
		m.log.Info("Swept idle page sessions", "count", len(stale))
	}
	return len(stale)
}

// RunJanitor sweeps on every tick until ctx is done, then unmounts all
// remaining sessions.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}
