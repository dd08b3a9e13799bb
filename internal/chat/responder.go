// Package chat implements the floating assistant widget: every message a
// visitor sends is answered by one canned reply after a fixed delay.
package chat

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/organconnect/organconnect/backend/internal/models"
)

const (
	DefaultGreeting = "Hello! I'm here to help you with organ donation queries. How can I assist you today?"
	DefaultReply    = "Thank you for your question. Our AI assistant will be fully functional once the backend is connected. For now, please reach out to our support team at support@organconnect.in."
	DefaultDelay    = time.Second
)

type Config struct {
	Delay    time.Duration
	Greeting string
	Reply    string
}

func (c Config) withDefaults() Config {
	if c.Delay <= 0 {
		c.Delay = DefaultDelay
	}
	if c.Greeting == "" {
		c.Greeting = DefaultGreeting
	}
	if c.Reply == "" {
		c.Reply = DefaultReply
	}
	return c
}

// Responder owns one transcript. Each accepted Send schedules its own timer;
// replies are appended in the order the sends happened.
type Responder struct {
	mu         sync.Mutex
	cfg        Config
	log        *slog.Logger
	transcript []models.ChatEntry
	timers     map[int]*time.Timer // pending reply timers by sequence
	scheduled  int                 // replies owed
	delivered  int                 // replies appended
	closed     bool
	now        func() time.Time
}

func NewResponder(cfg Config, log *slog.Logger) *Responder {
	cfg = cfg.withDefaults()
	r := &Responder{cfg: cfg, log: log, timers: map[int]*time.Timer{}, now: time.Now}
	r.transcript = []models.ChatEntry{{Role: models.ChatRoleAssistant, Content: cfg.Greeting, At: r.now()}}
	return r
}

// Send appends text as a user entry and schedules the reply. Blank input and
// sends after Close are ignored; the return value says whether text was
// accepted.
func (r *Responder) Send(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}

	r.transcript = append(r.transcript, models.ChatEntry{Role: models.ChatRoleUser, Content: text, At: r.now()})
	r.scheduled++
	seq := r.scheduled
	r.timers[seq] = time.AfterFunc(r.cfg.Delay, func() { r.deliver(seq) })
	return true
}

// deliver appends every reply up to seq that is still owed. A timer that
// fires late finds its reply already appended by a later one and does nothing.
func (r *Responder) deliver(seq int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for r.delivered < seq {
		r.delivered++
		r.transcript = append(r.transcript, models.ChatEntry{Role: models.ChatRoleAssistant, Content: r.cfg.Reply, At: r.now()})
		if t, ok := r.timers[r.delivered]; ok {
			t.Stop()
			delete(r.timers, r.delivered)
		}
	}
}

func (r *Responder) Transcript() []models.ChatEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ChatEntry(nil), r.transcript...)
}

// Pending is the number of replies not yet appended.
func (r *Responder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduled - r.delivered
}

// Close stops every pending timer. Replies still owed are never appended.
func (r *Responder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	stopped := 0
	for _, t := range r.timers {
		if t.Stop() {
			stopped++
		}
	}
	clear(r.timers)
	if stopped > 0 {
		r.log.Debug("Chat responder closed with pending replies", "voided", stopped)
	}
}
