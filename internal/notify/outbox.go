// Package notify carries toast notifications from page components to the UI.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/organconnect/organconnect/backend/internal/models"
)

// Channel accepts notifications without acknowledging them.
type Channel interface {
	Notify(title, description string, variant models.ToastVariant)
}

// Outbox buffers the toasts of one page until the UI drains them. When the
// buffer is full the oldest toast is dropped.
type Outbox struct {
	mu       sync.Mutex
	toasts   []models.Toast
	capacity int
	log      *slog.Logger
	now      func() time.Time
}

func NewOutbox(capacity int, log *slog.Logger) *Outbox {
	if capacity <= 0 {
		capacity = 32
	}
	return &Outbox{capacity: capacity, log: log, now: time.Now}
}

func (o *Outbox) Notify(title, description string, variant models.ToastVariant) {
	if variant == "" {
		variant = models.ToastDefault
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.toasts) == o.capacity {
		o.log.Warn("Toast outbox full, dropping oldest", "title", o.toasts[0].Title)
		o.toasts = o.toasts[1:]
	}
	o.toasts = append(o.toasts, models.Toast{
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   o.now(),
	})
	o.log.Debug("Toast queued", "title", title, "variant", variant)
}

// Drain returns the pending toasts oldest first and empties the outbox.
func (o *Outbox) Drain() []models.Toast {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.toasts
	o.toasts = nil
	if out == nil {
		return []models.Toast{}
	}
	return out
}
