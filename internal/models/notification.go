package models

import "time"

// ToastVariant selects how the UI renders a notification.
type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

// Toast is a fire-and-forget notification for the page that raised it.
type Toast struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Variant     ToastVariant `json:"variant"`
	CreatedAt   time.Time    `json:"created_at"`
}
