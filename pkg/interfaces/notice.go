package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// NoticeLevel classifies a user facing outcome message.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is the outcome event handed to the presentation layer. Message is
// always safe to display.
type Notice struct {
	Level         NoticeLevel `json:"level"`
	Message       string      `json:"message"`
	ContentTypeID uuid.UUID   `json:"content_type_id,omitempty"`
	Action        string      `json:"action,omitempty"`
}

// Notifier delivers notices. Implementations must not block for long.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}
