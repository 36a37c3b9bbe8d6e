// Package session persists conversation state between messages, keyed by the
// session ID the chat widget carries.
package session

import (
	"context"
	"errors"

	"github.com/clinicdesk/scheduling-assistant/internal/conversation"
)

// ErrNotFound means no live session exists for the ID.
var ErrNotFound = errors.New("session: not found")

// Store reads and writes conversation sessions. Sessions expire after the
// configured TTL of inactivity; Put refreshes the clock.
type Store interface {
	Get(ctx context.Context, id string) (*conversation.Session, error)
	Put(ctx context.Context, sess *conversation.Session) error
	Delete(ctx context.Context, id string) error
}
