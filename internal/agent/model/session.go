package model

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("session id is empty")
	ErrEmptyMessage    = errors.New("message is empty")
)

// SessionState is the record threaded through every turn of one conversation.
type SessionState struct {
	SessionID   string            `json:"session_id"`
	Messages    []*schema.Message `json:"messages"`
	Cart        []CartLineItem    `json:"cart"`
	CartSummary CartSummary       `json:"cart_summary"`
	LastItems   []MenuItem        `json:"last_items"`
	Welcomed    bool              `json:"welcomed"`
	Plan        *Plan             `json:"plan,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewSessionState returns an empty session that has not been welcomed yet.
func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Messages:  []*schema.Message{},
		Cart:      []CartLineItem{},
		LastItems: []MenuItem{},
		UpdatedAt: now.UTC(),
	}
}

// LastUserText returns the content of the trailing user message.
func (s *SessionState) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m != nil && m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

// SessionRepository persists sessions between turns. Expiry is owned by the implementation.
type SessionRepository interface {
	// Load returns ErrSessionNotFound when the session does not exist or has expired.
	Load(ctx context.Context, sessionID string) (*SessionState, error)

	Save(ctx context.Context, st *SessionState) error

	Delete(ctx context.Context, sessionID string) error
}
