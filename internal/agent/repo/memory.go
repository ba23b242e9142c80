package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means never
}

// MemorySessionRepository keeps sessions in process. Entries are stored
// serialized, so callers never share state with the store. Expired entries
// are hidden on Load and removed by PurgeExpired; nothing runs in the background.
type MemorySessionRepository struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemorySessionRepository returns a store whose sessions expire ttl after
// their last save. A ttl of zero disables expiry.
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (r *MemorySessionRepository) Load(_ context.Context, sessionID string) (*model.SessionState, error) {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	if ok && r.expired(e) {
		delete(r.entries, sessionID)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, model.ErrSessionNotFound
	}
	var st model.SessionState
	if err := json.Unmarshal(e.data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &st, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, st *model.SessionState) error {
	if st == nil || st.SessionID == "" {
		return model.ErrInvalidSession
	}
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	e := memoryEntry{data: b}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	r.entries[st.SessionID] = e
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()
	return nil
}

// PurgeExpired drops every expired session and returns how many were removed.
func (r *MemorySessionRepository) PurgeExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.entries {
		if r.expired(e) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired or not.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *MemorySessionRepository) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt)
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
