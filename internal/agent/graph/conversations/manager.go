package conversations

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

// SessionManager loads and persists the session around one turn.
type SessionManager struct {
	sessionRepo model.SessionRepository
	now         func() time.Time

	mu    sync.Mutex
	turns map[string]*turnLock
}

// turnLock admits one turn per session; refs counts holders and waiters.
type turnLock struct {
	sem  chan struct{}
	refs int
}

func NewSessionManager(sessionRepo model.SessionRepository) *SessionManager {
	return &SessionManager{
		sessionRepo: sessionRepo,
		now:         time.Now,
		turns:       map[string]*turnLock{},
	}
}

// Lock blocks until no other turn holds sessionID, or ctx is done. Hold it
// from Begin through Commit; the returned func releases it.
func (sm *SessionManager) Lock(ctx context.Context, sessionID string) (func(), error) {
	sessionID = strings.TrimSpace(sessionID)

	sm.mu.Lock()
	l, ok := sm.turns[sessionID]
	if !ok {
		l = &turnLock{sem: make(chan struct{}, 1)}
		sm.turns[sessionID] = l
	}
	l.refs++
	sm.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		sm.release(sessionID, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			sm.release(sessionID, l)
		})
	}, nil
}

func (sm *SessionManager) release(sessionID string, l *turnLock) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(sm.turns, sessionID)
	}
}

func (sm *SessionManager) lockedSessions() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.turns)
}

// Begin loads the session (or starts a new one) and appends the user message.
// Nothing is stored until Commit.
func (sm *SessionManager) Begin(ctx context.Context, sessionID, query string) (*model.SessionState, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, model.ErrInvalidSession
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.ErrEmptyMessage
	}

	st, err := sm.sessionRepo.Load(ctx, sessionID)
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		logx.Debug().Str("conversation_id", sessionID).Msg("starting new session")
		st = model.NewSessionState(sessionID, sm.now())
	case err != nil:
		return nil, err
	}

	st.Messages = append(st.Messages, schema.UserMessage(query))
	return st, nil
}

// Commit appends the assistant reply and stores the session.
func (sm *SessionManager) Commit(ctx context.Context, st *model.SessionState, reply string) error {
	st.Messages = append(st.Messages, schema.AssistantMessage(reply, nil))
	st.UpdatedAt = sm.now().UTC()
	if err := sm.sessionRepo.Save(ctx, st); err != nil {
		logx.Error().Err(err).Str("conversation_id", st.SessionID).Msg("failed to save session")
		return err
	}
	return nil
}

// Transcript returns the stored message history; an unknown session has none.
func (sm *SessionManager) Transcript(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	st, err := sm.sessionRepo.Load(ctx, sessionID)
	if errors.Is(err, model.ErrSessionNotFound) {
		return []*schema.Message{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]*schema.Message, len(st.Messages))
	copy(out, st.Messages)
	return out, nil
}

// Session returns a copy of the stored session.
func (sm *SessionManager) Session(ctx context.Context, sessionID string) (*model.SessionState, error) {
	return sm.sessionRepo.Load(ctx, sessionID)
}

func (sm *SessionManager) Reset(ctx context.Context, sessionID string) error {
	return sm.sessionRepo.Delete(ctx, sessionID)
}
