package conversations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/agent/repo"
)

type failingRepo struct{ err error }

func (f failingRepo) Load(context.Context, string) (*model.SessionState, error) { return nil, f.err }
func (f failingRepo) Save(context.Context, *model.SessionState) error { return f.err }
func (f failingRepo) Delete(context.Context, string) error { return f.err }

func TestBeginCommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemorySessionRepository(0)
	sm := NewSessionManager(store)
	sm.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) }

	st, err := sm.Begin(ctx, " s1 ", "  hi ")
	require.NoError(t, err)
	assert.Equal(t, "s1", st.SessionID)
	assert.False(t, st.Welcomed)
	assert.Equal(t, "hi", st.LastUserText())

	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound, "nothing is stored before commit")

	require.NoError(t, sm.Commit(ctx, st, "hello!"))

	msgs, err := sm.Transcript(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Equal(t, schema.Assistant, msgs[1].Role)

	st, err = sm.Begin(ctx, "s1", "show cart")
	require.NoError(t, err)
	assert.Len(t, st.Messages, 3)

	require.NoError(t, sm.Reset(ctx, "s1"))
	msgs, err = sm.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestBeginValidatesInput(t *testing.T) {
	sm := NewSessionManager(repo.NewMemorySessionRepository(0))

	_, err := sm.Begin(context.Background(), "  ", "hi")
	assert.ErrorIs(t, err, model.ErrInvalidSession)

	_, err = sm.Begin(context.Background(), "s1", " \t ")
	assert.ErrorIs(t, err, model.ErrEmptyMessage)
}

func TestBeginPropagatesStoreFailure(t *testing.T) {
	boom := errors.New("boom")
	sm := NewSessionManager(failingRepo{err: boom})

	_, err := sm.Begin(context.Background(), "s1", "hi")
	assert.ErrorIs(t, err, boom)

	_, err = sm.Transcript(context.Background(), "s1")
	assert.ErrorIs(t, err, boom)
}

func TestTranscriptReturnsCopy(t *testing.T) {
	ctx := context.Background()
	sm := NewSessionManager(repo.NewMemorySessionRepository(0))
	st, err := sm.Begin(ctx, "s1", "hi")
	require.NoError(t, err)
	require.NoError(t, sm.Commit(ctx, st, "hello"))

	got, err := sm.Transcript(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	got[0] = schema.UserMessage("changed")

	again, err := sm.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hi", again[0].Content)
}

func TestLockSerializesTurnsPerSession(t *testing.T) {
	sm := NewSessionManager(repo.NewMemorySessionRepository(0))
	ctx := context.Background()

	unlock, err := sm.Lock(ctx, "s1")
	require.NoError(t, err)

	other, err := sm.Lock(ctx, "s2")
	require.NoError(t, err, "other sessions are not blocked")
	other()

	acquired := make(chan struct{})
	go func() {
		u, err := sm.Lock(ctx, "s1")
		if err == nil {
			close(acquired)
			u()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second turn ran while the first held the session")
	case <-time.After(30 * time.Millisecond):
	}

	unlock()
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second turn never acquired the session")
	}

	assert.Eventually(t, func() bool { return sm.lockedSessions() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLockHonoursContext(t *testing.T) {
	sm := NewSessionManager(repo.NewMemorySessionRepository(0))
	unlock, err := sm.Lock(context.Background(), "s1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = sm.Lock(ctx, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, sm.lockedSessions())
}
