package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	errx "github.com/Chative-restaurant-poc/server/internal/core/error"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

// redisCommands is the subset of redis.Cmdable the session store needs.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessionRepository stores each session as one JSON value whose TTL is
// refreshed on every save. Expiry is left to Redis.
type RedisSessionRepository struct {
	rdb redisCommands
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redisCommands, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey(sessionID string) string {
	return fmt.Sprintf("restaurant:session:%s", sessionID)
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*model.SessionState, error) {
	key := r.sessionKey(sessionID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session from redis")
		return nil, errx.WrapRedis(err)
	}

	var st model.SessionState
	if err := json.Unmarshal(raw, &st); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to unmarshal session")
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &st, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, st *model.SessionState) error {
	if st == nil || st.SessionID == "" {
		return model.ErrInvalidSession
	}
	b, err := json.Marshal(st)
	if err != nil {
		logx.Error().Err(err).Str("session_id", st.SessionID).Msg("failed to marshal session")
		return fmt.Errorf("marshal session: %w", err)
	}

	key := r.sessionKey(st.SessionID)
	// a zero ttl keeps the key forever
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save session to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := r.sessionKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
