package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	redisx "github.com/Chative-restaurant-poc/server/pkg/redis"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Open builds the session store named by cfg. The returned close func is never nil.
func Open(cfg model.SessionConfig, redisCfg *redisx.Config) (model.SessionRepository, func() error, error) {
	noop := func() error { return nil }

	ttl, err := ParseTTL(cfg.TTL)
	if err != nil {
		return nil, noop, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Store)) {
	case "", StoreMemory:
		return NewMemorySessionRepository(ttl), noop, nil
	case StoreRedis:
		if redisCfg == nil {
			return nil, noop, fmt.Errorf("redis session store needs redis config")
		}
		client, err := redisCfg.New()
		if err != nil {
			return nil, noop, fmt.Errorf("connect redis: %w", err)
		}
		return NewRedisSessionRepository(client, ttl), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// ParseTTL parses a session TTL; an empty string means no expiry.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid session ttl %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid session ttl %q: negative", s)
	}
	return d, nil
}
