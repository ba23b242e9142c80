package graph

import (
	"context"
	"fmt"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/agent/repo"
	"github.com/Chative-restaurant-poc/server/internal/catalog"
	"github.com/Chative-restaurant-poc/server/internal/metrics"
	"github.com/Chative-restaurant-poc/server/pkg/llm"
	redisx "github.com/Chative-restaurant-poc/server/pkg/redis"
)

// AgentConfig is the environment-driven configuration shared by the CLI and the chat UI.
type AgentConfig struct {
	LLM            llm.Config
	PlannerModel   model.PlannerModelConfig
	ResponseModel  model.ResponseModelConfig
	ResponsePrompt model.ResponsePromptConfig
	Catalog        model.CatalogConfig
	Session        model.SessionConfig
	Redis          redisx.Config
}

// Open wires the catalog, session store and strategies named by cfg into an
// Agent. The returned close func releases the session store and is never nil.
func Open(ctx context.Context, cfg AgentConfig, m *metrics.Collector) (*Agent, func() error, error) {
	noop := func() error { return nil }

	searcher, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return nil, noop, fmt.Errorf("open catalog: %w", err)
	}

	sessions, closeSessions, err := repo.Open(cfg.Session, &cfg.Redis)
	if err != nil {
		return nil, noop, fmt.Errorf("open session store: %w", err)
	}

	p, r, err := NewStrategies(ctx, StrategyConfig{
		LLM:            cfg.LLM,
		PlannerModel:   cfg.PlannerModel,
		ResponseModel:  cfg.ResponseModel,
		ResponsePrompt: cfg.ResponsePrompt,
	})
	if err != nil {
		_ = closeSessions()
		return nil, noop, err
	}

	agent, err := BuildAgent(ctx, Config{
		Planner:   p,
		Responder: r,
		Catalog:   searcher,
		Sessions:  sessions,
		Metrics:   m,
	})
	if err != nil {
		_ = closeSessions()
		return nil, noop, err
	}
	return agent, closeSessions, nil
}
