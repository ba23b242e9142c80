package graph

import (
	"context"
	"fmt"

	"github.com/Chative-restaurant-poc/server/internal/agent/graph/planner"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/responder"
	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
	"github.com/Chative-restaurant-poc/server/pkg/llm"
)

// StrategyConfig gathers the settings that decide how turns are planned and rendered.
type StrategyConfig struct {
	LLM            llm.Config
	PlannerModel   model.PlannerModelConfig
	ResponseModel  model.ResponseModelConfig
	ResponsePrompt model.ResponsePromptConfig
}

// NewStrategies picks the planner and responder once, at construction. With a
// configured model both are model-backed; without one the keyword planner and
// template responder are used.
func NewStrategies(ctx context.Context, cfg StrategyConfig) (planner.Planner, responder.Responder, error) {
	if !cfg.LLM.Enabled() {
		logx.Info().Msg("No LLM credential configured; using keyword planner and template responder")
		return planner.NewKeyword(), responder.NewTemplate(cfg.ResponsePrompt), nil
	}

	factory, err := llm.NewFactory(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, err
	}

	plannerModel, err := factory.New(ctx, llm.ModelSpec{
		Name:        cfg.PlannerModel.Model,
		MaxTokens:   cfg.PlannerModel.MaxTokens,
		Temperature: cfg.PlannerModel.Temperature,
	})
	if err != nil {
		return nil, nil, err
	}
	responseModel, err := factory.New(ctx, llm.ModelSpec{
		Name:        cfg.ResponseModel.Model,
		MaxTokens:   cfg.ResponseModel.MaxTokens,
		Temperature: cfg.ResponseModel.Temperature,
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := planner.NewLLM(ctx, plannerModel, cfg.PlannerModel.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("build llm planner: %w", err)
	}
	r, err := responder.NewLLM(ctx, responseModel, cfg.ResponseModel.Model, cfg.ResponsePrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("build llm responder: %w", err)
	}

	logx.Info().
		Str("provider", factory.Provider()).
		Str("planner_model", cfg.PlannerModel.Model).
		Str("response_model", cfg.ResponseModel.Model).
		Msg("Using LLM planner and responder")
	return p, r, nil
}
