package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

//go:embed template/planner_prompt.txt
var plannerSystemPrompt string

//go:embed template/response_prompt.txt
var responseSystemPrompt string

// Categories is the preferred display order of menu categories.
var Categories = []string{"Pizza", "Burger", "Fries", "Drinks", "Dessert", "Wrap", "Bowl", "Sides", "Beverage"}

// RenderPlannerSystem renders the planner system prompt with the known categories.
func RenderPlannerSystem(ctx context.Context) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(plannerSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Categories": strings.Join(Categories, "|"),
	})
	if err != nil {
		return "", fmt.Errorf("planner prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("planner prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderResponseSystem renders the response style prompt for the configured restaurant.
func RenderResponseSystem(ctx context.Context, config model.ResponsePromptConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(responseSystemPrompt),
	)
	vars := map[string]any{
		"RestaurantName": config.RestaurantName,
		"Currency":       config.Currency,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("response prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("response prompt render: empty result")
	}
	return msgs[0].Content, nil
}
