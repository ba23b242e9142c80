package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

func TestRenderPlannerSystem(t *testing.T) {
	out, err := RenderPlannerSystem(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out, `"action": "greet" | "browse_menu" | "add_to_cart" | "show_cart"`)
	assert.Contains(t, out, `"category": "<Pizza|Burger|Fries|Drinks|Dessert|Wrap|Bowl|Sides|Beverage|null>"`)
	assert.Contains(t, out, `"filters": {`)
	assert.NotContains(t, out, "{{")
}

func TestRenderResponseSystem(t *testing.T) {
	out, err := RenderResponseSystem(context.Background(), model.ResponsePromptConfig{
		RestaurantName: "Slice & Stack",
		Currency:       "₹",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "ordering assistant for Slice & Stack")
	assert.Contains(t, out, "₹price")
	assert.NotContains(t, out, "{{")
}
