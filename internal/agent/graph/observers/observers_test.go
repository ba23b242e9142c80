package observers

import (
	"context"
	"strings"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogUsage(t *testing.T) {
	assert.Zero(t, LogUsage("c1", "plan", "gemini-2.5-flash", nil))
	assert.Zero(t, LogUsage("c1", "plan", "gemini-2.5-flash", schema.AssistantMessage("x", nil)))

	msg := schema.AssistantMessage("x", nil)
	msg.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{
		PromptTokens:     1_000_000,
		CompletionTokens: 1_000_000,
		TotalTokens:      2_000_000,
	}}
	assert.InDelta(t, 2.80, LogUsage("c1", "respond", "google/gemini-2.5-flash", msg), 1e-9)
	assert.Zero(t, LogUsage("c1", "respond", "unknown-model", msg))
}

func TestModelHandlerDoesNotAlterContext(t *testing.T) {
	h := newModelHandler()
	ctx := context.Background()
	info := &einocb.RunInfo{Name: "planner"}

	got := h.OnStart(ctx, info, &model.CallbackInput{Messages: []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("hi"),
	}})
	assert.Equal(t, ctx, got)

	got = h.OnEnd(ctx, info, &model.CallbackOutput{Message: schema.AssistantMessage(strings.Repeat("a", 2*maxLoggedContent), nil)})
	assert.Equal(t, ctx, got)
}

func TestNewAllCallbacks(t *testing.T) {
	require.NotNil(t, NewAllCallbacks())
	assert.Equal(t, "hi", lastUserContent([]*schema.Message{schema.UserMessage(" hi "), schema.AssistantMessage("yo", nil)}))
	assert.Len(t, truncate(strings.Repeat("b", maxLoggedContent+10)), maxLoggedContent+3)
}
