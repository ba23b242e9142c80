package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	assert.False(t, (&Config{}).Enabled())
	assert.False(t, (&Config{APIKey: "   "}).Enabled())
	assert.True(t, (&Config{APIKey: "k"}).Enabled())

	var nilCfg *Config
	assert.False(t, nilCfg.Enabled())
}

func TestNewFactoryRejectsMissingKeyAndUnknownProvider(t *testing.T) {
	_, err := NewFactory(context.Background(), Config{Provider: ProviderGemini})
	assert.Error(t, err)

	_, err = NewFactory(context.Background(), Config{Provider: "claude", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown provider")
}

func TestOpenRouterFactoryDefaultsBaseURL(t *testing.T) {
	f, err := NewFactory(context.Background(), Config{Provider: " OpenRouter ", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenRouter, f.Provider())
	assert.Equal(t, defaultOpenRouterURL, f.cfg.BaseURL)

	m, err := f.New(context.Background(), ModelSpec{Name: "google/gemini-2.5-flash", MaxTokens: 100})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = f.New(context.Background(), ModelSpec{})
	assert.Error(t, err)
}
