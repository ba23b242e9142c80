package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	defaultOpenRouterURL = "https://openrouter.ai/api/v1"
)

type Config struct {
	Provider string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	APIKey   string        `envconfig:"LLM_API_KEY"`
	BaseURL  string        `envconfig:"LLM_BASE_URL"`
	Timeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"10s"`
}

// Enabled reports whether a credential is configured. Without one the agent
// runs on its deterministic strategies.
func (c *Config) Enabled() bool {
	return c != nil && strings.TrimSpace(c.APIKey) != ""
}

// ModelSpec selects one model and its sampling parameters.
type ModelSpec struct {
	Name        string
	MaxTokens   int
	Temperature float32
}

// Factory builds chat models that share one provider client.
type Factory struct {
	cfg    Config
	client *genai.Client
}

func NewFactory(ctx context.Context, cfg Config) (*Factory, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("llm: api key is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	f := &Factory{cfg: cfg}
	switch cfg.Provider {
	case ProviderGemini:
		clientCfg := &genai.ClientConfig{
			APIKey:     strings.TrimSpace(cfg.APIKey),
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		}
		if cfg.BaseURL != "" {
			clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
		}
		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			return nil, fmt.Errorf("llm: create gemini client: %w", err)
		}
		f.client = client
	case ProviderOpenRouter:
		if strings.TrimSpace(cfg.BaseURL) == "" {
			f.cfg.BaseURL = defaultOpenRouterURL
		}
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	return f, nil
}

// New returns a chat model for spec on the configured provider.
func (f *Factory) New(ctx context.Context, spec ModelSpec) (einomodel.BaseChatModel, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, fmt.Errorf("llm: model name is empty")
	}
	maxTokens := spec.MaxTokens
	temperature := spec.Temperature

	switch f.cfg.Provider {
	case ProviderGemini:
		m, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client:      f.client,
			Model:       name,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("llm: create gemini model %s: %w", name, err)
		}
		return m, nil
	default:
		m, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
			BaseURL:     strings.TrimRight(f.cfg.BaseURL, "/"),
			APIKey:      strings.TrimSpace(f.cfg.APIKey),
			Model:       name,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     f.cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("llm: create openrouter model %s: %w", name, err)
		}
		return m, nil
	}
}

func (f *Factory) Provider() string {
	return f.cfg.Provider
}
