package model

// ================ Config ================
type SessionConfig struct {
	Store string `envconfig:"SESSION_STORE" default:"memory"`
	TTL   string `envconfig:"SESSION_TTL" default:"30m"`
}

type PlannerModelConfig struct {
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"800"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.0"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.2"`
}

type ResponsePromptConfig struct {
	RestaurantName string `envconfig:"PROMPT_RESTAURANT_NAME" default:"Slice & Stack"`
	Currency       string `envconfig:"PROMPT_CURRENCY" default:"₹"`
}

type CatalogConfig struct {
	URL     string `envconfig:"CATALOG_URL"`
	Path    string `envconfig:"CATALOG_PATH" default:"data/menu.json"`
	Timeout string `envconfig:"CATALOG_TIMEOUT" default:"10s"`
}
