package config

const (
	defaultProvider = "openai"
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-3.5-turbo"

	// LLM responses can be slow
	defaultTimeout = "5m"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			Provider: defaultProvider,
			Endpoint: defaultEndpoint,
			Model:    defaultModel,
			Timeout:  defaultTimeout,
		},
	}
}
