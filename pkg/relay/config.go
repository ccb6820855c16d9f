package relay

// DefaultLanguage is the answer language used when Config.Language is empty.
const DefaultLanguage = "Korean"

// Config holds the forwarding parameters applied to every chat request.
type Config struct {
	// Model is the upstream model identifier. Required.
	Model string

	// MaxTokens caps the completion length. Zero leaves it to the upstream.
	MaxTokens int

	// Temperature is the sampling temperature sent with every request.
	Temperature float64

	// Language is the language the persona is instructed to answer in.
	Language string

	// SystemPrompt replaces the built-in persona when non-empty.
	SystemPrompt string

	// ProviderName labels upstream metrics. Defaults to "openai".
	ProviderName string
}

func (c Config) providerName() string {
	if c.ProviderName == "" {
		return "openai"
	}
	return c.ProviderName
}
