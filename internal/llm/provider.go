package llm

import (
	"fmt"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI           = "openai"
	ProviderAnthropic        = "anthropic"
	ProviderGemini           = "gemini"
	ProviderCerebras         = "cerebras"
	ProviderOpenAICompatible = "openai_compatible"
	ProviderMock             = "mock"
)

// Options carries provider settings beyond the API key.
type Options struct {
	BaseURL string
	Model   string
}

// NewClient creates a judge client based on the provider name.
// Returns an error if the provider is unknown or the API key is empty (except for mock
// and openai_compatible, whose local servers often need no key).
func NewClient(provider, apiKey string, opts Options) (domain.JudgeClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(apiKey), nil

	case ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicClient(apiKey), nil

	case ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiClient(apiKey), nil

	case ProviderCerebras:
		if apiKey == "" {
			return nil, fmt.Errorf("CEREBRAS_API_KEY is required for Cerebras provider")
		}
		return NewCerebrasClient(apiKey), nil

	case ProviderOpenAICompatible:
		if opts.BaseURL == "" || opts.Model == "" {
			return nil, fmt.Errorf("OPENAI_COMPAT_BASE_URL and OPENAI_COMPAT_MODEL are required for openai_compatible provider")
		}
		return NewCompatClient(apiKey, opts.BaseURL, opts.Model), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, anthropic, gemini, cerebras, openai_compatible, mock)", provider)
	}
}
