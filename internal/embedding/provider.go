package embedding

import (
	"fmt"
	"net/url"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Options tunes the embedding backend. Zero values select the defaults.
type Options struct {
	// Model overrides text-embedding-3-small.
	Model string
	// BaseURL points the OpenAI client at a compatible /v1/embeddings
	// endpoint, such as a local gateway.
	BaseURL string
	// Dimensions truncates vectors server-side for OpenAI, and sets the
	// vector width of the mock.
	Dimensions int
}

// NewClient creates the embedder for a synthesis run.
//
// Every finding of a run must live in one vector space, so options that
// only make sense for another provider are rejected rather than ignored.
func NewClient(provider, apiKey string, opts Options) (domain.EmbeddingClient, error) {
	if opts.Dimensions < 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", opts.Dimensions)
	}

	switch provider {
	case ProviderOpenAI:
		if apiKey == "" && opts.BaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI embedding provider")
		}
		if opts.BaseURL != "" {
			u, err := url.Parse(opts.BaseURL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, fmt.Errorf("EMBEDDING_BASE_URL must be an absolute http(s) URL, got %q", opts.BaseURL)
			}
		}
		return NewOpenAIClient(apiKey, opts), nil

	case ProviderMock:
		if opts.Model != "" || opts.BaseURL != "" {
			return nil, fmt.Errorf("mock embedding provider takes no model or base URL")
		}
		c := NewMockClient()
		if opts.Dimensions > 0 {
			c.Dimensions = opts.Dimensions
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (valid options: openai, mock)", provider)
	}
}
