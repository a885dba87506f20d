package llm

import (
	"context"
	"sync"
)

// MockClient is a configurable judge for testing.
// Set the response fields to control what each prompt kind returns.
// It is safe for concurrent use because the engine fans out judge calls.
type MockClient struct {
	mu sync.Mutex

	ThemeNameResponse     string
	ThemeNameError        error
	ContradictionResponse string
	ContradictionError    error
	ExplanationResponse   string
	ExplanationError      error
	GapResponse           string
	GapError              error

	// Responder, when set, overrides the fields above.
	Responder func(kind PromptKind, prompt string) (string, error)

	// Call tracking for assertions
	Calls map[PromptKind][]string
}

func NewMockClient() *MockClient {
	return &MockClient{
		ThemeNameResponse:     "Mock theme",
		ContradictionResponse: "no",
		ExplanationResponse:   "Mock explanation.",
		GapResponse:           "Replicate with larger samples\nStudy long-term effects",
		Calls:                 make(map[PromptKind][]string),
	}
}

func (c *MockClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	kind := KindOf(prompt)

	c.mu.Lock()
	c.Calls[kind] = append(c.Calls[kind], prompt)
	responder := c.Responder
	c.mu.Unlock()

	if responder != nil {
		return responder(kind, prompt)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case PromptThemeName:
		return c.ThemeNameResponse, c.ThemeNameError
	case PromptContradiction:
		return c.ContradictionResponse, c.ContradictionError
	case PromptExplanation:
		return c.ExplanationResponse, c.ExplanationError
	case PromptGapDirections:
		return c.GapResponse, c.GapError
	default:
		return "", nil
	}
}

// CallCount returns how many prompts of kind were issued.
func (c *MockClient) CallCount(kind PromptKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls[kind])
}

// Reset clears all recorded calls and resets responses to defaults.
func (c *MockClient) Reset() {
	fresh := NewMockClient()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ThemeNameResponse = fresh.ThemeNameResponse
	c.ThemeNameError = nil
	c.ContradictionResponse = fresh.ContradictionResponse
	c.ContradictionError = nil
	c.ExplanationResponse = fresh.ExplanationResponse
	c.ExplanationError = nil
	c.GapResponse = fresh.GapResponse
	c.GapError = nil
	c.Responder = nil
	c.Calls = fresh.Calls
}
