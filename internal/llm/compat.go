package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	cerebrasBaseURL = "https://api.cerebras.ai/v1"
	cerebrasModel   = "llama-3.3-70b"
)

// CompatClient talks to any endpoint that speaks the OpenAI chat completions
// protocol (Cerebras, vLLM, Ollama, LM Studio).
type CompatClient struct {
	client *openai.Client
	model  string
}

func NewCompatClient(apiKey, baseURL, model string) *CompatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &CompatClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// NewCerebrasClient returns a CompatClient pointed at Cerebras inference.
func NewCerebrasClient(apiKey string) *CompatClient {
	return NewCompatClient(apiKey, cerebrasBaseURL, cerebrasModel)
}

func (c *CompatClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("compat chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("compat chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
