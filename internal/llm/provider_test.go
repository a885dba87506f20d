package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.MaxTokens)
		assert.Equal(t, float32(0), req.Temperature)
		require.Len(t, req.Messages, 1)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  yes \n"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key")
	c.url = srv.URL

	out, err := c.Complete(context.Background(), "q", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "yes", out)
}

func TestOpenAIClient_Complete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[],"error":{"message":"bad model"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key")
	c.url = srv.URL

	_, err := c.Complete(context.Background(), "q", 5, 0)
	assert.ErrorContains(t, err, "bad model")
}

func TestAnthropicClient_Complete_DefaultsMaxTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, anthropicDefaultMaxTokens, req.MaxTokens)
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Sleep research"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("key")
	c.url = srv.URL

	out, err := c.Complete(context.Background(), "q", 0, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "Sleep research", out)
}

func TestGeminiClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 20, req.GenerationConfig.MaxOutputTokens)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"no"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("key")
	c.url = srv.URL

	out, err := c.Complete(context.Background(), "q", 20, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "no", out)
}

func TestGeminiClient_Complete_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewGeminiClient("key")
	c.url = srv.URL

	_, err := c.Complete(context.Background(), "q", 20, 0.3)
	assert.Error(t, err)
}

func TestCompatClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" Yes "}}]}`))
	}))
	defer srv.Close()

	c := NewCompatClient("", srv.URL+"/v1", "local-model")

	out, err := c.Complete(context.Background(), "q", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "Yes", out)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ProviderOpenAI, "", Options{})
	assert.Error(t, err)

	_, err = NewClient(ProviderOpenAICompatible, "", Options{BaseURL: "http://localhost:11434/v1"})
	assert.Error(t, err)

	c, err := NewClient(ProviderOpenAICompatible, "", Options{BaseURL: "http://localhost:11434/v1", Model: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &CompatClient{}, c)

	c, err = NewClient(ProviderMock, "", Options{})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	_, err = NewClient("bogus", "k", Options{})
	assert.Error(t, err)
}

func TestMockClient_ConcurrentCalls(t *testing.T) {
	m := NewMockClient()
	m.ContradictionError = errors.New("boom")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Complete(context.Background(), ContradictionPrompt("a", "b"), ContradictionMaxTokens, ContradictionTemperature)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, m.CallCount(PromptContradiction))
	assert.Equal(t, 0, m.CallCount(PromptThemeName))

	m.Reset()
	assert.Equal(t, 0, m.CallCount(PromptContradiction))
	assert.Nil(t, m.ContradictionError)
}
