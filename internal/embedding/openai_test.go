package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_EmbedBatch_ReordersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Input)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key", Options{})
	c.url = srv.URL

	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "b"}, domain.EmbeddingPurposeFinding)
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0}, vecs[0])
	assert.Equal(t, []float32{0, 1}, vecs[1])
}

func TestOpenAIClient_EmbedBatch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key", Options{})
	c.url = srv.URL

	_, err := c.EmbedBatch(context.Background(), []string{"a"}, domain.EmbeddingPurposeFinding)
	assert.Error(t, err)
}

func TestOpenAIClient_EmbedBatch_Empty(t *testing.T) {
	c := NewOpenAIClient("key", Options{})
	vecs, err := c.EmbedBatch(context.Background(), nil, domain.EmbeddingPurposeFinding)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestMockClient_Deterministic(t *testing.T) {
	c := NewMockClient()
	c.Set("known", []float32{1, 0})

	a, err := c.EmbedBatch(context.Background(), []string{"known", "other"}, domain.EmbeddingPurposeFinding)
	require.NoError(t, err)
	b, err := c.EmbedBatch(context.Background(), []string{"known", "other"}, domain.EmbeddingPurposeFinding)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 0}, a[0])
	assert.Equal(t, a[1], b[1])
	assert.Len(t, a[1], mockDimensions)
	assert.Equal(t, 2, c.CallCount())
}

func TestMockClient_DropLast(t *testing.T) {
	c := NewMockClient()
	c.DropLast = true

	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "b"}, domain.EmbeddingPurposeFinding)
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
}

func TestOpenAIClient_EmbedBatch_UsesOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, 8, req.Dimensions)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("", Options{BaseURL: srv.URL + "/v1/", Model: "nomic-embed-text", Dimensions: 8})
	vecs, err := c.EmbedBatch(context.Background(), []string{"a"}, domain.EmbeddingPurposeFinding)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}}, vecs)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		key      string
		opts     Options
		wantErr  bool
	}{
		{name: "openai", provider: ProviderOpenAI, key: "k"},
		{name: "openai without key", provider: ProviderOpenAI, wantErr: true},
		{name: "keyless gateway", provider: ProviderOpenAI, opts: Options{BaseURL: "http://localhost:11434/v1"}},
		{name: "relative base url", provider: ProviderOpenAI, key: "k", opts: Options{BaseURL: "localhost/v1"}, wantErr: true},
		{name: "negative dimensions", provider: ProviderOpenAI, key: "k", opts: Options{Dimensions: -1}, wantErr: true},
		{name: "mock", provider: ProviderMock},
		{name: "mock with model", provider: ProviderMock, opts: Options{Model: "text-embedding-3-small"}, wantErr: true},
		{name: "unknown", provider: "bogus", key: "k", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.provider, tt.key, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNewClient_MockDimensions(t *testing.T) {
	c, err := NewClient(ProviderMock, "", Options{Dimensions: 4})
	require.NoError(t, err)

	vecs, err := c.EmbedBatch(context.Background(), []string{"x"}, domain.EmbeddingPurposeFinding)
	require.NoError(t, err)
	assert.Len(t, vecs[0], 4)
}
