package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	"github.com/Harshitk-cp/litsynth/internal/domain"
)

const mockDimensions = 16

// MockClient returns fixed vectors for known texts and a deterministic
// hash-derived vector for everything else.
type MockClient struct {
	mu sync.Mutex

	Vectors map[string][]float32
	Err     error
	// DropLast makes EmbedBatch return one vector fewer than requested.
	DropLast bool

	// Dimensions is the width of hash-derived vectors.
	Dimensions int

	Calls [][]string
}

func NewMockClient() *MockClient {
	return &MockClient{Vectors: make(map[string][]float32), Dimensions: mockDimensions}
}

// Set registers the vector returned for text.
func (c *MockClient) Set(text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Vectors[text] = vec
}

func (c *MockClient) EmbedBatch(ctx context.Context, texts []string, purpose domain.EmbeddingPurpose) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, append([]string(nil), texts...))
	if c.Err != nil {
		return nil, c.Err
	}

	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		if v, ok := c.Vectors[t]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, hashVector(t, c.Dimensions))
	}
	if c.DropLast && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// CallCount returns how many batches were requested.
func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

func hashVector(text string, dims int) []float32 {
	if dims <= 0 {
		dims = mockDimensions
	}
	vec := make([]float32, dims)
	var norm float64
	for i := range vec {
		h := fnv.New32a()
		_, _ = h.Write([]byte{byte(i)})
		_, _ = h.Write([]byte(text))
		v := float64(h.Sum32()%2000)/1000 - 1
		vec[i] = float32(v)
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	n := math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / n)
	}
	return vec
}
