package retrieval

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder converts text into fixed-length numeric vectors suitable for
// similarity comparison. Implementations must be deterministic: identical
// text yields identical vectors for a given model version.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the length of produced vectors.
	Dimension() int
}

// MockEmbedder is a deterministic in-process Embedder for tests and offline
// demos. It hashes lowercased word tokens into a fixed number of buckets and
// L2-normalizes the resulting term-count vector, so texts sharing vocabulary
// land close together under cosine similarity. No randomness is involved.
type MockEmbedder struct {
	dim int
}

// NewMockEmbedder constructs a MockEmbedder with the given dimension
// (64 if dim is not positive).
func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = 64
	}
	return &MockEmbedder{dim: dim}
}

// Dimension implements Embedder.
func (e *MockEmbedder) Dimension() int { return e.dim }

// Embed implements Embedder.
func (e *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%e.dim]++
	}
	normalize(vec)
	return vec, nil
}

// EmbedBatch implements Embedder.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
