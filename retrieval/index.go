package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Document is anything the index can embed: it renders itself to the text
// that carries its searchable signal.
type Document interface {
	Text() string
}

// Result is a single nearest-neighbor match. Score is cosine similarity in
// [-1, 1]; with non-negative embeddings it lands in [0, 1].
type Result[T Document] struct {
	Entry T
	Score float32
}

// Index holds one precomputed embedding per corpus entry and answers top-k
// similarity queries. Build it once at process start; afterwards it is
// read-only and safe for concurrent use.
type Index[T Document] struct {
	embedder Embedder
	entries  []T
	vectors  [][]float32
}

// Build embeds every corpus entry with the given embedder and returns the
// ready index. An embedder failure here is a startup-fatal condition, not a
// per-query error. An empty corpus is allowed and yields an index whose
// queries return empty results.
func Build[T Document](ctx context.Context, embedder Embedder, entries []T) (*Index[T], error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder must not be nil")
	}

	ix := &Index[T]{embedder: embedder, entries: append([]T(nil), entries...)}
	if len(ix.entries) == 0 {
		return ix, nil
	}

	texts := make([]string, len(ix.entries))
	for i, entry := range ix.entries {
		texts[i] = entry.Text()
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(ix.entries) {
		return nil, fmt.Errorf("expected %d corpus embeddings, got %d", len(ix.entries), len(vectors))
	}
	ix.vectors = vectors
	return ix, nil
}

// Len returns the number of indexed entries.
func (ix *Index[T]) Len() int { return len(ix.entries) }

// Query embeds the query text and returns the k highest-scoring entries in
// descending similarity order, ties broken by corpus order. k must be
// positive; values larger than the corpus are clamped. An empty corpus
// returns an empty result rather than an error.
func (ix *Index[T]) Query(ctx context.Context, text string, k int) ([]Result[T], error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("query text must not be empty")
	}
	if len(ix.entries) == 0 {
		return []Result[T]{}, nil
	}
	if k > len(ix.entries) {
		k = len(ix.entries)
	}

	queryVec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]Result[T], len(ix.entries))
	for i := range ix.entries {
		results[i] = Result[T]{Entry: ix.entries[i], Score: CosineSimilarity(queryVec, ix.vectors[i])}
	}
	// Stable sort keeps corpus order for equal scores.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	return results[:k], nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
