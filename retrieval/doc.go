// Package retrieval implements the semantic retrieval fallback used to ground
// course recommendations when no live course database is wired in. It holds a
// small static corpus of course descriptions, embeds each entry once at
// startup through a pluggable Embedder, and exposes cosine nearest-neighbor
// lookup over the resulting vectors.
//
// The index is immutable after Build and safe for unsynchronized concurrent
// reads. Determinism is part of the contract: embedding the same text with
// the same embedder always yields the same vector, and ties in similarity are
// broken by corpus order.
package retrieval
