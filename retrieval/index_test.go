package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	emb := NewMockEmbedder(64)

	v1, err := emb.Embed(context.Background(), "machine learning and statistics")
	require.NoError(t, err)
	v2, err := emb.Embed(context.Background(), "machine learning and statistics")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, v1, 64)
}

func TestMockEmbedder_SharedVocabularyScoresHigher(t *testing.T) {
	emb := NewMockEmbedder(64)
	ctx := context.Background()

	query, err := emb.Embed(ctx, "data science statistics")
	require.NoError(t, err)
	near, err := emb.Embed(ctx, "statistics for data science majors")
	require.NoError(t, err)
	far, err := emb.Embed(ctx, "campus poetry traditions")
	require.NoError(t, err)

	assert.Greater(t, CosineSimilarity(query, near), CosineSimilarity(query, far))
}

func TestBuild_NilEmbedder(t *testing.T) {
	_, err := Build(context.Background(), nil, DefaultCourseCatalog())
	require.Error(t, err)
}

func TestIndex_QueryTopK(t *testing.T) {
	ix, err := Build(context.Background(), NewMockEmbedder(64), DefaultCourseCatalog())
	require.NoError(t, err)
	require.Equal(t, len(DefaultCourseCatalog()), ix.Len())

	results, err := ix.Query(context.Background(), "machine learning and data analysis", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, "results must be in non-increasing score order")
	}
}

func TestIndex_QueryEmptyCorpus(t *testing.T) {
	ix, err := Build(context.Background(), NewMockEmbedder(64), []CourseEntry(nil))
	require.NoError(t, err)

	results, err := ix.Query(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndex_QueryValidation(t *testing.T) {
	ix, err := Build(context.Background(), NewMockEmbedder(64), DefaultCourseCatalog())
	require.NoError(t, err)

	_, err = ix.Query(context.Background(), "anything", 0)
	assert.Error(t, err)

	_, err = ix.Query(context.Background(), "   ", 3)
	assert.Error(t, err)
}

func TestIndex_QueryClampsK(t *testing.T) {
	corpus := DefaultCourseCatalog()[:2]
	ix, err := Build(context.Background(), NewMockEmbedder(64), corpus)
	require.NoError(t, err)

	results, err := ix.Query(context.Background(), "programming", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestIndex_TiesBrokenByCorpusOrder(t *testing.T) {
	// Two identical entries embed to the same vector, so their scores tie and
	// the first corpus entry must come back first.
	dup := CourseEntry{Code: "X1", Title: "Same", Description: "Same text", Topics: []string{"same"}}
	dup2 := dup
	dup2.Code = "X2"

	ix, err := Build(context.Background(), NewMockEmbedder(64), []CourseEntry{dup, dup2})
	require.NoError(t, err)

	results, err := ix.Query(context.Background(), "same text", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "X1", results[0].Entry.Code)
	assert.Equal(t, "X2", results[1].Entry.Code)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestCosineSimilarity_Edges(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{0, 0}))
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{0.5, 0.5}, []float32{0.5, 0.5}), 1e-6)
}
