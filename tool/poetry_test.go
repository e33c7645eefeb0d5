package tool

import (
	"context"
	"testing"

	"github.com/campusdesk/campusdesk/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCampusIndex(t *testing.T) *retrieval.Index[retrieval.CampusEntry] {
	t.Helper()
	ix, err := retrieval.Build(context.Background(), retrieval.NewMockEmbedder(64), retrieval.DefaultCampusCorpus())
	require.NoError(t, err)
	return ix
}

func TestPoetryInspirationTool(t *testing.T) {
	ft := NewPoetryInspirationTool(buildCampusIndex(t))

	out, err := ft.Call(context.Background(), map[string]any{"topic": "quiet library books knowledge study focus"})
	require.NoError(t, err)
	text := out.(string)
	assert.Contains(t, text, "Inspiration for library")
	assert.Contains(t, text, "Vast halls of knowledge")
	assert.Contains(t, text, "Themes:")
}

func TestPoetryInspirationTool_NoMatchBelowThreshold(t *testing.T) {
	ft := NewPoetryInspirationTool(buildCampusIndex(t))

	out, err := ft.Call(context.Background(), map[string]any{"topic": "quarterly tax filings"})
	require.NoError(t, err)
	assert.Contains(t, out.(string), "I don't have specific inspiration for 'quarterly tax filings'")
}

func TestPoetryInspirationTool_RequiresTopic(t *testing.T) {
	ft := NewPoetryInspirationTool(buildCampusIndex(t))

	_, err := ft.Call(context.Background(), map[string]any{})
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "VALIDATION_ERROR", te.Code)
}

func TestDescribeTraditionTool(t *testing.T) {
	ft := NewDescribeTraditionTool(retrieval.DefaultCampusCorpus())

	out, err := ft.Call(context.Background(), map[string]any{"tradition": "Homecoming"})
	require.NoError(t, err)
	text := out.(string)
	assert.Contains(t, text, "homecoming: Annual celebration welcoming alumni back to campus")
	assert.Contains(t, text, "nostalgia")
}

func TestDescribeTraditionTool_UnknownTradition(t *testing.T) {
	ft := NewDescribeTraditionTool(retrieval.DefaultCampusCorpus())

	out, err := ft.Call(context.Background(), map[string]any{"tradition": "tuition hikes"})
	require.NoError(t, err)
	text := out.(string)
	assert.Contains(t, text, "I don't know the tradition 'tuition hikes'")
	assert.Contains(t, text, "midnight breakfast")
}
