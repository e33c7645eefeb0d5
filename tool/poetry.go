package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusdesk/campusdesk/retrieval"
)

// inspirationThreshold is the minimum similarity score for a campus corpus
// match to count as inspiration. Weaker matches read as non sequiturs in the
// poet's output.
const inspirationThreshold = 0.4

// PoetTools bundles the poet's capability set: semantic inspiration lookups
// over the campus corpus plus tradition descriptions.
func PoetTools(index *retrieval.Index[retrieval.CampusEntry], corpus []retrieval.CampusEntry) []Tool {
	return []Tool{
		NewPoetryInspirationTool(index),
		NewDescribeTraditionTool(corpus),
	}
}

// NewPoetryInspirationTool creates the semantic inspiration tool. It embeds
// the requested topic and returns the closest campus location or tradition
// with its description and themes, which the poet weaves into verse.
func NewPoetryInspirationTool(index *retrieval.Index[retrieval.CampusEntry]) *FunctionTool {
	return NewFunctionTool(
		"get_poetry_inspiration",
		"Get poetic inspiration about a campus location or tradition using semantic search",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{"type": "string", "description": "The topic to get inspiration about, e.g. 'the library'"},
			},
			"required": []string{"topic"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			topic, _ := args["topic"].(string)

			results, err := index.Query(ctx, topic, 1)
			if err != nil {
				return nil, err
			}
			if len(results) == 0 || results[0].Score < inspirationThreshold {
				return fmt.Sprintf("I don't have specific inspiration for '%s'. Would you like me to write about another campus location or tradition instead?", topic), nil
			}

			match := results[0]
			return fmt.Sprintf("Inspiration for %s (match: %.2f):\n%s\n\nThemes: %s",
				match.Entry.Name, match.Score, match.Entry.Description, strings.Join(match.Entry.Themes, ", ")), nil
		},
	)
}

// NewDescribeTraditionTool creates an exact-name lookup over the tradition
// half of the corpus. Unknown traditions get a gentle redirect rather than
// an error.
func NewDescribeTraditionTool(corpus []retrieval.CampusEntry) *FunctionTool {
	byName := make(map[string]retrieval.CampusEntry)
	names := make([]string, 0, len(corpus))
	for _, entry := range corpus {
		if entry.Kind != retrieval.CampusKindTradition {
			continue
		}
		byName[entry.Name] = entry
		names = append(names, entry.Name)
	}

	return NewFunctionTool(
		"describe_campus_tradition",
		"Describe a university tradition and the themes a poem about it could draw on",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tradition": map[string]any{"type": "string", "description": "The tradition to describe, e.g. 'homecoming'"},
			},
			"required": []string{"tradition"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			name, _ := args["tradition"].(string)
			entry, ok := byName[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return fmt.Sprintf("I don't know the tradition '%s'. Traditions I can describe: %s.", name, strings.Join(names, ", ")), nil
			}
			return fmt.Sprintf("%s: %s\n\nThemes to draw on: %s", entry.Name, entry.Description, strings.Join(entry.Themes, ", ")), nil
		},
	)
}
