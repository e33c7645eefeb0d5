package retrieval

import (
	"fmt"
	"strings"
)

// Campus entry kinds.
const (
	CampusKindLocation  = "location"
	CampusKindTradition = "tradition"
)

// CampusEntry is one item of the static campus corpus: a physical location or
// a recurring tradition, described in the evocative register the poet agent
// draws on. Like the course catalog, this data stands in for a live source.
type CampusEntry struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Themes      []string `json:"themes"`
}

// Text returns the representation embedded into the index.
func (e CampusEntry) Text() string {
	return fmt.Sprintf("%s: %s. Themes: %s", e.Name, e.Description, strings.Join(e.Themes, ", "))
}

// DefaultCampusCorpus returns the built-in corpus of campus locations and
// university traditions.
func DefaultCampusCorpus() []CampusEntry {
	return []CampusEntry{
		{
			Name:        "library",
			Kind:        CampusKindLocation,
			Description: "Vast halls of knowledge with towering shelves and quiet study nooks",
			Themes:      []string{"knowledge", "silence", "focus", "books", "learning", "discovery"},
		},
		{
			Name:        "quad",
			Kind:        CampusKindLocation,
			Description: "Open grassy area surrounded by academic buildings and pathways",
			Themes:      []string{"nature", "community", "relaxation", "seasons", "gathering", "sunshine"},
		},
		{
			Name:        "student center",
			Kind:        CampusKindLocation,
			Description: "Buzzing hub of activity with lounges, food, and meeting spaces",
			Themes:      []string{"community", "energy", "friendship", "food", "activity", "conversation"},
		},
		{
			Name:        "cafeteria",
			Kind:        CampusKindLocation,
			Description: "Lively space filled with aromas, conversations, and diverse cuisines",
			Themes:      []string{"food", "community", "diversity", "energy", "sustenance", "gathering"},
		},
		{
			Name:        "dormitory",
			Kind:        CampusKindLocation,
			Description: "Homely buildings where students build community and memories",
			Themes:      []string{"home", "friendship", "growth", "late nights", "community", "memories"},
		},
		{
			Name:        "lecture hall",
			Kind:        CampusKindLocation,
			Description: "Tiered seating facing a podium where knowledge is shared",
			Themes:      []string{"learning", "wisdom", "attention", "enlightenment", "notes", "questions"},
		},
		{
			Name:        "laboratory",
			Kind:        CampusKindLocation,
			Description: "Room filled with equipment where discovery and experimentation happen",
			Themes:      []string{"discovery", "curiosity", "science", "exploration", "precision", "breakthrough"},
		},
		{
			Name:        "sports field",
			Kind:        CampusKindLocation,
			Description: "Open area where athletic achievement and team spirit flourish",
			Themes:      []string{"competition", "teamwork", "strength", "victory", "determination", "fitness"},
		},
		{
			Name:        "art studio",
			Kind:        CampusKindLocation,
			Description: "Creative space filled with colors, textures, and artistic expression",
			Themes:      []string{"creativity", "expression", "beauty", "inspiration", "color", "perspective"},
		},
		{
			Name:        "campus garden",
			Kind:        CampusKindLocation,
			Description: "Tranquil green space with seasonal blooms and quiet contemplation spots",
			Themes:      []string{"nature", "peace", "growth", "beauty", "seasons", "reflection"},
		},
		{
			Name:        "freshman orientation",
			Kind:        CampusKindTradition,
			Description: "Week-long introduction to university life for new students",
			Themes:      []string{"beginnings", "community", "excitement", "nervousness", "potential"},
		},
		{
			Name:        "graduation ceremony",
			Kind:        CampusKindTradition,
			Description: "Formal celebration of academic achievement and transition",
			Themes:      []string{"accomplishment", "endings", "beginnings", "pride", "transition"},
		},
		{
			Name:        "homecoming",
			Kind:        CampusKindTradition,
			Description: "Annual celebration welcoming alumni back to campus",
			Themes:      []string{"tradition", "community", "celebration", "nostalgia", "school spirit"},
		},
		{
			Name:        "final exams",
			Kind:        CampusKindTradition,
			Description: "Intensive period of academic assessment and late-night studying",
			Themes:      []string{"stress", "determination", "knowledge", "caffeine", "focus"},
		},
		{
			Name:        "spring break",
			Kind:        CampusKindTradition,
			Description: "Week-long pause in academic calendar for rest and rejuvenation",
			Themes:      []string{"freedom", "relaxation", "adventure", "escape", "sunshine"},
		},
		{
			Name:        "campus concert",
			Kind:        CampusKindTradition,
			Description: "Musical performances that bring the campus community together",
			Themes:      []string{"music", "unity", "expression", "energy", "memory-making"},
		},
		{
			Name:        "midnight breakfast",
			Kind:        CampusKindTradition,
			Description: "Late-night meal served by faculty during finals week",
			Themes:      []string{"comfort", "support", "community", "stress relief", "unexpected joy"},
		},
		{
			Name:        "research symposium",
			Kind:        CampusKindTradition,
			Description: "Event where students present original research and discoveries",
			Themes:      []string{"discovery", "achievement", "knowledge", "presentation", "pride"},
		},
	}
}
