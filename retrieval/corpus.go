package retrieval

import (
	"fmt"
	"strings"
)

// CourseEntry is one item of the static course corpus. Entries are immutable
// at runtime; in a full deployment this data would come from a course
// database, the catalog below stands in for it.
type CourseEntry struct {
	Code          string   `json:"code"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Credits       int      `json:"credits"`
	Prerequisites []string `json:"prerequisites"`
	Difficulty    string   `json:"difficulty"`
	Topics        []string `json:"topics"`
}

// Text returns the representation embedded into the index: title,
// description and topics concatenated so all searchable signal is captured.
func (e CourseEntry) Text() string {
	return fmt.Sprintf("%s. %s. Topics: %s", e.Title, e.Description, strings.Join(e.Topics, ", "))
}

// DefaultCourseCatalog returns the built-in course corpus.
func DefaultCourseCatalog() []CourseEntry {
	return []CourseEntry{
		{
			Code:        "CS101",
			Title:       "Introduction to Computer Science",
			Description: "Fundamentals of programming, algorithms, and computer systems",
			Credits:     3,
			Difficulty:  "Beginner",
			Topics:      []string{"programming", "algorithms", "computer systems"},
		},
		{
			Code:          "CS201",
			Title:         "Data Structures",
			Description:   "Implementation and analysis of fundamental data structures",
			Credits:       4,
			Prerequisites: []string{"CS101"},
			Difficulty:    "Intermediate",
			Topics:        []string{"data structures", "algorithms", "efficiency"},
		},
		{
			Code:          "CS300",
			Title:         "Database Systems",
			Description:   "Design and implementation of database management systems",
			Credits:       3,
			Prerequisites: []string{"CS201"},
			Difficulty:    "Intermediate",
			Topics:        []string{"databases", "SQL", "data modeling"},
		},
		{
			Code:          "DS200",
			Title:         "Introduction to Data Science",
			Description:   "Foundations of data analysis, statistics, and machine learning",
			Credits:       3,
			Prerequisites: []string{"CS101", "MATH150"},
			Difficulty:    "Intermediate",
			Topics:        []string{"data analysis", "statistics", "machine learning"},
		},
		{
			Code:        "MATH150",
			Title:       "Calculus I",
			Description: "Limits, derivatives, and integrals of single-variable functions",
			Credits:     4,
			Difficulty:  "Intermediate",
			Topics:      []string{"calculus", "mathematics", "functions"},
		},
		{
			Code:          "MATH250",
			Title:         "Linear Algebra",
			Description:   "Vector spaces, matrices, and linear transformations",
			Credits:       3,
			Prerequisites: []string{"MATH150"},
			Difficulty:    "Intermediate",
			Topics:        []string{"linear algebra", "matrices", "mathematics"},
		},
		{
			Code:        "ENG101",
			Title:       "Academic Writing",
			Description: "Principles of effective academic writing and communication",
			Credits:     3,
			Difficulty:  "Beginner",
			Topics:      []string{"writing", "communication", "research"},
		},
		{
			Code:        "BIO101",
			Title:       "Introduction to Biology",
			Description: "Fundamentals of biological systems and processes",
			Credits:     4,
			Difficulty:  "Beginner",
			Topics:      []string{"biology", "life sciences", "cells"},
		},
		{
			Code:        "PSYCH101",
			Title:       "Introduction to Psychology",
			Description: "Survey of human behavior, cognition, and psychological research methods",
			Credits:     3,
			Difficulty:  "Beginner",
			Topics:      []string{"psychology", "behavior", "cognition"},
		},
		{
			Code:          "AI400",
			Title:         "Advanced Machine Learning",
			Description:   "Advanced techniques in machine learning and artificial intelligence",
			Credits:       4,
			Prerequisites: []string{"CS201", "DS200", "MATH250"},
			Difficulty:    "Advanced",
			Topics:        []string{"machine learning", "artificial intelligence", "neural networks"},
		},
		{
			Code:          "FIN201",
			Title:         "Introduction to Finance",
			Description:   "Principles of financial management, investment analysis, and capital markets",
			Credits:       3,
			Prerequisites: []string{"MATH150"},
			Difficulty:    "Intermediate",
			Topics:        []string{"finance", "investment", "capital markets"},
		},
		{
			Code:          "FIN301",
			Title:         "Corporate Finance",
			Description:   "Analysis of financial decision-making within the firm and its impact on shareholders",
			Credits:       3,
			Prerequisites: []string{"FIN201"},
			Difficulty:    "Advanced",
			Topics:        []string{"finance", "corporate strategy", "valuation"},
		},
		{
			Code:        "BUS101",
			Title:       "Introduction to Business",
			Description: "Overview of business principles, management, marketing, and economics",
			Credits:     3,
			Difficulty:  "Beginner",
			Topics:      []string{"business", "management", "marketing"},
		},
		{
			Code:          "BUS220",
			Title:         "Business Analytics",
			Description:   "Application of data analysis techniques to business decision-making",
			Credits:       3,
			Prerequisites: []string{"BUS101", "MATH150"},
			Difficulty:    "Intermediate",
			Topics:        []string{"business", "analytics", "decision-making"},
		},
		{
			Code:        "ECON101",
			Title:       "Principles of Economics",
			Description: "Introduction to micro and macroeconomic principles and policies",
			Credits:     3,
			Difficulty:  "Beginner",
			Topics:      []string{"economics", "markets", "policy"},
		},
	}
}

// CareerPaths maps career interests to recommended course sequences, used by
// the path comparison tool.
func CareerPaths() map[string][]string {
	return map[string][]string{
		"data science":         {"CS101", "MATH150", "DS200", "MATH250", "AI400"},
		"software engineering": {"CS101", "CS201", "MATH150", "CS300"},
		"research":             {"CS101", "MATH150", "MATH250", "BIO101", "ENG101"},
		"business analytics":   {"BUS220", "CS101", "DS200", "MATH150", "BUS101"},
		"psychology":           {"PSYCH101", "BIO101", "ENG101", "DS200"},
		"finance":              {"FIN201", "FIN301", "ECON101", "MATH150", "BUS101"},
		"business":             {"BUS101", "ECON101", "ENG101", "BUS220"},
		"economics":            {"ECON101", "MATH150", "DS200", "FIN201"},
	}
}
