package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/campusdesk/campusdesk/retrieval"
)

// CourseTools bundles the course advisor's capability set: semantic
// recommendations over the retrieval index plus catalog lookups.
func CourseTools(index *retrieval.Index[retrieval.CourseEntry], catalog []retrieval.CourseEntry) []Tool {
	return []Tool{
		NewRecommendCoursesTool(index),
		NewCourseInfoTool(catalog),
		NewCheckPrerequisitesTool(catalog),
		NewComparePathsTool(catalog),
	}
}

// NewRecommendCoursesTool creates the semantic recommendation tool. It embeds
// the student's stated interest and returns the closest catalog entries with
// similarity scores, standing in for a live recommendation source.
func NewRecommendCoursesTool(index *retrieval.Index[retrieval.CourseEntry]) *FunctionTool {
	return NewFunctionTool(
		"recommend_courses",
		"Recommend courses matching a student's interest area using semantic search over the course catalog",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"interest": map[string]any{"type": "string", "description": "The student's interest area, e.g. 'data science'"},
				"count":    map[string]any{"type": "integer", "description": "Number of courses to recommend (default 3)"},
			},
			"required": []string{"interest"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			interest, _ := args["interest"].(string)
			count := 3
			if c, ok := args["count"].(float64); ok && c > 0 {
				count = int(c)
			}

			results, err := index.Query(ctx, interest, count)
			if err != nil {
				return nil, err
			}
			if len(results) == 0 {
				return "No courses are indexed yet, so I cannot make a recommendation.", nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Based on your interest in %s, here are some recommended courses:\n\n", interest)
			for _, r := range results {
				e := r.Entry
				fmt.Fprintf(&b, "- %s: %s (similarity %.2f)\n  %s\n  Difficulty: %s, Credits: %d\n\n",
					e.Code, e.Title, r.Score, e.Description, e.Difficulty, e.Credits)
			}
			return b.String(), nil
		},
	)
}

// NewCourseInfoTool creates a catalog lookup tool for a single course.
func NewCourseInfoTool(catalog []retrieval.CourseEntry) *FunctionTool {
	byCode := indexByCode(catalog)
	return NewFunctionTool(
		"get_course_info",
		"Get detailed information about a specific course by its code",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_code": map[string]any{"type": "string", "description": "The course code, e.g. 'CS101'"},
			},
			"required": []string{"course_code"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			code := normalizeCode(args["course_code"])
			course, ok := byCode[code]
			if !ok {
				return fmt.Sprintf("Course %s not found in catalog.", code), nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s: %s\n%s\nCredits: %d\nDifficulty: %s\nTopics: %s\n",
				course.Code, course.Title, course.Description, course.Credits, course.Difficulty, strings.Join(course.Topics, ", "))
			if len(course.Prerequisites) > 0 {
				fmt.Fprintf(&b, "Prerequisites: %s\n", formatPrereqs(course.Prerequisites, byCode))
			} else {
				b.WriteString("Prerequisites: none\n")
			}
			return b.String(), nil
		},
	)
}

// NewCheckPrerequisitesTool creates a tool answering what a course requires.
func NewCheckPrerequisitesTool(catalog []retrieval.CourseEntry) *FunctionTool {
	byCode := indexByCode(catalog)
	return NewFunctionTool(
		"check_course_prerequisites",
		"List the prerequisites required before enrolling in a course",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_code": map[string]any{"type": "string", "description": "The course code, e.g. 'CS201'"},
			},
			"required": []string{"course_code"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			code := normalizeCode(args["course_code"])
			course, ok := byCode[code]
			if !ok {
				return fmt.Sprintf("Course %s not found in catalog.", code), nil
			}
			if len(course.Prerequisites) == 0 {
				return fmt.Sprintf("%s (%s) has no prerequisites.", code, course.Title), nil
			}
			return fmt.Sprintf("%s (%s) requires: %s.", code, course.Title, formatPrereqs(course.Prerequisites, byCode)), nil
		},
	)
}

// NewComparePathsTool creates a tool comparing two career paths course by course.
func NewComparePathsTool(catalog []retrieval.CourseEntry) *FunctionTool {
	byCode := indexByCode(catalog)
	paths := retrieval.CareerPaths()
	return NewFunctionTool(
		"compare_course_paths",
		"Compare the recommended course sequences of two career paths",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path1": map[string]any{"type": "string", "description": "First career path, e.g. 'data science'"},
				"path2": map[string]any{"type": "string", "description": "Second career path, e.g. 'finance'"},
			},
			"required": []string{"path1", "path2"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			p1, _ := args["path1"].(string)
			p2, _ := args["path2"].(string)

			var b strings.Builder
			for _, name := range []string{p1, p2} {
				key := strings.ToLower(strings.TrimSpace(name))
				codes, ok := paths[key]
				if !ok {
					fmt.Fprintf(&b, "No curated path for %q. Known paths: %s.\n", name, strings.Join(knownPaths(paths), ", "))
					continue
				}
				fmt.Fprintf(&b, "Path %q:\n", key)
				for _, code := range codes {
					if course, ok := byCode[code]; ok {
						fmt.Fprintf(&b, "- %s: %s (%s)\n", code, course.Title, course.Difficulty)
					} else {
						fmt.Fprintf(&b, "- %s\n", code)
					}
				}
				b.WriteString("\n")
			}
			return b.String(), nil
		},
	)
}

func indexByCode(catalog []retrieval.CourseEntry) map[string]retrieval.CourseEntry {
	byCode := make(map[string]retrieval.CourseEntry, len(catalog))
	for _, entry := range catalog {
		byCode[entry.Code] = entry
	}
	return byCode
}

func normalizeCode(v any) string {
	code, _ := v.(string)
	return strings.ToUpper(strings.TrimSpace(code))
}

func formatPrereqs(codes []string, byCode map[string]retrieval.CourseEntry) string {
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		if course, ok := byCode[code]; ok {
			parts = append(parts, fmt.Sprintf("%s (%s)", code, course.Title))
		} else {
			parts = append(parts, code)
		}
	}
	return strings.Join(parts, ", ")
}

func knownPaths(paths map[string][]string) []string {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
