package registry

import (
	"slices"
	"strings"
)

// SearchOptions configures entry search filtering.
type SearchOptions struct {
	// Kind filters by entry kind. Empty string matches all kinds.
	Kind Kind
	// Source filters by source name. Empty string matches all sources.
	Source string
}

// Search finds entries matching the query and filter options.
// Matching is case-insensitive against Name, Triggers, and Description.
// An empty query returns all entries (subject to filters).
// Results are sorted by match quality (exact name > name prefix > name
// substring > trigger match > description-only).
func Search(entries []Entry, query string, opts SearchOptions) []Entry {
	query = strings.ToLower(query)

	var results []Entry
	for _, e := range entries {
		if !matchesFilters(e, opts) {
			continue
		}
		if query == "" || matchesQuery(e, query) {
			results = append(results, e)
		}
	}

	// Sort by score descending (higher score = better match)
	slices.SortFunc(results, func(a, b Entry) int {
		scoreA := scoreMatch(a, query)
		scoreB := scoreMatch(b, query)
		// Descending order: higher score first
		return scoreB - scoreA
	})

	return results
}

// matchesFilters checks if an entry passes the filter criteria.
func matchesFilters(e Entry, opts SearchOptions) bool {
	if opts.Kind != "" && e.Kind != opts.Kind {
		return false
	}
	if opts.Source != "" && e.Source != opts.Source {
		return false
	}
	return true
}

// matchesQuery checks if an entry matches the search query.
// Matching is case-insensitive substring matching against Name, Triggers,
// and Description.
func matchesQuery(e Entry, query string) bool {
	name := strings.ToLower(e.Name)
	desc := strings.ToLower(e.Description)
	return strings.Contains(name, query) || matchesTrigger(e, query) || strings.Contains(desc, query)
}

// matchesTrigger checks if any trigger contains the query.
func matchesTrigger(e Entry, query string) bool {
	for _, t := range e.Triggers {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

// scoreMatch returns a score indicating match quality.
// Higher scores indicate better matches.
//
// Scoring:
//   - 100: Exact name match
//   - 75: Name starts with query (prefix match)
//   - 50: Name contains query
//   - 35: A trigger contains query (but name doesn't)
//   - 25: Description contains query (but name and triggers don't)
//   - 0: No match or empty query
func scoreMatch(e Entry, query string) int {
	if query == "" {
		return 0
	}

	name := strings.ToLower(e.Name)
	desc := strings.ToLower(e.Description)

	// Exact name match scores highest
	if name == query {
		return 100
	}

	// Name prefix match scores high
	if strings.HasPrefix(name, query) {
		return 75
	}

	// Name contains query scores medium
	if strings.Contains(name, query) {
		return 50
	}

	// Trigger match outranks description-only
	if matchesTrigger(e, query) {
		return 35
	}

	// Description-only match scores lowest
	if strings.Contains(desc, query) {
		return 25
	}

	return 0
}
