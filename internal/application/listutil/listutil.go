// Package listutil parses the filter parameters the list screens accept and
// applies them to the most recently fetched snapshots. Filtering is purely
// client-side; the authoritative lists always come from the remote API.
package listutil

import (
	"net/url"
	"strings"
)

// FilterParams carries search and filter parameters for a list screen.
type FilterParams struct {
	Search  string            // free-text search query
	Filters map[string]string // exact-match filters (e.g. weekday=LUNES)
}

// ParseFilterParams extracts search and named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// MatchesSearch reports whether value matches the free-text query,
// case-insensitively. An empty query matches everything.
func MatchesSearch(value, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

// Filter returns the elements of items accepted by keep, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
