// ABOUTME: Client-side filtering of entity lists
// ABOUTME: Free-text search, status and one entity-specific facet

package resources

import (
	"sort"
	"strings"
)

// Filter values
const (
	StatusAll     = "all"
	StatusActif   = "actif"
	StatusInactif = "inactif"
	FacetAll      = ""
	DateRecent    = "recent"
	DateOlder     = "older"
)

// Filter narrows a list. Zero value matches everything.
type Filter struct {
	Search string
	// Status is all, actif or inactif; empty means all
	Status string
	// Facet is matched exactly against Row.Facet; empty means all
	Facet string
}

// Row is one entity prepared for display and filtering
type Row struct {
	ID     int64
	Cells  []string
	Status string
	Facet  string
	Item   any

	// search is matched case-insensitively, exact verbatim
	search []string
	exact  []string
}

// Matches reports whether the row passes every part of the filter
func (f Filter) Matches(r Row) bool {
	return f.matchesSearch(r) && f.matchesStatus(r) && f.matchesFacet(r)
}

func (f Filter) matchesSearch(r Row) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	for _, s := range r.search {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	for _, s := range r.exact {
		if strings.Contains(s, f.Search) {
			return true
		}
	}
	return false
}

func (f Filter) matchesStatus(r Row) bool {
	status := strings.ToLower(f.Status)
	if status == "" || status == StatusAll {
		return true
	}
	return strings.ToLower(r.Status) == status
}

func (f Filter) matchesFacet(r Row) bool {
	return f.Facet == FacetAll || r.Facet == f.Facet
}

// Apply returns the rows that match, in their original order
func (f Filter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// IsZero reports whether the filter matches everything
func (f Filter) IsZero() bool {
	return f.Search == "" && (f.Status == "" || strings.EqualFold(f.Status, StatusAll)) && f.Facet == FacetAll
}

// distinctFacets returns the non-empty facet values of rows, sorted
func distinctFacets(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if r.Facet != "" {
			seen[r.Facet] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// NextStatus cycles all → actif → inactif → all
func NextStatus(current string) string {
	switch strings.ToLower(current) {
	case StatusActif:
		return StatusInactif
	case StatusInactif:
		return StatusAll
	default:
		return StatusActif
	}
}
