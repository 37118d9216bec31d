package usecases

import (
	"github.com/lberthe/cartomark/internal/core/domain"
)

// MarkerQuery narrows a composed marker set. All criteria are conjunctive;
// the zero value matches every marker. Tag-name search is a catalog concern
// (TagCatalog.Subtract) and never reaches the marker set.
type MarkerQuery struct {
	// Name is matched case-insensitively against marker names, as a regex
	// when it compiles and as a plain substring otherwise.
	Name string
	// Tags requires every listed tag id to be present on the marker.
	Tags []string
}

// IsEmpty reports whether the query constrains nothing.
func (q MarkerQuery) IsEmpty() bool {
	return q.Name == "" && len(q.Tags) == 0
}

// FilterMarkers returns the markers satisfying every criterion of q, in
// input order. The input slice is never mutated; an empty query returns the
// input unchanged.
func FilterMarkers(markers []domain.Marker, q MarkerQuery) []domain.Marker {
	if q.IsEmpty() {
		return markers
	}

	nameMatch := nameMatcher(q.Name)

	var out []domain.Marker
	for _, m := range markers {
		if !nameMatch(m.Name) {
			continue
		}
		if !hasAllTagIDs(m, q.Tags) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// hasAllTagIDs checks containment by tag id, so a marker qualifies even when
// its Tags slice holds a separately-loaded copy of the catalog entry.
func hasAllTagIDs(m domain.Marker, required []string) bool {
	if len(required) == 0 {
		return true
	}
	present := make(map[string]bool, len(m.TagIDs))
	for _, id := range m.TagIDs {
		present[id] = true
	}
	for _, id := range required {
		if !present[id] {
			return false
		}
	}
	return true
}
