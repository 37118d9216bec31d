package usecases_test

import (
	"testing"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

func filterFixture() []domain.Marker {
	tagA := domain.Tag{ID: "tagA", Name: "TagA"}
	tagB := domain.Tag{ID: "tagB", Name: "TagB"}
	return []domain.Marker{
		{ID: "p1", Name: "Cafe Central", TagIDs: []string{"tagA"}, Tags: []domain.Tag{tagA}},
		{ID: "p2", Name: "Library", TagIDs: []string{"tagB"}, Tags: []domain.Tag{tagB}},
		{ID: "p3", Name: "Corner Cafe", TagIDs: []string{"tagA", "tagB"}, Tags: []domain.Tag{tagA, tagB}},
	}
}

func TestFilterMarkers_EmptyQueryIsIdentity(t *testing.T) {
	markers := filterFixture()
	out := usecases.FilterMarkers(markers, usecases.MarkerQuery{})
	if len(out) != 3 {
		t.Fatalf("expected all 3 markers, got %d", len(out))
	}
	for i := range markers {
		if out[i].ID != markers[i].ID {
			t.Errorf("order changed at %d: %s", i, out[i].ID)
		}
	}
}

func TestFilterMarkers_NameCaseInsensitive(t *testing.T) {
	out := usecases.FilterMarkers(filterFixture(), usecases.MarkerQuery{Name: "cafe"})
	if len(out) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(out))
	}
	if out[0].ID != "p1" || out[1].ID != "p3" {
		t.Errorf("unexpected result order: %v", out)
	}
}

func TestFilterMarkers_InvalidRegexFallsBackToSubstring(t *testing.T) {
	markers := []domain.Marker{{ID: "p1", Name: "Cafe (closed)"}}
	out := usecases.FilterMarkers(markers, usecases.MarkerQuery{Name: "(closed"})
	if len(out) != 1 {
		t.Fatalf("invalid pattern should match as substring, got %d markers", len(out))
	}
}

func TestFilterMarkers_TagContainmentByID(t *testing.T) {
	out := usecases.FilterMarkers(filterFixture(), usecases.MarkerQuery{Tags: []string{"tagA", "tagB"}})
	if len(out) != 1 || out[0].ID != "p3" {
		t.Fatalf("expected only p3 to carry both tags, got %v", out)
	}
}

func TestFilterMarkers_Conjunctive(t *testing.T) {
	out := usecases.FilterMarkers(filterFixture(), usecases.MarkerQuery{
		Name: "cafe",
		Tags: []string{"tagB"},
	})
	if len(out) != 1 || out[0].ID != "p3" {
		t.Fatalf("expected p3 only, got %v", out)
	}
}

func TestFilterMarkers_TagNamesNotConsulted(t *testing.T) {
	// Tag-name search narrows the tag picker pool, never the marker set.
	// Marker filtering only looks at marker names and tag id containment.
	markers := []domain.Marker{
		{ID: "p1", Name: "Cafe Central", TagIDs: []string{"tagA"}, Tags: []domain.Tag{{ID: "tagA", Name: "Food"}}},
		{ID: "p2", Name: "Library", TagIDs: []string{"tagB"}, Tags: []domain.Tag{{ID: "tagB", Name: "Quiet"}}},
	}
	out := usecases.FilterMarkers(markers, usecases.MarkerQuery{Name: "quiet"})
	if len(out) != 0 {
		t.Fatalf("tag names must not satisfy the name criterion, got %d markers", len(out))
	}
}

func TestFilterMarkers_Idempotent(t *testing.T) {
	q := usecases.MarkerQuery{Name: "cafe", Tags: []string{"tagA"}}
	once := usecases.FilterMarkers(filterFixture(), q)
	twice := usecases.FilterMarkers(once, q)
	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("idempotence broken at %d", i)
		}
	}
}

func TestFilterMarkers_DoesNotMutateInput(t *testing.T) {
	markers := filterFixture()
	_ = usecases.FilterMarkers(markers, usecases.MarkerQuery{Name: "library"})
	if len(markers) != 3 || markers[0].Name != "Cafe Central" {
		t.Error("input slice mutated")
	}
}
