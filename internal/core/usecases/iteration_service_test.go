package usecases_test

import (
	"context"
	"testing"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

func TestIterationService_LoadForMap_ShortCircuit(t *testing.T) {
	called := false
	repo := &mockIterationRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]domain.Iteration, error) {
			called = true
			return nil, nil
		},
	}
	svc := usecases.NewIterationService(repo)

	its, err := svc.LoadForMap(context.Background(), userSession, &domain.Map{ID: "m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if its != nil {
		t.Errorf("expected nil iterations, got %v", its)
	}
	if called {
		t.Error("repo must not be queried for a map without iteration ids")
	}
}

func TestIterationService_ResolveOverlay_MatchByPlaceID(t *testing.T) {
	svc := usecases.NewIterationService(&mockIterationRepo{})

	catalog := []domain.Tag{
		{ID: "tagA", Name: "TagA"},
		{ID: "tagB", Name: "TagB"},
	}
	base := []domain.Marker{
		{ID: "p1", Name: "Library", TagIDs: []string{"tagA"}, Tags: []domain.Tag{catalog[0]},
			Address: "1 Main St", GPS: domain.GeoPoint{Lat: 43.26, Lon: -2.93}},
		{ID: "p2", Name: "Cafe"},
	}
	overlay := []domain.Iteration{
		{ID: "it1", PlaceID: "p1", CustomName: "West Branch", CustomDescription: "Renovated",
			CustomTagIDs: []string{"tagB"}, GPS: domain.GeoPoint{Lat: 43.27, Lon: -2.94}},
	}

	out := svc.ResolveOverlay(base, overlay, catalog)
	if len(out) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(out))
	}
	m := out[0]
	if m.ID != "it1" {
		t.Errorf("expected iteration id it1, got %s", m.ID)
	}
	if m.Name != "West Branch" {
		t.Errorf("expected custom name, got %s", m.Name)
	}
	if !m.IsIteration {
		t.Error("substituted marker must be flagged as iteration")
	}
	if len(m.Tags) != 1 || m.Tags[0].Name != "TagB" {
		t.Errorf("expected custom TagB only, got %v", m.Tags)
	}
	// address is the one stable field the override keeps from the base
	if m.Address != "1 Main St" {
		t.Errorf("expected base address carried over, got %s", m.Address)
	}
	if out[1].IsIteration {
		t.Error("untouched marker must pass through unchanged")
	}
}

func TestIterationService_ResolveOverlay_MatchByIterationID(t *testing.T) {
	svc := usecases.NewIterationService(&mockIterationRepo{})

	base := []domain.Marker{{ID: "it1", Name: "West Branch", IsIteration: true}}
	overlay := []domain.Iteration{
		{ID: "it1", PlaceID: "p1", CustomName: "East Branch"},
	}

	out := svc.ResolveOverlay(base, overlay, nil)
	if out[0].Name != "East Branch" {
		t.Errorf("expected re-substitution by iteration id, got %s", out[0].Name)
	}
}

func TestIterationService_ResolveOverlay_FirstMatchWins(t *testing.T) {
	svc := usecases.NewIterationService(&mockIterationRepo{})

	base := []domain.Marker{{ID: "p1", Name: "Library"}}
	overlay := []domain.Iteration{
		{ID: "it1", PlaceID: "p1", CustomName: "First"},
		{ID: "it2", PlaceID: "p1", CustomName: "Second"},
	}

	out := svc.ResolveOverlay(base, overlay, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(out))
	}
	if out[0].Name != "First" {
		t.Errorf("expected first iteration to win, got %s", out[0].Name)
	}
}

func TestIterationService_ResolveOverlay_OrphanNotInjected(t *testing.T) {
	svc := usecases.NewIterationService(&mockIterationRepo{})

	base := []domain.Marker{{ID: "p1", Name: "Library"}}
	overlay := []domain.Iteration{
		{ID: "it9", PlaceID: "gone", CustomName: "Ghost"},
	}

	out := svc.ResolveOverlay(base, overlay, nil)
	if len(out) != 1 {
		t.Fatalf("orphaned iteration must not add a marker, got %d", len(out))
	}
	if out[0].Name != "Library" {
		t.Errorf("base marker altered: %s", out[0].Name)
	}
}

func TestIterationService_ResolveOverlay_EmptyOverlayIsIdentity(t *testing.T) {
	svc := usecases.NewIterationService(&mockIterationRepo{})

	base := []domain.Marker{{ID: "p1", Name: "Library"}, {ID: "p2", Name: "Cafe"}}
	out := svc.ResolveOverlay(base, nil, nil)
	if len(out) != 2 || out[0].ID != "p1" || out[1].ID != "p2" {
		t.Fatalf("empty overlay must return the base set unchanged: %v", out)
	}
}

func TestIterationService_ResolveOverlay_DoesNotMutateBase(t *testing.T) {
	svc := usecases.NewIterationService(&mockIterationRepo{})

	base := []domain.Marker{{ID: "p1", Name: "Library"}}
	overlay := []domain.Iteration{{ID: "it1", PlaceID: "p1", CustomName: "West Branch"}}

	_ = svc.ResolveOverlay(base, overlay, nil)
	if base[0].Name != "Library" {
		t.Errorf("input slice mutated: %s", base[0].Name)
	}
}
