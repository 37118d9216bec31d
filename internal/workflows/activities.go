package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/ports"
)

// JanitorActivities holds the activity implementations for the orphan sweep.
type JanitorActivities struct {
	Iterations ports.IterationRepository
	Maps       ports.MapRepository
}

// ListIterationsForPlace returns the ids of every iteration overriding the
// given place.
func (a *JanitorActivities) ListIterationsForPlace(ctx context.Context, placeID string) ([]string, error) {
	its, err := a.Iterations.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("list iterations for place %s: %w", placeID, err)
	}
	ids := make([]string, 0, len(its))
	for _, it := range its {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

// RemoveIterationRefs strips the iteration ids from every map referencing them.
func (a *JanitorActivities) RemoveIterationRefs(ctx context.Context, iterationIDs []string) error {
	if err := a.Maps.RemoveIterationRefs(ctx, iterationIDs); err != nil {
		return fmt.Errorf("remove iteration refs: %w", err)
	}
	return nil
}

// DeleteIterations removes the iteration records.
func (a *JanitorActivities) DeleteIterations(ctx context.Context, iterationIDs []string) error {
	if err := a.Iterations.DeleteMany(ctx, iterationIDs); err != nil {
		return fmt.Errorf("delete iterations: %w", err)
	}
	return nil
}

// RestoreIterationRefs re-attaches iteration ids to their maps (saga
// compensation / rollback). Each iteration still records the maps that
// referenced it, so the links can be rebuilt from the surviving rows.
func (a *JanitorActivities) RestoreIterationRefs(ctx context.Context, placeID string, iterationIDs []string) error {
	its, err := a.Iterations.GetByIDs(ctx, iterationIDs)
	if err != nil {
		return fmt.Errorf("reload iterations: %w", err)
	}
	for _, it := range its {
		for _, mapID := range it.MapIDs {
			m, err := a.Maps.GetByID(ctx, mapID)
			if err == domain.ErrNotFound {
				continue
			}
			if err != nil {
				return fmt.Errorf("reload map %s: %w", mapID, err)
			}
			if containsID(m.PlaceIterationIDs, it.ID) {
				continue
			}
			m.PlaceIterationIDs = append(m.PlaceIterationIDs, it.ID)
			if err := a.Maps.Update(ctx, m); err != nil {
				return fmt.Errorf("restore refs on map %s: %w", mapID, err)
			}
		}
	}
	log.Printf("Iteration refs restored for place %s (saga compensation)", placeID)
	return nil
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
