package usecases

import (
	"context"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/ports"
)

// IterationService loads per-map iteration overlays and applies them to a
// base marker set.
type IterationService struct {
	iterations ports.IterationRepository
}

// NewIterationService creates a new IterationService.
func NewIterationService(iterations ports.IterationRepository) *IterationService {
	return &IterationService{iterations: iterations}
}

// LoadForMap returns the iterations a map references. An empty id list
// short-circuits without touching storage, so maps without overrides cost
// nothing extra to compose.
func (s *IterationService) LoadForMap(ctx context.Context, session domain.Session, m *domain.Map) ([]domain.Iteration, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	if m == nil || len(m.PlaceIterationIDs) == 0 {
		return nil, nil
	}
	its, err := s.iterations.GetByIDs(ctx, m.PlaceIterationIDs)
	if err != nil {
		return nil, domain.NewFetchError("load iterations", err)
	}
	return its, nil
}

// ListByCreator returns the session user's own iterations.
func (s *IterationService) ListByCreator(ctx context.Context, session domain.Session) ([]domain.Iteration, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	its, err := s.iterations.ListByCreator(ctx, session.UserID)
	if err != nil {
		return nil, domain.NewFetchError("load iterations", err)
	}
	return its, nil
}

// GetByIDs returns the iterations with the given ids.
func (s *IterationService) GetByIDs(ctx context.Context, ids []string) ([]domain.Iteration, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	its, err := s.iterations.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewFetchError("load iterations", err)
	}
	return its, nil
}

// ResolveOverlay substitutes iteration markers over the base set. An
// iteration claims a base marker when its own id or its place id equals the
// marker's id; the first claiming iteration wins and the substitution
// happens in place, so marker order is preserved. Iterations claiming no
// base marker are dropped, never appended: a deleted place must not
// resurface through a stale override.
func (s *IterationService) ResolveOverlay(base []domain.Marker, overlay []domain.Iteration, catalog []domain.Tag) []domain.Marker {
	if len(overlay) == 0 {
		return base
	}

	byID := make(map[string]domain.Tag, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	out := make([]domain.Marker, len(base))
	copy(out, base)

	claimed := make(map[int]bool, len(out))
	for _, it := range overlay {
		for i := range out {
			if claimed[i] {
				continue
			}
			if it.ID != out[i].ID && it.PlaceID != out[i].ID {
				continue
			}
			var tags []domain.Tag
			for _, id := range it.CustomTagIDs {
				if t, ok := byID[id]; ok {
					tags = append(tags, t)
				}
			}
			out[i] = domain.Marker{
				ID:          it.ID,
				Name:        it.CustomName,
				Description: it.CustomDescription,
				Address:     out[i].Address,
				GPS:         it.GPS,
				TagIDs:      it.CustomTagIDs,
				Tags:        tags,
				IsIteration: true,
			}
			claimed[i] = true
			break
		}
	}
	return out
}

// Create stores a new iteration attributed to the session user.
func (s *IterationService) Create(ctx context.Context, session domain.Session, it domain.Iteration) (*domain.Iteration, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	it.CreatorID = session.UserID
	if err := s.iterations.Create(ctx, &it); err != nil {
		return nil, domain.NewFetchError("create iteration", err)
	}
	return &it, nil
}

// Update rewrites an existing iteration.
func (s *IterationService) Update(ctx context.Context, session domain.Session, it domain.Iteration) error {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return domain.ErrPermissionDenied
	}
	if err := s.iterations.Update(ctx, &it); err != nil {
		return domain.NewFetchError("update iteration", err)
	}
	return nil
}

// Delete removes one iteration.
func (s *IterationService) Delete(ctx context.Context, session domain.Session, id string) error {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return domain.ErrPermissionDenied
	}
	if err := s.iterations.Delete(ctx, id); err != nil {
		return domain.NewFetchError("delete iteration", err)
	}
	return nil
}
