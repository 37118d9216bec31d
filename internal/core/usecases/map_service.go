package usecases

import (
	"context"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/ports"
)

// MapService handles map business logic: persisting maps together with their
// pending iteration overlay, composing the renderable marker set, and
// notifying live viewers.
type MapService struct {
	maps       ports.MapRepository
	iterations ports.IterationRepository
	places     *PlaceService
	overlay    *IterationService
	tags       *TagCatalog
	events     ports.EventPublisher
}

// NewMapService creates a new MapService.
func NewMapService(
	maps ports.MapRepository,
	iterations ports.IterationRepository,
	places *PlaceService,
	overlay *IterationService,
	tags *TagCatalog,
	events ports.EventPublisher,
) *MapService {
	return &MapService{
		maps:       maps,
		iterations: iterations,
		places:     places,
		overlay:    overlay,
		tags:       tags,
		events:     events,
	}
}

// Save persists a map together with its pending overlay. Overlay entries
// without an id are created first and their new ids collected into
// PlaceIterationIDs; entries with an id are updated. The map itself is
// created or updated on the same rule. Live viewers get a map.updated event.
func (s *MapService) Save(ctx context.Context, session domain.Session, m domain.Map, pending []domain.Iteration) (*domain.Map, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}

	ids := make([]string, 0, len(pending))
	for i := range pending {
		it := pending[i]
		it.CreatorID = session.UserID
		if it.ID == "" {
			if err := s.iterations.Create(ctx, &it); err != nil {
				return nil, domain.NewFetchError("create iteration", err)
			}
		} else {
			if err := s.iterations.Update(ctx, &it); err != nil {
				return nil, domain.NewFetchError("update iteration", err)
			}
		}
		ids = append(ids, it.ID)
	}
	m.PlaceIterationIDs = ids

	if m.ID == "" {
		m.OwnerID = session.UserID
		if err := s.maps.Create(ctx, &m); err != nil {
			return nil, domain.NewFetchError("create map", err)
		}
	} else {
		existing, err := s.maps.GetByID(ctx, m.ID)
		if err != nil {
			return nil, domain.NewFetchError("load map", err)
		}
		if !canEdit(existing, session) {
			return nil, domain.ErrPermissionDenied
		}
		m.OwnerID = existing.OwnerID
		if err := s.maps.Update(ctx, &m); err != nil {
			return nil, domain.NewFetchError("update map", err)
		}
	}

	if s.events != nil {
		_ = s.events.PublishMapUpdated(ctx, &m)
	}
	return &m, nil
}

// GetByID returns one map, enforcing its privacy status against the session.
func (s *MapService) GetByID(ctx context.Context, session domain.Session, id string) (*domain.Map, error) {
	m, err := s.maps.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewFetchError("load map", err)
	}
	if !canView(m, session) {
		return nil, domain.ErrPermissionDenied
	}
	return m, nil
}

// GetByIDs returns the maps with the given ids, dropping the ones the
// session may not view.
func (s *MapService) GetByIDs(ctx context.Context, session domain.Session, ids []string) ([]domain.Map, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	maps, err := s.maps.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewFetchError("load maps", err)
	}
	out := maps[:0]
	for _, m := range maps {
		m := m
		if canView(&m, session) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListMine returns the session user's maps.
func (s *MapService) ListMine(ctx context.Context, session domain.Session) ([]domain.Map, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	maps, err := s.maps.ListByOwner(ctx, session.UserID)
	if err != nil {
		return nil, domain.NewFetchError("load maps", err)
	}
	return maps, nil
}

// ListPublic returns every public map.
func (s *MapService) ListPublic(ctx context.Context) ([]domain.Map, error) {
	maps, err := s.maps.ListPublic(ctx)
	if err != nil {
		return nil, domain.NewFetchError("load maps", err)
	}
	return maps, nil
}

// Delete removes one map. Its iterations survive; they stop rendering once
// no map references them.
func (s *MapService) Delete(ctx context.Context, session domain.Session, id string) error {
	m, err := s.maps.GetByID(ctx, id)
	if err != nil {
		return domain.NewFetchError("load map", err)
	}
	if m.OwnerID != session.UserID && !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return domain.ErrPermissionDenied
	}
	if err := s.maps.Delete(ctx, id); err != nil {
		return domain.NewFetchError("delete map", err)
	}
	return nil
}

// ComposeMarkers runs the full pipeline for one map: load places, catalog
// and overlay, project places to base markers, resolve the overlay on top,
// then filter.
func (s *MapService) ComposeMarkers(ctx context.Context, session domain.Session, mapID string, q MarkerQuery) ([]domain.Marker, error) {
	m, err := s.GetByID(ctx, session, mapID)
	if err != nil {
		return nil, err
	}

	places, err := s.places.LoadAll(ctx, session)
	if err != nil {
		return nil, err
	}
	catalog, err := s.tags.LoadForUser(ctx, session)
	if err != nil {
		return nil, err
	}
	its, err := s.overlay.LoadForMap(ctx, session, m)
	if err != nil {
		return nil, err
	}

	base := s.places.ResolveMarkers(places, catalog)
	markers := s.overlay.ResolveOverlay(base, its, catalog)
	return FilterMarkers(markers, q), nil
}

func canView(m *domain.Map, session domain.Session) bool {
	if m.PrivacyStatus == domain.PrivacyPublic {
		return true
	}
	if m.OwnerID == session.UserID {
		return true
	}
	if domain.HasCapability(session.Status, domain.RoleAdmin) {
		return true
	}
	for _, p := range m.Participants {
		if p.UserID == session.UserID {
			return true
		}
	}
	// Protected maps open to any signed-in user
	return m.PrivacyStatus == domain.PrivacyProtected && domain.HasCapability(session.Status, domain.RoleUser)
}

func canEdit(m *domain.Map, session domain.Session) bool {
	if m.OwnerID == session.UserID {
		return true
	}
	if domain.HasCapability(session.Status, domain.RoleAdmin) {
		return true
	}
	for _, p := range m.Participants {
		if p.UserID != session.UserID {
			continue
		}
		for _, priv := range p.Privileges {
			if priv == domain.PrivilegeEditor || priv == domain.PrivilegeOwner {
				return true
			}
		}
	}
	return false
}
