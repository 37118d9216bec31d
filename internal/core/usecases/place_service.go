package usecases

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/ports"
	"github.com/lberthe/cartomark/internal/pkg/geospatial"
)

// PlaceService handles place business logic and the place-to-marker
// projection that seeds every map composition.
type PlaceService struct {
	places  ports.PlaceRepository
	tags    ports.TagRepository
	sweeper ports.OrphanSweeper
	events  ports.EventPublisher
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(places ports.PlaceRepository, tags ports.TagRepository, sweeper ports.OrphanSweeper, events ports.EventPublisher) *PlaceService {
	return &PlaceService{places: places, tags: tags, sweeper: sweeper, events: events}
}

// LoadAll returns every stored place. Sessions without the User role are
// skipped with domain.ErrPermissionDenied.
func (s *PlaceService) LoadAll(ctx context.Context, session domain.Session) ([]domain.Place, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	places, err := s.places.ListAll(ctx)
	if err != nil {
		return nil, domain.NewFetchError("load places", err)
	}
	return places, nil
}

// LoadMine returns the session user's own places.
func (s *PlaceService) LoadMine(ctx context.Context, session domain.Session) ([]domain.Place, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	places, err := s.places.ListByOwner(ctx, session.UserID)
	if err != nil {
		return nil, domain.NewFetchError("load places", err)
	}
	return places, nil
}

// GetByIDs returns the places with the given ids.
func (s *PlaceService) GetByIDs(ctx context.Context, ids []string) ([]domain.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	places, err := s.places.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewFetchError("load places", err)
	}
	return places, nil
}

// FindNearby returns places within radiusMeters of the given point.
func (s *PlaceService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Place, error) {
	places, err := s.places.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, domain.NewFetchError("find nearby places", err)
	}
	return places, nil
}

// ResolveMarkers projects places into base markers, cross-referencing each
// place's tag ids against the already-loaded catalog. Unknown tag ids are
// dropped from the Tags slice but kept in TagIDs so a later catalog refresh
// can pick them up.
func (s *PlaceService) ResolveMarkers(places []domain.Place, catalog []domain.Tag) []domain.Marker {
	byID := make(map[string]domain.Tag, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	markers := make([]domain.Marker, 0, len(places))
	for _, p := range places {
		var tags []domain.Tag
		for _, id := range p.TagIDs {
			if t, ok := byID[id]; ok {
				tags = append(tags, t)
			}
		}
		markers = append(markers, domain.Marker{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Address:     p.Address,
			GPS:         p.GPS,
			TagIDs:      p.TagIDs,
			Tags:        tags,
			IsIteration: false,
		})
	}
	return markers
}

// SortByProximity returns a copy of places ordered by distance from center.
// Used to bias pickers toward the viewport; ties keep input order.
func (s *PlaceService) SortByProximity(places []domain.Place, center domain.GeoPoint) []domain.Place {
	out := make([]domain.Place, len(places))
	copy(out, places)
	sort.SliceStable(out, func(i, j int) bool {
		di := geospatial.Haversine(center.Lat, center.Lon, out[i].GPS.Lat, out[i].GPS.Lon)
		dj := geospatial.Haversine(center.Lat, center.Lon, out[j].GPS.Lat, out[j].GPS.Lon)
		return di < dj
	})
	return out
}

// Create stores a new place owned by the session user.
func (s *PlaceService) Create(ctx context.Context, session domain.Session, place domain.Place) (*domain.Place, error) {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return nil, domain.ErrPermissionDenied
	}
	place.OwnerID = session.UserID
	if err := s.places.Create(ctx, &place); err != nil {
		return nil, domain.NewFetchError("create place", err)
	}
	return &place, nil
}

// Update rewrites an existing place. Owners edit their own places; admins
// may edit any.
func (s *PlaceService) Update(ctx context.Context, session domain.Session, place domain.Place) error {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return domain.ErrPermissionDenied
	}
	existing, err := s.places.GetByID(ctx, place.ID)
	if err != nil {
		return domain.NewFetchError("load place", err)
	}
	if existing.OwnerID != session.UserID && !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return domain.ErrPermissionDenied
	}
	place.OwnerID = existing.OwnerID
	if err := s.places.Update(ctx, &place); err != nil {
		return domain.NewFetchError("update place", err)
	}
	return nil
}

// Delete removes one place. Owners delete their own places; admins may
// delete any. The deletion is announced on the broker, both as a durable
// place.deleted event (a second trigger for the janitor) and as a broadcast
// to live viewers, then the orphaned-iteration sweep starts so overrides of
// the dead place disappear from every map.
func (s *PlaceService) Delete(ctx context.Context, session domain.Session, id string) error {
	if !domain.HasCapability(session.Status, domain.RoleUser) {
		return domain.ErrPermissionDenied
	}
	existing, err := s.places.GetByID(ctx, id)
	if err != nil {
		return domain.NewFetchError("load place", err)
	}
	if existing.OwnerID != session.UserID && !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return domain.ErrPermissionDenied
	}
	if err := s.places.Delete(ctx, id); err != nil {
		return domain.NewFetchError("delete place", err)
	}
	if s.events != nil {
		_ = s.events.PublishPlaceDeleted(ctx, id)
		if data, err := json.Marshal(map[string]string{"event": "place.deleted", "place_id": id}); err == nil {
			_ = s.events.PublishBroadcast(ctx, data)
		}
	}
	if s.sweeper != nil {
		if err := s.sweeper.SweepPlace(ctx, id); err != nil {
			return domain.NewFetchError("sweep orphaned iterations", err)
		}
	}
	return nil
}
