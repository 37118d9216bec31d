package ports

import (
	"context"

	"github.com/lberthe/cartomark/internal/core/domain"
)

// TagRepository persists tags.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	Update(ctx context.Context, tag *domain.Tag) error
	GetByIDs(ctx context.Context, ids []string) ([]domain.Tag, error)
	ListAll(ctx context.Context) ([]domain.Tag, error)
	// ListForUser returns official tags plus the user's self-created ones.
	ListForUser(ctx context.Context, userID string) ([]domain.Tag, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

// PlaceRepository persists places.
type PlaceRepository interface {
	Create(ctx context.Context, place *domain.Place) error
	Update(ctx context.Context, place *domain.Place) error
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Place, error)
	ListAll(ctx context.Context) ([]domain.Place, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Place, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Place, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

// IterationRepository persists place iterations.
type IterationRepository interface {
	Create(ctx context.Context, it *domain.Iteration) error
	Update(ctx context.Context, it *domain.Iteration) error
	GetByIDs(ctx context.Context, ids []string) ([]domain.Iteration, error)
	ListByPlace(ctx context.Context, placeID string) ([]domain.Iteration, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Iteration, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

// MapRepository persists maps.
type MapRepository interface {
	Create(ctx context.Context, m *domain.Map) error
	Update(ctx context.Context, m *domain.Map) error
	GetByID(ctx context.Context, id string) (*domain.Map, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Map, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Map, error)
	ListPublic(ctx context.Context) ([]domain.Map, error)
	// RemoveIterationRefs strips the given iteration ids from every map's
	// place_iteration_ids list. Used by the orphan sweep.
	RemoveIterationRefs(ctx context.Context, iterationIDs []string) error
	Delete(ctx context.Context, id string) error
}

// UserRepository reads and moderates user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}
