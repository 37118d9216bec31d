package ports

import (
	"context"

	"github.com/lberthe/cartomark/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishMapUpdated(ctx context.Context, m *domain.Map) error
	PublishPlaceDeleted(ctx context.Context, placeID string) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// MessageSink receives the user-facing outcome of editor operations.
// Implementations decide how long the message stays visible.
type MessageSink interface {
	Notify(msg domain.MessageValues)
}

// OrphanSweeper starts the out-of-band cleanup of iterations whose place
// was deleted.
type OrphanSweeper interface {
	SweepPlace(ctx context.Context, placeID string) error
}
