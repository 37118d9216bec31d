package http

import (
	"github.com/nats-io/nats.go"

	"github.com/lberthe/cartomark/internal/adapters/postgres"
	"github.com/lberthe/cartomark/internal/adapters/valkey"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Tags       *usecases.TagCatalog
	Places     *usecases.PlaceService
	Iterations *usecases.IterationService
	Maps       *usecases.MapService
	Admin      *usecases.AdminService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache

	// TagPreviewLimit caps the tag picker preview in editor responses.
	TagPreviewLimit int
}
