package usecases

import (
	"context"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/ports"
)

// AdminService backs the moderation dashboard: listing and bulk-deleting
// users, tags and places. Every operation requires the Admin role.
type AdminService struct {
	users  ports.UserRepository
	tags   *TagCatalog
	places *PlaceService
}

// NewAdminService creates a new AdminService.
func NewAdminService(users ports.UserRepository, tags *TagCatalog, places *PlaceService) *AdminService {
	return &AdminService{users: users, tags: tags, places: places}
}

// ListUsers returns every registered user.
func (s *AdminService) ListUsers(ctx context.Context, session domain.Session) ([]domain.User, error) {
	if !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return nil, domain.ErrPermissionDenied
	}
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, domain.NewFetchError("load users", err)
	}
	return users, nil
}

// DeleteUsers removes a batch of user accounts.
func (s *AdminService) DeleteUsers(ctx context.Context, session domain.Session, ids []string) error {
	if !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return domain.ErrPermissionDenied
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.users.DeleteMany(ctx, ids); err != nil {
		return domain.NewFetchError("delete users", err)
	}
	return nil
}

// ListPlaces returns every stored place regardless of owner.
func (s *AdminService) ListPlaces(ctx context.Context, session domain.Session) ([]domain.Place, error) {
	if !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return nil, domain.ErrPermissionDenied
	}
	return s.places.LoadAll(ctx, session)
}

// DeletePlace removes one place on behalf of the moderation dashboard.
// PlaceService.Delete announces the deletion and starts the sweep.
func (s *AdminService) DeletePlace(ctx context.Context, session domain.Session, id string) error {
	if !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return domain.ErrPermissionDenied
	}
	return s.places.Delete(ctx, session, id)
}

// DeletePlaces removes a batch of places, sweeping each one.
func (s *AdminService) DeletePlaces(ctx context.Context, session domain.Session, ids []string) error {
	if !domain.HasCapability(session.Status, domain.RoleAdmin) {
		return domain.ErrPermissionDenied
	}
	for _, id := range ids {
		if err := s.DeletePlace(ctx, session, id); err != nil {
			return err
		}
	}
	return nil
}

// ListTags returns every tag, official and user-created.
func (s *AdminService) ListTags(ctx context.Context, session domain.Session) ([]domain.Tag, error) {
	return s.tags.ListAll(ctx, session)
}

// DeleteTags removes a batch of tags.
func (s *AdminService) DeleteTags(ctx context.Context, session domain.Session, ids []string) error {
	return s.tags.DeleteMany(ctx, session, ids)
}
