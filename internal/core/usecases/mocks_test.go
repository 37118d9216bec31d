package usecases_test

import (
	"context"

	"github.com/lberthe/cartomark/internal/core/domain"
)

// --- Mock TagRepository ---

type mockTagRepo struct {
	createFn      func(ctx context.Context, tag *domain.Tag) error
	updateFn      func(ctx context.Context, tag *domain.Tag) error
	getByIDsFn    func(ctx context.Context, ids []string) ([]domain.Tag, error)
	listAllFn     func(ctx context.Context) ([]domain.Tag, error)
	listForUserFn func(ctx context.Context, userID string) ([]domain.Tag, error)
	deleteFn      func(ctx context.Context, id string) error
	deleteManyFn  func(ctx context.Context, ids []string) error
}

func (m *mockTagRepo) Create(ctx context.Context, tag *domain.Tag) error {
	if m.createFn != nil {
		return m.createFn(ctx, tag)
	}
	return nil
}

func (m *mockTagRepo) Update(ctx context.Context, tag *domain.Tag) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tag)
	}
	return nil
}

func (m *mockTagRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Tag, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockTagRepo) ListAll(ctx context.Context) ([]domain.Tag, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockTagRepo) ListForUser(ctx context.Context, userID string) ([]domain.Tag, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTagRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockTagRepo) DeleteMany(ctx context.Context, ids []string) error {
	if m.deleteManyFn != nil {
		return m.deleteManyFn(ctx, ids)
	}
	return nil
}

// --- Mock PlaceRepository ---

type mockPlaceRepo struct {
	createFn      func(ctx context.Context, place *domain.Place) error
	updateFn      func(ctx context.Context, place *domain.Place) error
	getByIDFn     func(ctx context.Context, id string) (*domain.Place, error)
	getByIDsFn    func(ctx context.Context, ids []string) ([]domain.Place, error)
	listAllFn     func(ctx context.Context) ([]domain.Place, error)
	listByOwnerFn func(ctx context.Context, ownerID string) ([]domain.Place, error)
	findNearbyFn  func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Place, error)
	deleteFn      func(ctx context.Context, id string) error
	deleteManyFn  func(ctx context.Context, ids []string) error
}

func (m *mockPlaceRepo) Create(ctx context.Context, place *domain.Place) error {
	if m.createFn != nil {
		return m.createFn(ctx, place)
	}
	return nil
}

func (m *mockPlaceRepo) Update(ctx context.Context, place *domain.Place) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, place)
	}
	return nil
}

func (m *mockPlaceRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Place{ID: id}, nil
}

func (m *mockPlaceRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Place, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockPlaceRepo) ListAll(ctx context.Context) ([]domain.Place, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockPlaceRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Place, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockPlaceRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Place, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}

func (m *mockPlaceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockPlaceRepo) DeleteMany(ctx context.Context, ids []string) error {
	if m.deleteManyFn != nil {
		return m.deleteManyFn(ctx, ids)
	}
	return nil
}

// --- Mock IterationRepository ---

type mockIterationRepo struct {
	createFn        func(ctx context.Context, it *domain.Iteration) error
	updateFn        func(ctx context.Context, it *domain.Iteration) error
	getByIDsFn      func(ctx context.Context, ids []string) ([]domain.Iteration, error)
	listByPlaceFn   func(ctx context.Context, placeID string) ([]domain.Iteration, error)
	listByCreatorFn func(ctx context.Context, creatorID string) ([]domain.Iteration, error)
	deleteFn        func(ctx context.Context, id string) error
	deleteManyFn    func(ctx context.Context, ids []string) error
}

func (m *mockIterationRepo) Create(ctx context.Context, it *domain.Iteration) error {
	if m.createFn != nil {
		return m.createFn(ctx, it)
	}
	return nil
}

func (m *mockIterationRepo) Update(ctx context.Context, it *domain.Iteration) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, it)
	}
	return nil
}

func (m *mockIterationRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Iteration, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockIterationRepo) ListByPlace(ctx context.Context, placeID string) ([]domain.Iteration, error) {
	if m.listByPlaceFn != nil {
		return m.listByPlaceFn(ctx, placeID)
	}
	return nil, nil
}

func (m *mockIterationRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Iteration, error) {
	if m.listByCreatorFn != nil {
		return m.listByCreatorFn(ctx, creatorID)
	}
	return nil, nil
}

func (m *mockIterationRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockIterationRepo) DeleteMany(ctx context.Context, ids []string) error {
	if m.deleteManyFn != nil {
		return m.deleteManyFn(ctx, ids)
	}
	return nil
}

// --- Mock MapRepository ---

type mockMapRepo struct {
	createFn              func(ctx context.Context, mp *domain.Map) error
	updateFn              func(ctx context.Context, mp *domain.Map) error
	getByIDFn             func(ctx context.Context, id string) (*domain.Map, error)
	getByIDsFn            func(ctx context.Context, ids []string) ([]domain.Map, error)
	listByOwnerFn         func(ctx context.Context, ownerID string) ([]domain.Map, error)
	listPublicFn          func(ctx context.Context) ([]domain.Map, error)
	removeIterationRefsFn func(ctx context.Context, iterationIDs []string) error
	deleteFn              func(ctx context.Context, id string) error
}

func (m *mockMapRepo) Create(ctx context.Context, mp *domain.Map) error {
	if m.createFn != nil {
		return m.createFn(ctx, mp)
	}
	return nil
}

func (m *mockMapRepo) Update(ctx context.Context, mp *domain.Map) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, mp)
	}
	return nil
}

func (m *mockMapRepo) GetByID(ctx context.Context, id string) (*domain.Map, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Map{ID: id}, nil
}

func (m *mockMapRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Map, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockMapRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Map, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockMapRepo) ListPublic(ctx context.Context) ([]domain.Map, error) {
	if m.listPublicFn != nil {
		return m.listPublicFn(ctx)
	}
	return nil, nil
}

func (m *mockMapRepo) RemoveIterationRefs(ctx context.Context, iterationIDs []string) error {
	if m.removeIterationRefsFn != nil {
		return m.removeIterationRefsFn(ctx, iterationIDs)
	}
	return nil
}

func (m *mockMapRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock MessageSink ---

type mockSink struct {
	messages []domain.MessageValues
}

func (m *mockSink) Notify(msg domain.MessageValues) {
	m.messages = append(m.messages, msg)
}

// --- Sessions used across tests ---

var (
	userSession  = domain.Session{UserID: "u1", Status: "User"}
	adminSession = domain.Session{UserID: "a1", Status: "User&Admin"}
	guestSession = domain.Session{UserID: "", Status: ""}
)
