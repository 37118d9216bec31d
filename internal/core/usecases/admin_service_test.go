package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

type mockUserRepo struct {
	listAllFn    func(ctx context.Context) ([]domain.User, error)
	deleteManyFn func(ctx context.Context, ids []string) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockUserRepo) DeleteMany(ctx context.Context, ids []string) error {
	if m.deleteManyFn != nil {
		return m.deleteManyFn(ctx, ids)
	}
	return nil
}

type mockSweeper struct {
	swept []string
}

func (m *mockSweeper) SweepPlace(ctx context.Context, placeID string) error {
	m.swept = append(m.swept, placeID)
	return nil
}

func newAdminService(users *mockUserRepo, places *mockPlaceRepo, sweeper *mockSweeper) *usecases.AdminService {
	catalog := usecases.NewTagCatalog(&mockTagRepo{}, nil)
	placeSvc := usecases.NewPlaceService(places, &mockTagRepo{}, sweeper, nil)
	return usecases.NewAdminService(users, catalog, placeSvc)
}

func TestAdminService_ListUsers_AdminOnly(t *testing.T) {
	svc := newAdminService(&mockUserRepo{}, &mockPlaceRepo{}, &mockSweeper{})

	if _, err := svc.ListUsers(context.Background(), userSession); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.ListUsers(context.Background(), adminSession); err != nil {
		t.Fatalf("unexpected error for admin: %v", err)
	}
}

func TestAdminService_DeletePlace_TriggersSweep(t *testing.T) {
	sweeper := &mockSweeper{}
	svc := newAdminService(&mockUserRepo{}, &mockPlaceRepo{}, sweeper)

	if err := svc.DeletePlace(context.Background(), userSession, "p1"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for non-admin, got %v", err)
	}
	if err := svc.DeletePlace(context.Background(), adminSession, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sweeper.swept) != 1 || sweeper.swept[0] != "p1" {
		t.Errorf("expected sweep of p1, got %v", sweeper.swept)
	}
}

func TestAdminService_DeletePlaces_SweepsEach(t *testing.T) {
	sweeper := &mockSweeper{}
	svc := newAdminService(&mockUserRepo{}, &mockPlaceRepo{}, sweeper)

	if err := svc.DeletePlaces(context.Background(), adminSession, []string{"p1", "p2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sweeper.swept) != 2 {
		t.Errorf("expected 2 sweeps, got %v", sweeper.swept)
	}
}

func TestAdminService_DeleteUsers_Batch(t *testing.T) {
	var got []string
	users := &mockUserRepo{
		deleteManyFn: func(ctx context.Context, ids []string) error {
			got = ids
			return nil
		},
	}
	svc := newAdminService(users, &mockPlaceRepo{}, &mockSweeper{})

	if err := svc.DeleteUsers(context.Background(), adminSession, []string{"u2", "u3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected batch of 2, got %v", got)
	}
}
