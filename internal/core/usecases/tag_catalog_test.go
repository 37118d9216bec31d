package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

func TestTagCatalog_LoadForUser(t *testing.T) {
	repo := &mockTagRepo{
		listForUserFn: func(ctx context.Context, userID string) ([]domain.Tag, error) {
			if userID != "u1" {
				t.Errorf("expected user u1, got %s", userID)
			}
			return []domain.Tag{{ID: "t1", Name: "Coffee"}}, nil
		},
	}

	svc := usecases.NewTagCatalog(repo, nil)
	tags, err := svc.LoadForUser(context.Background(), userSession)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "Coffee" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestTagCatalog_LoadForUser_PermissionDenied(t *testing.T) {
	called := false
	repo := &mockTagRepo{
		listForUserFn: func(ctx context.Context, userID string) ([]domain.Tag, error) {
			called = true
			return nil, nil
		},
	}

	svc := usecases.NewTagCatalog(repo, nil)
	_, err := svc.LoadForUser(context.Background(), guestSession)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if called {
		t.Error("repo must not be called without the User role")
	}
}

func TestTagCatalog_LoadForUser_FetchError(t *testing.T) {
	repo := &mockTagRepo{
		listForUserFn: func(ctx context.Context, userID string) ([]domain.Tag, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := usecases.NewTagCatalog(repo, nil)
	_, err := svc.LoadForUser(context.Background(), userSession)
	if !domain.IsFetchError(err) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestTagCatalog_Subtract(t *testing.T) {
	svc := usecases.NewTagCatalog(&mockTagRepo{}, nil)
	pool := []domain.Tag{
		{ID: "t1", Name: "Coffee"},
		{ID: "t2", Name: "Brunch"},
		{ID: "t1", Name: "Coffee"}, // duplicate pool entry
		{ID: "t3", Name: "Quiet"},
	}

	got := svc.Subtract(pool, map[string]bool{"t2": true}, "", 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t3" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestTagCatalog_Subtract_NameQuery(t *testing.T) {
	svc := usecases.NewTagCatalog(&mockTagRepo{}, nil)
	pool := []domain.Tag{
		{ID: "t1", Name: "Coffee"},
		{ID: "t2", Name: "Brunch"},
		{ID: "t3", Name: "Decaf Coffee"},
	}

	got := svc.Subtract(pool, nil, "coffee", 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(got))
	}

	// invalid regex falls back to substring matching
	got = svc.Subtract(pool, nil, "coffee(", 0)
	if len(got) != 0 {
		t.Fatalf("expected 0 tags for substring 'coffee(', got %d", len(got))
	}
}

func TestTagCatalog_Subtract_Limit(t *testing.T) {
	svc := usecases.NewTagCatalog(&mockTagRepo{}, nil)
	pool := make([]domain.Tag, 0, 15)
	for i := 0; i < 15; i++ {
		pool = append(pool, domain.Tag{ID: string(rune('a' + i)), Name: "Tag"})
	}

	got := svc.Subtract(pool, nil, "", usecases.DefaultTagPreviewLimit)
	if len(got) != 10 {
		t.Fatalf("expected 10 tags, got %d", len(got))
	}
	if got := svc.Subtract(pool, nil, "", 0); len(got) != 15 {
		t.Fatalf("expected uncapped 15 tags, got %d", len(got))
	}
}

func TestTagCatalog_SuggestByAffinity(t *testing.T) {
	svc := usecases.NewTagCatalog(&mockTagRepo{}, nil)
	selected := []domain.Tag{
		{ID: "t1", Name: "Coffee", Affinities: []domain.TagAffinity{
			{TagID: "t3", Score: 5},
			{TagID: "t2", Score: 1},
		}},
	}
	pool := []domain.Tag{
		{ID: "t1", Name: "Coffee"},
		{ID: "t2", Name: "Brunch"},
		{ID: "t3", Name: "Pastry"},
		{ID: "t4", Name: "Quiet"},
	}

	got := svc.SuggestByAffinity(selected, pool, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}
	if got[0].ID != "t3" {
		t.Errorf("expected t3 first (score 5), got %s", got[0].ID)
	}
	if got[1].ID != "t2" {
		t.Errorf("expected t2 second (score 1), got %s", got[1].ID)
	}
	// zero-score ties keep pool order
	if got[2].ID != "t4" {
		t.Errorf("expected t4 last, got %s", got[2].ID)
	}
}

func TestTagCatalog_Create_NormalizesColors(t *testing.T) {
	var stored *domain.Tag
	repo := &mockTagRepo{
		createFn: func(ctx context.Context, tag *domain.Tag) error {
			stored = tag
			return nil
		},
	}

	svc := usecases.NewTagCatalog(repo, nil)
	_, err := svc.Create(context.Background(), userSession, domain.Tag{
		Name:            "Coffee",
		BackgroundColor: "12g456",
		NameColor:       "ffffff",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.BackgroundColor != "#120456" {
		t.Errorf("expected #120456, got %s", stored.BackgroundColor)
	}
	if stored.NameColor != "#ffffff" {
		t.Errorf("expected #ffffff, got %s", stored.NameColor)
	}
	if stored.CreatorID != "u1" {
		t.Errorf("expected creator u1, got %s", stored.CreatorID)
	}
}

func TestTagCatalog_Create_OfficialRequiresAdmin(t *testing.T) {
	svc := usecases.NewTagCatalog(&mockTagRepo{}, nil)
	_, err := svc.Create(context.Background(), userSession, domain.Tag{Name: "Official", IsOfficial: true})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.Create(context.Background(), adminSession, domain.Tag{Name: "Official", IsOfficial: true}); err != nil {
		t.Fatalf("unexpected error for admin: %v", err)
	}
}

func TestTagCatalog_DeleteMany_AdminOnly(t *testing.T) {
	svc := usecases.NewTagCatalog(&mockTagRepo{}, nil)
	err := svc.DeleteMany(context.Background(), userSession, []string{"t1", "t2"})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
