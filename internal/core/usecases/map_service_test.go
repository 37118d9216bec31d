package usecases_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

type mockPublisher struct {
	mapUpdated   []string
	placeDeleted []string
	broadcasts   [][]byte
}

func (m *mockPublisher) PublishMapUpdated(ctx context.Context, mp *domain.Map) error {
	m.mapUpdated = append(m.mapUpdated, mp.ID)
	return nil
}

func (m *mockPublisher) PublishPlaceDeleted(ctx context.Context, placeID string) error {
	m.placeDeleted = append(m.placeDeleted, placeID)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error {
	m.broadcasts = append(m.broadcasts, data)
	return nil
}

func newMapService(maps *mockMapRepo, its *mockIterationRepo, places *mockPlaceRepo, tags *mockTagRepo, pub *mockPublisher) *usecases.MapService {
	catalog := usecases.NewTagCatalog(tags, nil)
	return usecases.NewMapService(
		maps,
		its,
		usecases.NewPlaceService(places, tags, nil, nil),
		usecases.NewIterationService(its),
		catalog,
		pub,
	)
}

func TestMapService_Save_CreatesPendingIterations(t *testing.T) {
	seq := 0
	its := &mockIterationRepo{
		createFn: func(ctx context.Context, it *domain.Iteration) error {
			seq++
			it.ID = "it-" + strconv.Itoa(seq)
			return nil
		},
	}
	var storedMap *domain.Map
	maps := &mockMapRepo{
		createFn: func(ctx context.Context, mp *domain.Map) error {
			mp.ID = "m1"
			storedMap = mp
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := newMapService(maps, its, &mockPlaceRepo{}, &mockTagRepo{}, pub)

	pending := []domain.Iteration{
		{PlaceID: "p1", CustomName: "West Branch"},
		{ID: "it-existing", PlaceID: "p2", CustomName: "Annex"},
	}
	m, err := svc.Save(context.Background(), userSession, domain.Map{Name: "My map"}, pending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(storedMap.PlaceIterationIDs) != 2 {
		t.Fatalf("expected 2 iteration ids, got %v", storedMap.PlaceIterationIDs)
	}
	if storedMap.PlaceIterationIDs[0] != "it-1" || storedMap.PlaceIterationIDs[1] != "it-existing" {
		t.Errorf("unexpected id collection: %v", storedMap.PlaceIterationIDs)
	}
	if m.OwnerID != "u1" {
		t.Errorf("expected owner u1, got %s", m.OwnerID)
	}
	if len(pub.mapUpdated) != 1 || pub.mapUpdated[0] != "m1" {
		t.Errorf("expected map.updated event for m1, got %v", pub.mapUpdated)
	}
}

func TestMapService_Save_EditorParticipantMayUpdate(t *testing.T) {
	maps := &mockMapRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Map, error) {
			return &domain.Map{ID: id, OwnerID: "someone-else", Participants: []domain.Participant{
				{UserID: "u1", Privileges: []domain.Privilege{domain.PrivilegeEditor}},
			}}, nil
		},
	}
	svc := newMapService(maps, &mockIterationRepo{}, &mockPlaceRepo{}, &mockTagRepo{}, &mockPublisher{})

	_, err := svc.Save(context.Background(), userSession, domain.Map{ID: "m1", Name: "Renamed"}, nil)
	if err != nil {
		t.Fatalf("editor participant should be able to update: %v", err)
	}
}

func TestMapService_Save_ViewerCannotUpdate(t *testing.T) {
	maps := &mockMapRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Map, error) {
			return &domain.Map{ID: id, OwnerID: "someone-else", Participants: []domain.Participant{
				{UserID: "u1", Privileges: []domain.Privilege{domain.PrivilegeViewer}},
			}}, nil
		},
	}
	svc := newMapService(maps, &mockIterationRepo{}, &mockPlaceRepo{}, &mockTagRepo{}, &mockPublisher{})

	_, err := svc.Save(context.Background(), userSession, domain.Map{ID: "m1"}, nil)
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestMapService_GetByID_PrivacyEnforced(t *testing.T) {
	maps := &mockMapRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Map, error) {
			return &domain.Map{ID: id, OwnerID: "someone-else", PrivacyStatus: domain.PrivacyPrivate}, nil
		},
	}
	svc := newMapService(maps, &mockIterationRepo{}, &mockPlaceRepo{}, &mockTagRepo{}, &mockPublisher{})

	_, err := svc.GetByID(context.Background(), userSession, "m1")
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for a private map, got %v", err)
	}
}

func TestMapService_GetByID_ProtectedOpenToUsers(t *testing.T) {
	maps := &mockMapRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Map, error) {
			return &domain.Map{ID: id, OwnerID: "someone-else", PrivacyStatus: domain.PrivacyProtected}, nil
		},
	}
	svc := newMapService(maps, &mockIterationRepo{}, &mockPlaceRepo{}, &mockTagRepo{}, &mockPublisher{})

	if _, err := svc.GetByID(context.Background(), userSession, "m1"); err != nil {
		t.Fatalf("protected map should open to signed-in users: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), guestSession, "m1"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("protected map must stay closed to guests, got %v", err)
	}
}

func TestMapService_ComposeMarkers(t *testing.T) {
	tagA := domain.Tag{ID: "tagA", Name: "TagA"}
	tagB := domain.Tag{ID: "tagB", Name: "TagB"}

	maps := &mockMapRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Map, error) {
			return &domain.Map{ID: id, OwnerID: "u1", PlaceIterationIDs: []string{"it1"}}, nil
		},
	}
	places := &mockPlaceRepo{
		listAllFn: func(ctx context.Context) ([]domain.Place, error) {
			return []domain.Place{
				{ID: "p1", Name: "Library", TagIDs: []string{"tagA"}},
				{ID: "p2", Name: "Cafe", TagIDs: []string{"tagA"}},
			}, nil
		},
	}
	tags := &mockTagRepo{
		listForUserFn: func(ctx context.Context, userID string) ([]domain.Tag, error) {
			return []domain.Tag{tagA, tagB}, nil
		},
	}
	its := &mockIterationRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]domain.Iteration, error) {
			return []domain.Iteration{
				{ID: "it1", PlaceID: "p1", CustomName: "West Branch", CustomDescription: "Renovated",
					CustomTagIDs: []string{"tagB"}},
			}, nil
		},
	}
	svc := newMapService(maps, its, places, tags, &mockPublisher{})

	markers, err := svc.ComposeMarkers(context.Background(), userSession, "m1", usecases.MarkerQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	if markers[0].Name != "West Branch" || !markers[0].IsIteration {
		t.Errorf("expected overlaid first marker, got %+v", markers[0])
	}
	if markers[1].Name != "Cafe" || markers[1].IsIteration {
		t.Errorf("expected pass-through second marker, got %+v", markers[1])
	}

	// and the filter tail of the pipeline
	filtered, err := svc.ComposeMarkers(context.Background(), userSession, "m1", usecases.MarkerQuery{Tags: []string{"tagB"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "West Branch" {
		t.Fatalf("expected the iteration marker only, got %v", filtered)
	}
}
