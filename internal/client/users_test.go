package client

import (
	"context"
	"errors"
	"testing"

	"github.com/labstock/labstock-backend/internal/domain"
)

type stubUserAPI struct {
	users   []domain.User
	listErr error

	updates []domain.User
}

func (s *stubUserAPI) List(ctx context.Context) ([]domain.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.users, nil
}

func (s *stubUserAPI) Update(ctx context.Context, id string, user domain.User) (domain.User, error) {
	user.ID = id
	s.updates = append(s.updates, user)
	return user, nil
}

func TestUserStoreResolvesUsernames(t *testing.T) {
	api := &stubUserAPI{users: []domain.User{
		{ID: "user-1", Username: "carlos"},
		{ID: "user-2", Username: "maria"},
	}}
	store := NewUserStore(api)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if got := store.UsernameByID("user-2"); got != "maria" {
		t.Fatalf("expected maria, got %q", got)
	}
	if got := store.UsernameByID("user-9"); got != "" {
		t.Fatalf("expected empty username for unknown id, got %q", got)
	}
	if store.Count() != 2 {
		t.Fatalf("expected 2 users, got %d", store.Count())
	}
}

func TestUserStoreUpdateProfileRefreshesCache(t *testing.T) {
	api := &stubUserAPI{users: []domain.User{{ID: "user-1", Username: "carlos", FullName: "Carlos R."}}}
	store := NewUserStore(api)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	updated, err := store.UpdateProfile(context.Background(), domain.User{ID: "user-1", Username: "carlos", FullName: "Carlos Ramírez"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FullName != "Carlos Ramírez" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if cached, _ := store.UserByID("user-1"); cached.FullName != "Carlos Ramírez" {
		t.Fatalf("cache not refreshed: %+v", cached)
	}
	if len(api.updates) != 1 {
		t.Fatalf("expected 1 persist, got %d", len(api.updates))
	}
}

func TestUserStoreFetchFailure(t *testing.T) {
	api := &stubUserAPI{listErr: errors.New("store unavailable")}
	store := NewUserStore(api)

	if err := store.Fetch(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if !store.Loaded() {
		t.Fatal("failed fetch must still mark the store loaded")
	}
	if store.Count() != 0 {
		t.Fatalf("expected 0 users after failed fetch, got %d", store.Count())
	}
}
