package client

import (
	"context"

	"github.com/labstock/labstock-backend/internal/domain"
)

type userAPI interface {
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, user domain.User) (domain.User, error)
}

// UsernameResolver maps a user id to a display name. Implemented by
// UserStore; the inventory store uses it to decorate items.
type UsernameResolver interface {
	UsernameByID(id string) string
}

// UserStore caches the users collection.
type UserStore struct {
	api    userAPI
	users  map[string]domain.User
	errs   []error
	loaded bool
}

// NewUserStore creates a UserStore over the given users endpoint.
func NewUserStore(api userAPI) *UserStore {
	return &UserStore{api: api, users: map[string]domain.User{}}
}

// Fetch loads all users. The loaded flag is set even when the fetch fails so
// callers can tell "loaded but empty" from "never loaded".
func (s *UserStore) Fetch(ctx context.Context) error {
	users, err := s.api.List(ctx)
	if err != nil {
		s.errs = append(s.errs, err)
		s.loaded = true
		return err
	}
	s.users = make(map[string]domain.User, len(users))
	for _, u := range users {
		s.users[u.ID] = u
	}
	s.loaded = true
	return nil
}

// UserByID returns the cached user with the given id.
func (s *UserStore) UserByID(id string) (domain.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// UsernameByID returns the username for an id, or "" when unknown.
func (s *UserStore) UsernameByID(id string) string {
	return s.users[id].Username
}

// Users returns the cached users.
func (s *UserStore) Users() []domain.User {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out
}

// Count returns the number of loaded users, or 0 before the first fetch.
func (s *UserStore) Count() int {
	if !s.loaded {
		return 0
	}
	return len(s.users)
}

// UpdateProfile persists profile changes and refreshes the cache entry.
func (s *UserStore) UpdateProfile(ctx context.Context, user domain.User) (*domain.User, error) {
	updated, err := s.api.Update(ctx, user.ID, user)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	s.users[updated.ID] = updated
	return &updated, nil
}

// Loaded reports whether a fetch has completed, successfully or not.
func (s *UserStore) Loaded() bool { return s.loaded }

// Errors returns the accumulated fetch/persist errors.
func (s *UserStore) Errors() []error { return s.errs }
