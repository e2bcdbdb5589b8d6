/**
 * @description
 * Session is the explicit authentication context for the client stores. It
 * owns the bearer token and the signed-in user, with a defined lifecycle:
 * SignIn initializes it, SignOut tears it down. Stores receive the session
 * by injection instead of reading process-wide state.
 */
package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/pkg/resource"
)

// Identity exposes the acting user to stores that stamp or gate on it.
// A nil current user means the caller is anonymous.
type Identity interface {
	CurrentUser() *domain.User
}

// Session holds the authentication state for one client. It also owns the
// resource client, wired so every request carries the session's token.
type Session struct {
	client *resource.Client

	mu          sync.RWMutex
	token       string
	currentUser *domain.User
}

// NewSession creates an anonymous session talking to the resource store at
// baseURL (e.g. "http://localhost:5205/api/v1").
func NewSession(baseURL string, opts ...resource.Option) *Session {
	s := &Session{}
	opts = append(opts, resource.WithTokenSource(s.Token))
	s.client = resource.NewClient(baseURL, opts...)
	return s
}

// Client returns the resource client bound to this session.
func (s *Session) Client() *resource.Client {
	return s.client
}

// SignUp registers a new account. It does not sign the session in; callers
// follow up with SignIn, matching the sign-up-then-sign-in flow of the UI.
func (s *Session) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.SignUpResponse, error) {
	var resp domain.SignUpResponse
	if err := s.client.Do(ctx, http.MethodPost, "/authentication/sign-up", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignIn authenticates and initializes the session state on success.
func (s *Session) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.User, error) {
	var resp domain.SignInResponse
	if err := s.client.Do(ctx, http.MethodPost, "/authentication/sign-in", req, &resp); err != nil {
		return nil, err
	}

	user := resp.User
	s.mu.Lock()
	s.token = resp.Token
	s.currentUser = &user
	s.mu.Unlock()

	return &user, nil
}

// SignOut clears the session state.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.token = ""
	s.currentUser = nil
	s.mu.Unlock()
}

// Token returns the current bearer token, or "" while anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsSignedIn reports whether the session holds an authenticated user.
func (s *Session) IsSignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser != nil
}

// CurrentUser returns a copy of the signed-in user, or nil while anonymous.
func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	user := *s.currentUser
	return &user
}
