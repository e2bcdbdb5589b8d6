package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/internal/store"
)

type stubUserRepo struct {
	store.UserRepository

	createErr error
	createdID string
	created   *domain.User

	creds    *store.Credentials
	credsErr error
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *domain.User, passwordHash string) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = user
	return s.createdID, nil
}

func (s *stubUserRepo) FindCredentialsByUsername(ctx context.Context, username string) (*store.Credentials, error) {
	if s.credsErr != nil {
		return nil, s.credsErr
	}
	return s.creds, nil
}

type stubSubRepo struct {
	store.SubscriptionRepository

	upserted  *domain.Subscription
	upsertErr error

	deactivated    int64
	deactivateErr  error
	deactivateCall int
}

func (s *stubSubRepo) UpsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	s.upserted = sub
	return sub, nil
}

func (s *stubSubRepo) DeactivateExpiredSubscriptions(ctx context.Context) (int64, error) {
	s.deactivateCall++
	return s.deactivated, s.deactivateErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestIam(users *stubUserRepo, subs *stubSubRepo) *IamService {
	return NewIamService(users, subs, discardLogger(), "test-secret", time.Hour)
}

func TestSignUpBootstrapsFreeSubscription(t *testing.T) {
	users := &stubUserRepo{createdID: "user-1"}
	subs := &stubSubRepo{}
	svc := newTestIam(users, subs)

	resp, err := svc.SignUp(context.Background(), domain.SignUpRequest{
		Username: "carlos",
		Password: "password123",
		FullName: "Carlos Ramírez",
		Email:    "carlos@labstock.dev",
	})
	if err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	if resp.ID != "user-1" || resp.Username != "carlos" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if users.created.Role != domain.RoleTechnician {
		t.Fatalf("expected defaulted role, got %s", users.created.Role)
	}

	if subs.upserted == nil {
		t.Fatal("expected a subscription bootstrap")
	}
	if subs.upserted.PlanType != "Free" || !subs.upserted.IsActive {
		t.Fatalf("unexpected bootstrap subscription: %+v", subs.upserted)
	}
	if subs.upserted.MaxMembers != domain.DefaultFreeMaxMembers || subs.upserted.MaxInventoryItems != domain.DefaultFreeMaxInventoryItems {
		t.Fatalf("bootstrap subscription does not carry free-tier limits: %+v", subs.upserted)
	}
}

func TestSignUpSurvivesSubscriptionBootstrapFailure(t *testing.T) {
	users := &stubUserRepo{createdID: "user-1"}
	subs := &stubSubRepo{upsertErr: errors.New("db down")}
	svc := newTestIam(users, subs)

	resp, err := svc.SignUp(context.Background(), domain.SignUpRequest{
		Username: "carlos", Password: "password123", FullName: "Carlos", Email: "c@labstock.dev",
	})
	if err != nil {
		t.Fatalf("sign-up must succeed despite bootstrap failure, got %v", err)
	}
	if resp.ID != "user-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := newTestIam(&stubUserRepo{}, &stubSubRepo{})

	tests := []struct {
		name string
		req  domain.SignUpRequest
	}{
		{name: "missing username", req: domain.SignUpRequest{Password: "x", FullName: "x", Email: "x"}},
		{name: "missing password", req: domain.SignUpRequest{Username: "x", FullName: "x", Email: "x"}},
		{name: "missing full name", req: domain.SignUpRequest{Username: "x", Password: "x", Email: "x"}},
		{name: "missing email", req: domain.SignUpRequest{Username: "x", Password: "x", FullName: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SignUp(context.Background(), tt.req); !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestSignUpPropagatesDuplicate(t *testing.T) {
	users := &stubUserRepo{createErr: store.ErrDuplicateUser}
	svc := newTestIam(users, &stubSubRepo{})

	_, err := svc.SignUp(context.Background(), domain.SignUpRequest{
		Username: "carlos", Password: "x", FullName: "x", Email: "x",
	})
	if !errors.Is(err, store.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestSignInIssuesVerifiableToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	users := &stubUserRepo{creds: &store.Credentials{
		User:         domain.User{ID: "user-1", Username: "carlos"},
		PasswordHash: string(hash),
	}}
	svc := newTestIam(users, &stubSubRepo{})

	resp, err := svc.SignIn(context.Background(), domain.SignInRequest{Username: "carlos", Password: "password123"})
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}

	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "user-1" || claims["username"] != "carlos" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	goodCreds := &store.Credentials{
		User:         domain.User{ID: "user-1", Username: "carlos"},
		PasswordHash: string(hash),
	}

	tests := []struct {
		name  string
		users *stubUserRepo
		req   domain.SignInRequest
	}{
		{name: "unknown username", users: &stubUserRepo{credsErr: store.ErrUserNotFound}, req: domain.SignInRequest{Username: "ghost", Password: "password123"}},
		{name: "wrong password", users: &stubUserRepo{creds: goodCreds}, req: domain.SignInRequest{Username: "carlos", Password: "nope"}},
		{name: "empty request", users: &stubUserRepo{creds: goodCreds}, req: domain.SignInRequest{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestIam(tt.users, &stubSubRepo{})
			if _, err := svc.SignIn(context.Background(), tt.req); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}
