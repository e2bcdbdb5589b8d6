/**
 * @description
 * This file contains the authentication business logic: registration with
 * bcrypt password hashing, credential verification, and JWT issuance. A
 * fresh account always starts on the Free plan, so sign-up also bootstraps
 * the user's subscription row.
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/internal/store"
)

var (
	// ErrInvalidCredentials is returned on sign-in when the username is
	// unknown or the password does not match. The two cases are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingFields is returned on sign-up when a required field is empty.
	ErrMissingFields = errors.New("username, password, full name, and email are required")
)

// IamService provides registration and authentication.
type IamService struct {
	users     store.UserRepository
	subs      store.SubscriptionRepository
	logger    *slog.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewIamService creates a new IamService.
func NewIamService(users store.UserRepository, subs store.SubscriptionRepository, logger *slog.Logger, jwtSecret string, tokenTTL time.Duration) *IamService {
	return &IamService{
		users:     users,
		subs:      subs,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// SignUp registers a new account and bootstraps its Free subscription.
// Returns store.ErrDuplicateUser when the username or email is taken.
func (s *IamService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.SignUpResponse, error) {
	if req.Username == "" || req.Password == "" || req.FullName == "" || req.Email == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleTechnician
	}
	newUser := &domain.User{
		Username:             req.Username,
		FullName:             req.FullName,
		Email:                req.Email,
		Phone:                req.Phone,
		Role:                 role,
		Organization:         req.Organization,
		DocumentRegistration: req.DocumentRegistration,
		AvatarURL:            req.AvatarURL,
	}

	userID, err := s.users.CreateUser(ctx, newUser, string(hash))
	if err != nil {
		return nil, err
	}

	// Subscription bootstrap is best-effort: the account is usable on the
	// implicit free tier even if this row could not be written.
	freeSub := &domain.Subscription{
		UserID:            userID,
		PlanType:          "Free",
		StartDate:         time.Now(),
		MaxMembers:        domain.DefaultFreeMaxMembers,
		MaxInventoryItems: domain.DefaultFreeMaxInventoryItems,
		IsActive:          true,
	}
	if _, err := s.subs.UpsertSubscription(ctx, freeSub); err != nil {
		s.logger.Warn("could not create default subscription", "user_id", userID, "error", err)
	}

	return &domain.SignUpResponse{
		Message:  "User registered successfully",
		ID:       userID,
		Username: req.Username,
	}, nil
}

// SignIn verifies the credentials and returns the profile with a signed
// bearer token.
func (s *IamService) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.SignInResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	creds, err := s.users.FindCredentialsByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(creds.User)
	if err != nil {
		return nil, err
	}

	return &domain.SignInResponse{User: creds.User, Token: token}, nil
}

func (s *IamService) issueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
