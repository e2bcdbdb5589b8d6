/**
 * @description
 * This file implements the data access layer for user accounts. Password
 * hashes never leave this package: sign-in verification receives the hash
 * through the Credentials struct, and every other query returns the public
 * profile only.
 */
package store

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstock/labstock-backend/internal/domain"
)

// Credentials pairs a user's public profile with its stored password hash.
type Credentials struct {
	User         domain.User
	PasswordHash string
}

// UserRepository defines the interface for user data storage.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User, passwordHash string) (string, error)
	FindCredentialsByUsername(ctx context.Context, username string) (*Credentials, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
}

// PostgresUserRepository is the PostgreSQL implementation of UserRepository.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository creates a new instance of PostgresUserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, username, full_name, email, phone, role, organization, document_registration, avatar_url, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.Organization,
		&u.DocumentRegistration,
		&u.AvatarURL,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user record and returns its assigned ID.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *domain.User, passwordHash string) (string, error) {
	query := `
        INSERT INTO users (id, username, password_hash, full_name, email, phone, role, organization, document_registration, avatar_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	id := uuid.NewString()
	err := r.db.QueryRow(ctx, query,
		id,
		user.Username,
		passwordHash,
		user.FullName,
		user.Email,
		user.Phone,
		user.Role,
		user.Organization,
		user.DocumentRegistration,
		user.AvatarURL,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrDuplicateUser
		}
		log.Printf("Error inserting user into database: %v", err)
		return "", err
	}
	return id, nil
}

// FindCredentialsByUsername loads the profile and password hash for sign-in.
func (r *PostgresUserRepository) FindCredentialsByUsername(ctx context.Context, username string) (*Credentials, error) {
	query := `
        SELECT ` + userColumns + `, password_hash
        FROM users
        WHERE username = $1
    `
	var creds Credentials
	err := r.db.QueryRow(ctx, query, username).Scan(
		&creds.User.ID,
		&creds.User.Username,
		&creds.User.FullName,
		&creds.User.Email,
		&creds.User.Phone,
		&creds.User.Role,
		&creds.User.Organization,
		&creds.User.DocumentRegistration,
		&creds.User.AvatarURL,
		&creds.User.CreatedAt,
		&creds.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &creds, nil
}

// GetUserByID retrieves a single user's public profile.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns every user's public profile.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser replaces the mutable profile fields of an existing user.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        UPDATE users
        SET full_name = $2, email = $3, phone = $4, role = $5, organization = $6,
            document_registration = $7, avatar_url = $8
        WHERE id = $1
        RETURNING ` + userColumns + `
	`
	updated, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.Phone,
		user.Role,
		user.Organization,
		user.DocumentRegistration,
		user.AvatarURL,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return updated, nil
}
