/**
 * @description
 * This file implements the data access layer for subscriptions and plans.
 * The subscriptions table carries a unique index on user_id, so a user has a
 * single mutable subscription row; UpsertSubscription keeps the "at most one
 * active subscription per user" invariant without a transaction.
 */
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstock/labstock-backend/internal/domain"
)

// SubscriptionRepository defines the interface for subscription and plan storage.
type SubscriptionRepository interface {
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	GetSubscriptionByID(ctx context.Context, id string) (*domain.Subscription, error)
	GetSubscriptionByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
	UpsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
	DeactivateExpiredSubscriptions(ctx context.Context) (int64, error)

	ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error)
	GetPlanByID(ctx context.Context, id string) (*domain.SubscriptionPlan, error)
}

// PostgresSubscriptionRepository is the PostgreSQL implementation of SubscriptionRepository.
type PostgresSubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates a new instance of PostgresSubscriptionRepository.
func NewPostgresSubscriptionRepository(db *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, plan_type, start_date, end_date, max_members, max_inventory_items, is_active`

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanType,
		&sub.StartDate,
		&sub.EndDate,
		&sub.MaxMembers,
		&sub.MaxInventoryItems,
		&sub.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriptions returns every subscription.
func (r *PostgresSubscriptionRepository) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := r.db.Query(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY start_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// GetSubscriptionByID retrieves a single subscription.
func (r *PostgresSubscriptionRepository) GetSubscriptionByID(ctx context.Context, id string) (*domain.Subscription, error) {
	sub, err := scanSubscription(r.db.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// GetSubscriptionByUserID retrieves the subscription row for a given user.
func (r *PostgresSubscriptionRepository) GetSubscriptionByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := scanSubscription(r.db.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// UpsertSubscription creates the user's subscription row or replaces its
// plan, limits and period in place.
func (r *PostgresSubscriptionRepository) UpsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	query := `
        INSERT INTO subscriptions (id, user_id, plan_type, start_date, end_date, max_members, max_inventory_items, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            plan_type = EXCLUDED.plan_type,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            max_members = EXCLUDED.max_members,
            max_inventory_items = EXCLUDED.max_inventory_items,
            is_active = EXCLUDED.is_active
        RETURNING ` + subscriptionColumns + `
	`
	return scanSubscription(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		sub.UserID,
		sub.PlanType,
		sub.StartDate,
		sub.EndDate,
		sub.MaxMembers,
		sub.MaxInventoryItems,
		sub.IsActive,
	))
}

// DeleteSubscription removes a subscription row.
func (r *PostgresSubscriptionRepository) DeleteSubscription(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// DeactivateExpiredSubscriptions flips is_active off for every subscription
// whose end date has passed. Returns the number of rows affected.
func (r *PostgresSubscriptionRepository) DeactivateExpiredSubscriptions(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE subscriptions
        SET is_active = FALSE
        WHERE is_active = TRUE AND end_date IS NOT NULL AND end_date < NOW()
    `)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const planColumns = `id, name, price, currency, period, max_members, max_inventory_items, features`

func scanPlan(row pgx.Row) (*domain.SubscriptionPlan, error) {
	var plan domain.SubscriptionPlan
	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Price,
		&plan.Currency,
		&plan.Period,
		&plan.MaxMembers,
		&plan.MaxInventoryItems,
		&plan.Features,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans returns the plan catalog.
func (r *PostgresSubscriptionRepository) ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+planColumns+` FROM plans ORDER BY price`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.SubscriptionPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// GetPlanByID retrieves a single plan.
func (r *PostgresSubscriptionRepository) GetPlanByID(ctx context.Context, id string) (*domain.SubscriptionPlan, error) {
	plan, err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}
