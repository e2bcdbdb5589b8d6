/**
 * @description
 * This file implements the data access layer for inventory items. The server
 * treats items as plain records; lifecycle rules (quantity arithmetic, status
 * transitions) live in the client-side inventory store.
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

// InventoryRepository defines the interface for inventory item storage.
type InventoryRepository interface {
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
	GetItemByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
}

// PostgresInventoryRepository is the PostgreSQL implementation of InventoryRepository.
type PostgresInventoryRepository struct {
	db *pgxpool.Pool
}

// NewPostgresInventoryRepository creates a new instance of PostgresInventoryRepository.
func NewPostgresInventoryRepository(db *pgxpool.Pool) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{db: db}
}

const itemColumns = `id, name, category, quantity, status, description, user_id, laboratory_id`

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Quantity,
		&item.Status,
		&item.Description,
		&item.UserID,
		&item.LaboratoryID,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns every inventory item.
func (r *PostgresInventoryRepository) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM inventory ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItemByID retrieves a single inventory item.
func (r *PostgresInventoryRepository) GetItemByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// CreateItem inserts a new inventory item, defaulting the status to in_stock
// when the client did not set one.
func (r *PostgresInventoryRepository) CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	status := item.Status
	if status == "" {
		status = domain.StatusInStock
	}
	query := `
        INSERT INTO inventory (id, name, category, quantity, status, description, user_id, laboratory_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + itemColumns + `
	`
	return scanItem(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		item.Name,
		item.Category,
		item.Quantity,
		status,
		item.Description,
		item.UserID,
		item.LaboratoryID,
	))
}

// UpdateItem replaces all mutable fields of an existing item.
func (r *PostgresInventoryRepository) UpdateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	query := `
        UPDATE inventory
        SET name = $2, category = $3, quantity = $4, status = $5, description = $6,
            user_id = $7, laboratory_id = $8
        WHERE id = $1
        RETURNING ` + itemColumns + `
	`
	updated, err := scanItem(r.db.QueryRow(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.Quantity,
		item.Status,
		item.Description,
		item.UserID,
		item.LaboratoryID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteItem removes an item from the store.
func (r *PostgresInventoryRepository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
