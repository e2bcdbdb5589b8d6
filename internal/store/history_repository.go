/**
 * @description
 * This file implements the data access layer for the inventory audit log.
 * The table is append-only: there are intentionally no update or delete
 * operations on history entries.
 */
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstock/labstock-backend/internal/domain"
)

// HistoryRepository defines the interface for audit log storage.
type HistoryRepository interface {
	ListEntries(ctx context.Context) ([]domain.HistoryEntry, error)
	CreateEntry(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error)
}

// PostgresHistoryRepository is the PostgreSQL implementation of HistoryRepository.
type PostgresHistoryRepository struct {
	db *pgxpool.Pool
}

// NewPostgresHistoryRepository creates a new instance of PostgresHistoryRepository.
func NewPostgresHistoryRepository(db *pgxpool.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

const historyColumns = `id, inventory_item_id, laboratory_id, action, previous_status, new_status, quantity, user_id, username, recorded_at, description`

func scanHistoryEntry(row pgx.Row) (*domain.HistoryEntry, error) {
	var e domain.HistoryEntry
	err := row.Scan(
		&e.ID,
		&e.InventoryItemID,
		&e.LaboratoryID,
		&e.Action,
		&e.PreviousStatus,
		&e.NewStatus,
		&e.Quantity,
		&e.UserID,
		&e.Username,
		&e.Timestamp,
		&e.Description,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries returns the full audit log in recording order.
func (r *PostgresHistoryRepository) ListEntries(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+historyColumns+` FROM history ORDER BY recorded_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// CreateEntry appends a new entry to the audit log.
func (r *PostgresHistoryRepository) CreateEntry(ctx context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error) {
	query := `
        INSERT INTO history (id, inventory_item_id, laboratory_id, action, previous_status, new_status, quantity, user_id, username, recorded_at, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + historyColumns + `
	`
	return scanHistoryEntry(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		entry.InventoryItemID,
		entry.LaboratoryID,
		entry.Action,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.Quantity,
		entry.UserID,
		entry.Username,
		entry.Timestamp,
		entry.Description,
	))
}
