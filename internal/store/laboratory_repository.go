/**
 * @description
 * This file implements the data access layer for laboratories and lab
 * responsibles. Membership is stored as a text array on the laboratory row;
 * the whole record is replaced on update, matching the client's
 * persist-the-whole-laboratory membership flow.
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

// LaboratoryRepository defines the interface for laboratory storage.
type LaboratoryRepository interface {
	ListLaboratories(ctx context.Context) ([]domain.Laboratory, error)
	GetLaboratoryByID(ctx context.Context, id string) (*domain.Laboratory, error)
	CreateLaboratory(ctx context.Context, lab *domain.Laboratory) (*domain.Laboratory, error)
	UpdateLaboratory(ctx context.Context, lab *domain.Laboratory) (*domain.Laboratory, error)
	DeleteLaboratory(ctx context.Context, id string) error

	ListLabResponsibles(ctx context.Context) ([]domain.LabResponsible, error)
	GetLabResponsibleByID(ctx context.Context, id string) (*domain.LabResponsible, error)
	CreateLabResponsible(ctx context.Context, resp *domain.LabResponsible) (*domain.LabResponsible, error)
	UpdateLabResponsible(ctx context.Context, resp *domain.LabResponsible) (*domain.LabResponsible, error)
	DeleteLabResponsible(ctx context.Context, id string) error
}

// PostgresLaboratoryRepository is the PostgreSQL implementation of LaboratoryRepository.
type PostgresLaboratoryRepository struct {
	db *pgxpool.Pool
}

// NewPostgresLaboratoryRepository creates a new instance of PostgresLaboratoryRepository.
func NewPostgresLaboratoryRepository(db *pgxpool.Pool) *PostgresLaboratoryRepository {
	return &PostgresLaboratoryRepository{db: db}
}

const labColumns = `id, name, address, phone, capacity, registration_date, lab_responsible_id, admin_user_id, member_user_ids`

func scanLaboratory(row pgx.Row) (*domain.Laboratory, error) {
	var lab domain.Laboratory
	err := row.Scan(
		&lab.ID,
		&lab.Name,
		&lab.Address,
		&lab.Phone,
		&lab.Capacity,
		&lab.RegistrationDate,
		&lab.LabResponsibleID,
		&lab.AdminUserID,
		&lab.MemberUserIDs,
	)
	if err != nil {
		return nil, err
	}
	if lab.MemberUserIDs == nil {
		lab.MemberUserIDs = []string{}
	}
	return &lab, nil
}

// ListLaboratories returns every laboratory.
func (r *PostgresLaboratoryRepository) ListLaboratories(ctx context.Context) ([]domain.Laboratory, error) {
	rows, err := r.db.Query(ctx, `SELECT `+labColumns+` FROM laboratories ORDER BY registration_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labs []domain.Laboratory
	for rows.Next() {
		lab, err := scanLaboratory(rows)
		if err != nil {
			return nil, err
		}
		labs = append(labs, *lab)
	}
	return labs, rows.Err()
}

// GetLaboratoryByID retrieves a single laboratory.
func (r *PostgresLaboratoryRepository) GetLaboratoryByID(ctx context.Context, id string) (*domain.Laboratory, error) {
	lab, err := scanLaboratory(r.db.QueryRow(ctx, `SELECT `+labColumns+` FROM laboratories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLaboratoryNotFound
		}
		return nil, err
	}
	return lab, nil
}

// CreateLaboratory inserts a new laboratory.
func (r *PostgresLaboratoryRepository) CreateLaboratory(ctx context.Context, lab *domain.Laboratory) (*domain.Laboratory, error) {
	members := lab.MemberUserIDs
	if members == nil {
		members = []string{}
	}
	query := `
        INSERT INTO laboratories (id, name, address, phone, capacity, registration_date, lab_responsible_id, admin_user_id, member_user_ids)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + labColumns + `
	`
	return scanLaboratory(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		lab.Name,
		lab.Address,
		lab.Phone,
		lab.Capacity,
		lab.RegistrationDate,
		lab.LabResponsibleID,
		lab.AdminUserID,
		members,
	))
}

// UpdateLaboratory replaces all mutable fields, membership included.
func (r *PostgresLaboratoryRepository) UpdateLaboratory(ctx context.Context, lab *domain.Laboratory) (*domain.Laboratory, error) {
	members := lab.MemberUserIDs
	if members == nil {
		members = []string{}
	}
	query := `
        UPDATE laboratories
        SET name = $2, address = $3, phone = $4, capacity = $5,
            lab_responsible_id = $6, admin_user_id = $7, member_user_ids = $8
        WHERE id = $1
        RETURNING ` + labColumns + `
	`
	updated, err := scanLaboratory(r.db.QueryRow(ctx, query,
		lab.ID,
		lab.Name,
		lab.Address,
		lab.Phone,
		lab.Capacity,
		lab.LabResponsibleID,
		lab.AdminUserID,
		members,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLaboratoryNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteLaboratory removes a laboratory.
func (r *PostgresLaboratoryRepository) DeleteLaboratory(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM laboratories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLaboratoryNotFound
	}
	return nil
}

const responsibleColumns = `id, full_name, email, phone, certification`

func scanLabResponsible(row pgx.Row) (*domain.LabResponsible, error) {
	var resp domain.LabResponsible
	err := row.Scan(&resp.ID, &resp.FullName, &resp.Email, &resp.Phone, &resp.Certification)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListLabResponsibles returns every lab responsible.
func (r *PostgresLaboratoryRepository) ListLabResponsibles(ctx context.Context) ([]domain.LabResponsible, error) {
	rows, err := r.db.Query(ctx, `SELECT `+responsibleColumns+` FROM lab_responsibles ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responsibles []domain.LabResponsible
	for rows.Next() {
		resp, err := scanLabResponsible(rows)
		if err != nil {
			return nil, err
		}
		responsibles = append(responsibles, *resp)
	}
	return responsibles, rows.Err()
}

// GetLabResponsibleByID retrieves a single lab responsible.
func (r *PostgresLaboratoryRepository) GetLabResponsibleByID(ctx context.Context, id string) (*domain.LabResponsible, error) {
	resp, err := scanLabResponsible(r.db.QueryRow(ctx, `SELECT `+responsibleColumns+` FROM lab_responsibles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLabResponsibleNotFound
		}
		return nil, err
	}
	return resp, nil
}

// CreateLabResponsible inserts a new lab responsible.
func (r *PostgresLaboratoryRepository) CreateLabResponsible(ctx context.Context, resp *domain.LabResponsible) (*domain.LabResponsible, error) {
	query := `
        INSERT INTO lab_responsibles (id, full_name, email, phone, certification)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + responsibleColumns + `
	`
	return scanLabResponsible(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		resp.FullName,
		resp.Email,
		resp.Phone,
		resp.Certification,
	))
}

// UpdateLabResponsible replaces all mutable fields of a lab responsible.
func (r *PostgresLaboratoryRepository) UpdateLabResponsible(ctx context.Context, resp *domain.LabResponsible) (*domain.LabResponsible, error) {
	query := `
        UPDATE lab_responsibles
        SET full_name = $2, email = $3, phone = $4, certification = $5
        WHERE id = $1
        RETURNING ` + responsibleColumns + `
	`
	updated, err := scanLabResponsible(r.db.QueryRow(ctx, query,
		resp.ID,
		resp.FullName,
		resp.Email,
		resp.Phone,
		resp.Certification,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLabResponsibleNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteLabResponsible removes a lab responsible.
func (r *PostgresLaboratoryRepository) DeleteLabResponsible(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lab_responsibles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLabResponsibleNotFound
	}
	return nil
}
