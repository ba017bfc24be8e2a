package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
)

type vetRepository struct {
	db *sqlx.DB
}

func NewVetRepository(db *sqlx.DB) repository.VetRepository {
	return &vetRepository{db: db}
}

func (r *vetRepository) Create(ctx context.Context, vet *model.Vet) error {
	query := `
		INSERT INTO vets (id, name, email, license_number, specialty, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		vet.ID,
		vet.Name,
		vet.Email,
		vet.LicenseNumber,
		vet.Specialty,
		vet.Active,
		vet.CreatedAt,
		vet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vet: %w", err)
	}
	return nil
}

func (r *vetRepository) Get(ctx context.Context, id uuid.UUID) (*model.Vet, error) {
	query := `SELECT * FROM vets WHERE id = $1`

	var vet model.Vet
	err := r.db.GetContext(ctx, &vet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vet: %w", err)
	}
	return &vet, nil
}

func (r *vetRepository) Update(ctx context.Context, vet *model.Vet) error {
	query := `
		UPDATE vets
		SET name = $1, email = $2, license_number = $3, specialty = $4, active = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		vet.Name,
		vet.Email,
		vet.LicenseNumber,
		vet.Specialty,
		vet.Active,
		vet.UpdatedAt,
		vet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vet: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *vetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vet: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *vetRepository) List(ctx context.Context, filters *model.VetFilters) ([]*model.Vet, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}
	if filters.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argCount)
		args = append(args, *filters.Active)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM vets"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count vets: %w", err)
	}

	query := "SELECT * FROM vets" + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	vets := []*model.Vet{}
	if err := r.db.SelectContext(ctx, &vets, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list vets: %w", err)
	}
	return vets, total, nil
}
