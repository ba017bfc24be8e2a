package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
)

const appointmentColumns = `
	a.id, a.client_id, a.patient_id, a.vet_id,
	a.start_time, a.end_time, a.type, a.status,
	a.reason, a.notes, a.cancellation_reason,
	a.created_at, a.updated_at`

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, client_id, patient_id, vet_id,
			start_time, end_time, type, status,
			reason, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ClientID,
		apt.PatientID,
		apt.VetID,
		apt.StartTime,
		apt.EndTime,
		apt.Type,
		apt.Status,
		apt.Reason,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + ` FROM appointments a WHERE a.id = $1`

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET vet_id = $1, start_time = $2, end_time = $3, type = $4,
			reason = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		apt.VetID,
		apt.StartTime,
		apt.EndTime,
		apt.Type,
		apt.Reason,
		apt.Notes,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
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

// UpdateStatus only writes the row when its status still equals from, so
// concurrent transitions cannot both win.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus, cancellationReason *string, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1,
			cancellation_reason = COALESCE($2, cancellation_reason),
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, to, cancellationReason, updatedAt, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *appointmentRepository) ListRange(ctx context.Context, from, to time.Time, vetID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments a
		WHERE a.start_time >= $1 AND a.start_time < $2
	`
	args := []interface{}{from, to}

	if vetID != uuid.Nil {
		query += " AND a.vet_id = $3"
		args = append(args, vetID)
	}

	query += " ORDER BY a.start_time ASC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.Search != "" {
		where += fmt.Sprintf(
			" AND (p.name ILIKE $%d OR c.first_name ILIKE $%d OR c.last_name ILIKE $%d)",
			argCount, argCount, argCount,
		)
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}
	if filters.VetID != uuid.Nil {
		where += fmt.Sprintf(" AND a.vet_id = $%d", argCount)
		args = append(args, filters.VetID)
		argCount++
	}
	if filters.ClientID != uuid.Nil {
		where += fmt.Sprintf(" AND a.client_id = $%d", argCount)
		args = append(args, filters.ClientID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND a.patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		where += fmt.Sprintf(" AND a.status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if filters.DateFrom != nil {
		where += fmt.Sprintf(" AND a.start_time >= $%d", argCount)
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		where += fmt.Sprintf(" AND a.start_time <= $%d", argCount)
		args = append(args, *filters.DateTo)
		argCount++
	}

	joins := `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN clients c ON c.id = a.client_id`

	var total int
	countQuery := "SELECT COUNT(*)" + joins + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := "SELECT" + appointmentColumns + joins + where +
		fmt.Sprintf(" ORDER BY a.start_time DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *appointmentRepository) ListStartingBetween(ctx context.Context, from, to time.Time, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments a
		WHERE a.start_time >= ? AND a.start_time < ?
		AND a.status IN (?)
		ORDER BY a.start_time ASC
	`
	query, inArgs, err := sqlx.In(query, from, to, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, r.db.Rebind(query), inArgs...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) PatientsWithoutCompletedSince(ctx context.Context, cutoff time.Time) ([]*model.Patient, error) {
	query := `
		SELECT p.id, p.client_id, p.name, p.species, p.breed, p.sex,
			   p.date_of_birth, p.weight_kg, p.created_at, p.updated_at
		FROM patients p
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.patient_id = p.id
			AND a.status = 'completed'
			AND a.start_time >= $1
		)
		ORDER BY p.name ASC
	`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list overdue patients: %w", err)
	}
	return patients, nil
}
