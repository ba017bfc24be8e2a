package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
)

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (id, type, subject_id, patient_id, client_id, message, due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.Type,
		reminder.SubjectID,
		reminder.PatientID,
		reminder.ClientID,
		reminder.Message,
		reminder.DueAt,
		reminder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) List(ctx context.Context, filters *model.ReminderFilters) ([]*model.Reminder, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, filters.Type)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.ClientID != uuid.Nil {
		where += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, filters.ClientID)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reminders"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count reminders: %w", err)
	}

	query := "SELECT * FROM reminders" + where +
		fmt.Sprintf(" ORDER BY due_at ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	reminders := []*model.Reminder{}
	if err := r.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, total, nil
}

func (r *reminderRepository) ExistsSince(ctx context.Context, rtype model.ReminderType, subjectID uuid.UUID, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reminders
			WHERE type = $1 AND subject_id = $2 AND created_at >= $3
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, rtype, subjectID, since); err != nil {
		return false, fmt.Errorf("failed to check reminder dedup: %w", err)
	}
	return exists, nil
}
