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

type visitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO visits (
			id, patient_id, vet_id, appointment_id,
			subjective, objective, assessment, plan,
			temperature_c, heart_rate_bpm, respiratory_rate_bpm, weight_kg,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.ExecContext(ctx, query,
		visit.ID,
		visit.PatientID,
		visit.VetID,
		visit.AppointmentID,
		visit.Subjective,
		visit.Objective,
		visit.Assessment,
		visit.Plan,
		visit.TemperatureC,
		visit.HeartRateBPM,
		visit.RespiratoryRateBPM,
		visit.WeightKg,
		visit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	vaccQuery := `
		INSERT INTO vaccinations (id, visit_id, patient_id, name, lot_number, administered_at, next_due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, v := range visit.Vaccinations {
		_, err = tx.ExecContext(ctx, vaccQuery,
			v.ID,
			v.VisitID,
			v.PatientID,
			v.Name,
			v.LotNumber,
			v.AdministeredAt,
			v.NextDueAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create vaccination: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	var visit model.Visit
	err := r.db.GetContext(ctx, &visit, `SELECT * FROM visits WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	if err := r.attachVaccinations(ctx, []*model.Visit{&visit}); err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Visit, error) {
	visits := []*model.Visit{}
	query := `SELECT * FROM visits WHERE patient_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &visits, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	if err := r.attachVaccinations(ctx, visits); err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *visitRepository) attachVaccinations(ctx context.Context, visits []*model.Visit) error {
	if len(visits) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(visits))
	byVisit := make(map[uuid.UUID]*model.Visit, len(visits))
	for _, v := range visits {
		ids = append(ids, v.ID)
		byVisit[v.ID] = v
	}

	query, args, err := sqlx.In(`SELECT * FROM vaccinations WHERE visit_id IN (?) ORDER BY administered_at ASC`, ids)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	vaccinations := []*model.Vaccination{}
	if err := r.db.SelectContext(ctx, &vaccinations, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to list vaccinations: %w", err)
	}

	for _, vacc := range vaccinations {
		if visit, ok := byVisit[vacc.VisitID]; ok {
			visit.Vaccinations = append(visit.Vaccinations, *vacc)
		}
	}
	return nil
}

func (r *visitRepository) VaccinationsDueBetween(ctx context.Context, from, to time.Time) ([]*model.Vaccination, error) {
	query := `
		SELECT * FROM vaccinations
		WHERE next_due_at IS NOT NULL
		AND next_due_at >= $1 AND next_due_at < $2
		ORDER BY next_due_at ASC
	`
	vaccinations := []*model.Vaccination{}
	if err := r.db.SelectContext(ctx, &vaccinations, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list due vaccinations: %w", err)
	}
	return vaccinations, nil
}
