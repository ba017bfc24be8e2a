package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
	"github.com/pawclinic/vet-api/pkg/apperror"
)

// Directory resolves patient and vet references on visit creation.
type Directory interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetVet(ctx context.Context, id uuid.UUID) (*model.Vet, error)
}

// Service owns clinical visit records. Visits are append-only.
type Service struct {
	repo   repository.VisitRepository
	dir    Directory
	logger zerolog.Logger
}

func NewService(repo repository.VisitRepository, dir Directory, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		dir:    dir,
		logger: logger.With().Str("component", "visit").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateVisitRequest) (*model.Visit, error) {
	if _, err := s.dir.GetPatient(ctx, patientID); err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return nil, apperror.NotFound("patient", patientID)
		}
		return nil, err
	}
	if _, err := s.dir.GetVet(ctx, req.VetID); err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return nil, apperror.Validation("vet %s not found", req.VetID)
		}
		return nil, err
	}

	visit := &model.Visit{
		ID:                 uuid.New(),
		PatientID:          patientID,
		VetID:              req.VetID,
		AppointmentID:      req.AppointmentID,
		Subjective:         req.Subjective,
		Objective:          req.Objective,
		Assessment:         req.Assessment,
		Plan:               req.Plan,
		TemperatureC:       req.TemperatureC,
		HeartRateBPM:       req.HeartRateBPM,
		RespiratoryRateBPM: req.RespiratoryRateBPM,
		WeightKg:           req.WeightKg,
		CreatedAt:          time.Now().UTC(),
	}

	for _, v := range req.Vaccinations {
		visit.Vaccinations = append(visit.Vaccinations, model.Vaccination{
			ID:             uuid.New(),
			VisitID:        visit.ID,
			PatientID:      patientID,
			Name:           v.Name,
			LotNumber:      v.LotNumber,
			AdministeredAt: v.AdministeredAt,
			NextDueAt:      v.NextDueAt,
		})
	}

	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}

	s.logger.Info().
		Str("visit_id", visit.ID.String()).
		Str("patient_id", patientID.String()).
		Int("vaccinations", len(visit.Vaccinations)).
		Msg("visit recorded")

	return visit, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	visit, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("visit", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return visit, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Visit, error) {
	if _, err := s.dir.GetPatient(ctx, patientID); err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return nil, apperror.NotFound("patient", patientID)
		}
		return nil, err
	}

	visits, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}
