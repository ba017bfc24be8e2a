package appointment

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

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Directory resolves the externally-owned records an appointment references.
// Existence is checked at booking; lifecycle of the referenced records is
// not tracked.
type Directory interface {
	GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetVet(ctx context.Context, id uuid.UUID) (*model.Vet, error)
}

type Config struct {
	// AllowEditAfterTerminal permits field edits on completed, cancelled
	// and no_show appointments. On by default to match the product's
	// historical behavior.
	AllowEditAfterTerminal bool
}

type Service struct {
	repo   repository.AppointmentRepository
	dir    Directory
	cfg    Config
	logger zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, dir Directory, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		dir:    dir,
		cfg:    cfg,
		logger: logger.With().Str("component", "appointment").Logger(),
	}
}

// Book creates a new appointment in scheduled status. Double-booking a vet
// or patient is intentionally not rejected; overlapping appointments are
// resolved by front-desk staff.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	if !req.StartTime.Before(req.EndTime) {
		return nil, apperror.Validation("startTime must be before endTime")
	}
	if err := s.checkReferences(ctx, req.ClientID, req.PatientID, req.VetID); err != nil {
		return nil, err
	}

	aptType := req.Type
	if aptType == "" {
		aptType = model.AppointmentTypeOther
	}

	now := time.Now().UTC()
	apt := &model.Appointment{
		ID:        uuid.New(),
		ClientID:  req.ClientID,
		PatientID: req.PatientID,
		VetID:     req.VetID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      aptType,
		Status:    model.AppointmentStatusScheduled,
		Reason:    req.Reason,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.logger.Info().
		Str("appointment_id", apt.ID.String()).
		Str("vet_id", apt.VetID.String()).
		Time("start_time", apt.StartTime).
		Msg("appointment booked")

	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("appointment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// Transition moves an appointment to targetStatus if the lifecycle graph
// permits it. The status write is conditional on the observed current
// status, so a concurrent transition that wins the race surfaces as a
// conflict rather than a silent lost update. A supplied cancellationReason
// is stored verbatim regardless of the target status.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, target model.AppointmentStatus, cancellationReason *string) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(apt.Status, target) {
		return nil, apperror.InvalidTransition(string(apt.Status), string(target))
	}

	updatedAt := time.Now().UTC()
	updated, err := s.repo.UpdateStatus(ctx, id, apt.Status, target, cancellationReason, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to transition appointment: %w", err)
	}
	if !updated {
		// The row changed underneath us or disappeared.
		if _, getErr := s.repo.Get(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment", id)
		}
		return nil, apperror.Conflict("appointment status changed concurrently, re-fetch and retry")
	}

	apt.Status = target
	if cancellationReason != nil {
		apt.CancellationReason = cancellationReason
	}
	apt.UpdatedAt = updatedAt

	s.logger.Info().
		Str("appointment_id", id.String()).
		Str("status", string(target)).
		Msg("appointment transitioned")

	return apt, nil
}

// Update applies a partial field edit. Edits are allowed on terminal
// appointments when AllowEditAfterTerminal is set; status never changes
// here.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if IsTerminal(apt.Status) && !s.cfg.AllowEditAfterTerminal {
		return nil, apperror.Validation("appointment in %s status cannot be edited", apt.Status)
	}

	if req.VetID != nil && *req.VetID != apt.VetID {
		if _, err := s.dir.GetVet(ctx, *req.VetID); err != nil {
			return nil, referenceError("vet", *req.VetID, err)
		}
		apt.VetID = *req.VetID
	}
	if req.StartTime != nil {
		apt.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		apt.EndTime = *req.EndTime
	}
	if !apt.StartTime.Before(apt.EndTime) {
		return nil, apperror.Validation("startTime must be before endTime")
	}
	if req.Type != nil {
		apt.Type = *req.Type
	}
	if req.Reason != nil {
		apt.Reason = *req.Reason
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	apt.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment", id)
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return apt, nil
}

// GetDay returns every appointment whose start time falls on the given
// calendar date (UTC), sorted by start time ascending. vetID narrows the
// set to one vet when non-nil.
func (s *Service) GetDay(ctx context.Context, date string, vetID uuid.UUID) ([]*model.Appointment, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, apperror.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}

	appointments, err := s.repo.ListRange(ctx, day, day.Add(24*time.Hour), vetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query day: %w", err)
	}
	return appointments, nil
}

// List applies the given filters with AND semantics, ordered by start time
// descending, paginated.
func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = DefaultPageSize
	}
	if filters.Limit > MaxPageSize {
		filters.Limit = MaxPageSize
	}

	appointments, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (s *Service) checkReferences(ctx context.Context, clientID, patientID, vetID uuid.UUID) error {
	if _, err := s.dir.GetClient(ctx, clientID); err != nil {
		return referenceError("client", clientID, err)
	}
	if _, err := s.dir.GetPatient(ctx, patientID); err != nil {
		return referenceError("patient", patientID, err)
	}
	if _, err := s.dir.GetVet(ctx, vetID); err != nil {
		return referenceError("vet", vetID, err)
	}
	return nil
}

// referenceError converts a missing directory record into a validation
// error: the appointment id itself resolved, the reference did not.
func referenceError(resource string, id uuid.UUID, err error) error {
	if apperror.IsCode(err, apperror.CodeNotFound) || errors.Is(err, repository.ErrNotFound) {
		return apperror.Validation("%s %s not found", resource, id)
	}
	return fmt.Errorf("failed to resolve %s: %w", resource, err)
}
