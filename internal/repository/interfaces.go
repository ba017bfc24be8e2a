package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pawclinic/vet-api/internal/model"
)

// ErrNotFound is returned by all repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

type (
	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		// UpdateStatus performs a conditional status change: the row is
		// only written when its current status still equals from. Returns
		// false when no row matched.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus, cancellationReason *string, updatedAt time.Time) (bool, error)
		// ListRange returns appointments with start_time in [from, to),
		// optionally filtered by vet, ordered by start_time ascending.
		ListRange(ctx context.Context, from, to time.Time, vetID uuid.UUID) ([]*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error)
		// ListStartingBetween returns appointments in the given statuses
		// whose start_time falls in [from, to). Used by the reminder scans.
		ListStartingBetween(ctx context.Context, from, to time.Time, statuses []model.AppointmentStatus) ([]*model.Appointment, error)
		// PatientsWithoutCompletedSince returns patients that have no
		// completed appointment on or after the cutoff.
		PatientsWithoutCompletedSince(ctx context.Context, cutoff time.Time) ([]*model.Patient, error)
	}

	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, int, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error)
	}

	VetRepository interface {
		Create(ctx context.Context, vet *model.Vet) error
		Get(ctx context.Context, id uuid.UUID) (*model.Vet, error)
		Update(ctx context.Context, vet *model.Vet) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.VetFilters) ([]*model.Vet, int, error)
	}

	VisitRepository interface {
		// Create inserts the visit and its vaccinations in one transaction.
		Create(ctx context.Context, visit *model.Visit) error
		Get(ctx context.Context, id uuid.UUID) (*model.Visit, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Visit, error)
		VaccinationsDueBetween(ctx context.Context, from, to time.Time) ([]*model.Vaccination, error)
	}

	ReminderRepository interface {
		Create(ctx context.Context, reminder *model.Reminder) error
		List(ctx context.Context, filters *model.ReminderFilters) ([]*model.Reminder, int, error)
		// ExistsSince reports whether a reminder of the given type for the
		// same subject was created on or after since. This is the dedup
		// window check.
		ExistsSince(ctx context.Context, rtype model.ReminderType, subjectID uuid.UUID, since time.Time) (bool, error)
	}
)
