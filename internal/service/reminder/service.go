package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
	"github.com/pawclinic/vet-api/pkg/messaging"
	"github.com/pawclinic/vet-api/pkg/metrics"
)

// Scan windows and the dedup horizon.
const (
	UpcomingWindow    = 24 * time.Hour
	UnconfirmedWindow = 48 * time.Hour
	VaccinationWindow = 30 * 24 * time.Hour
	CheckupInterval   = 365 * 24 * time.Hour

	DedupWindow = 24 * time.Hour

	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Service runs the four reminder scans against appointment, vaccination and
// patient data. Each scan is independent; a generated reminder is skipped
// when one of the same type for the same subject already exists inside the
// dedup window.
type Service struct {
	reminders    repository.ReminderRepository
	appointments repository.AppointmentRepository
	visits       repository.VisitRepository
	patients     repository.PatientRepository
	sink         messaging.Sink
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	reminders repository.ReminderRepository,
	appointments repository.AppointmentRepository,
	visits repository.VisitRepository,
	patients repository.PatientRepository,
	sink messaging.Sink,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		reminders:    reminders,
		appointments: appointments,
		visits:       visits,
		patients:     patients,
		sink:         sink,
		metrics:      m,
		logger:       logger.With().Str("component", "reminder").Logger(),
	}
}

// Generate runs all four scans at the given instant and returns the
// reminders it created. A failing scan is logged and counted but does not
// abort the remaining scans.
func (s *Service) Generate(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	var created []*model.Reminder

	scans := []struct {
		name string
		run  func(context.Context, time.Time) ([]*model.Reminder, error)
	}{
		{"upcoming", s.scanUpcoming},
		{"unconfirmed", s.scanUnconfirmed},
		{"vaccination_due", s.scanVaccinationsDue},
		{"checkup_overdue", s.scanCheckupOverdue},
	}

	for _, scan := range scans {
		reminders, err := scan.run(ctx, now)
		if err != nil {
			if s.metrics != nil {
				s.metrics.ReminderScanErrors.Inc()
			}
			s.logger.Error().Err(err).Str("scan", scan.name).Msg("reminder scan failed")
			continue
		}
		created = append(created, reminders...)
	}

	return created, nil
}

// List returns persisted reminders, paginated, ordered by due time.
func (s *Service) List(ctx context.Context, filters *model.ReminderFilters) ([]*model.Reminder, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = DefaultPageSize
	}
	if filters.Limit > MaxPageSize {
		filters.Limit = MaxPageSize
	}

	reminders, total, err := s.reminders.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, total, nil
}

func (s *Service) scanUpcoming(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	appointments, err := s.appointments.ListStartingBetween(ctx, now, now.Add(UpcomingWindow), []model.AppointmentStatus{
		model.AppointmentStatusScheduled,
		model.AppointmentStatusConfirmed,
	})
	if err != nil {
		return nil, err
	}

	var created []*model.Reminder
	for _, apt := range appointments {
		r := &model.Reminder{
			Type:      model.ReminderUpcomingAppointment,
			SubjectID: apt.ID,
			PatientID: apt.PatientID,
			ClientID:  apt.ClientID,
			Message:   fmt.Sprintf("Appointment at %s", apt.StartTime.Format(time.RFC3339)),
			DueAt:     apt.StartTime,
		}
		reminder, err := s.emit(ctx, r, now)
		if err != nil {
			return nil, err
		}
		if reminder != nil {
			created = append(created, reminder)
		}
	}
	return created, nil
}

func (s *Service) scanUnconfirmed(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	appointments, err := s.appointments.ListStartingBetween(ctx, now, now.Add(UnconfirmedWindow), []model.AppointmentStatus{
		model.AppointmentStatusScheduled,
	})
	if err != nil {
		return nil, err
	}

	var created []*model.Reminder
	for _, apt := range appointments {
		r := &model.Reminder{
			Type:      model.ReminderUnconfirmedAppointment,
			SubjectID: apt.ID,
			PatientID: apt.PatientID,
			ClientID:  apt.ClientID,
			Message:   fmt.Sprintf("Please confirm your appointment at %s", apt.StartTime.Format(time.RFC3339)),
			DueAt:     apt.StartTime,
		}
		reminder, err := s.emit(ctx, r, now)
		if err != nil {
			return nil, err
		}
		if reminder != nil {
			created = append(created, reminder)
		}
	}
	return created, nil
}

func (s *Service) scanVaccinationsDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	vaccinations, err := s.visits.VaccinationsDueBetween(ctx, now, now.Add(VaccinationWindow))
	if err != nil {
		return nil, err
	}

	var created []*model.Reminder
	for _, vacc := range vaccinations {
		patient, err := s.patients.Get(ctx, vacc.PatientID)
		if err != nil {
			return nil, err
		}
		r := &model.Reminder{
			Type:      model.ReminderVaccinationDue,
			SubjectID: vacc.ID,
			PatientID: vacc.PatientID,
			ClientID:  patient.ClientID,
			Message:   fmt.Sprintf("%s booster for %s due %s", vacc.Name, patient.Name, vacc.NextDueAt.Format("2006-01-02")),
			DueAt:     *vacc.NextDueAt,
		}
		reminder, err := s.emit(ctx, r, now)
		if err != nil {
			return nil, err
		}
		if reminder != nil {
			created = append(created, reminder)
		}
	}
	return created, nil
}

func (s *Service) scanCheckupOverdue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	patients, err := s.appointments.PatientsWithoutCompletedSince(ctx, now.Add(-CheckupInterval))
	if err != nil {
		return nil, err
	}

	var created []*model.Reminder
	for _, patient := range patients {
		r := &model.Reminder{
			Type:      model.ReminderCheckupOverdue,
			SubjectID: patient.ID,
			PatientID: patient.ID,
			ClientID:  patient.ClientID,
			Message:   fmt.Sprintf("%s is due for an annual checkup", patient.Name),
			DueAt:     now,
		}
		reminder, err := s.emit(ctx, r, now)
		if err != nil {
			return nil, err
		}
		if reminder != nil {
			created = append(created, reminder)
		}
	}
	return created, nil
}

// emit persists the reminder unless the dedup window suppresses it, then
// publishes it to the sink. Publish failures are logged, not fatal: the
// reminder is already durable.
func (s *Service) emit(ctx context.Context, r *model.Reminder, now time.Time) (*model.Reminder, error) {
	exists, err := s.reminders.ExistsSince(ctx, r.Type, r.SubjectID, now.Add(-DedupWindow))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	r.ID = uuid.New()
	r.CreatedAt = now
	if err := s.reminders.Create(ctx, r); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RemindersGenerated.WithLabelValues(string(r.Type)).Inc()
	}

	if err := s.sink.Publish(ctx, messaging.TopicReminders, r); err != nil {
		s.logger.Error().Err(err).
			Str("reminder_id", r.ID.String()).
			Msg("failed to publish reminder")
	}

	return r, nil
}
