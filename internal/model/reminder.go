package model

import (
	"time"

	"github.com/google/uuid"
)

type ReminderType string

const (
	ReminderUpcomingAppointment    ReminderType = "upcoming_appointment"
	ReminderUnconfirmedAppointment ReminderType = "unconfirmed_appointment"
	ReminderVaccinationDue         ReminderType = "vaccination_due"
	ReminderCheckupOverdue         ReminderType = "checkup_overdue"
)

// Reminder is a generated notification candidate. SubjectID is the record
// the rule fired on (appointment, vaccination or patient, depending on the
// type) and also the dedup key together with the type.
type Reminder struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	Type      ReminderType `db:"type" json:"type"`
	SubjectID uuid.UUID    `db:"subject_id" json:"subjectId"`
	PatientID uuid.UUID    `db:"patient_id" json:"patientId"`
	ClientID  uuid.UUID    `db:"client_id" json:"clientId"`
	Message   string       `db:"message" json:"message"`
	DueAt     time.Time    `db:"due_at" json:"dueAt"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}

type ReminderFilters struct {
	Type      ReminderType
	PatientID uuid.UUID
	ClientID  uuid.UUID
	Page      int
	Limit     int
}
