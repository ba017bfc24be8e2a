package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusCheckedIn  AppointmentStatus = "checked_in"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

type AppointmentType string

const (
	AppointmentTypeCheckup     AppointmentType = "checkup"
	AppointmentTypeVaccination AppointmentType = "vaccination"
	AppointmentTypeSurgery     AppointmentType = "surgery"
	AppointmentTypeDental      AppointmentType = "dental"
	AppointmentTypeGrooming    AppointmentType = "grooming"
	AppointmentTypeEmergency   AppointmentType = "emergency"
	AppointmentTypeFollowUp    AppointmentType = "follow_up"
	AppointmentTypeLabWork     AppointmentType = "lab_work"
	AppointmentTypeOther       AppointmentType = "other"
)

// Appointment is a scheduled block of clinical time linking a client,
// patient and veterinarian. Appointments are never hard-deleted;
// cancellation is a terminal status.
type Appointment struct {
	ID                 uuid.UUID         `db:"id" json:"id"`
	ClientID           uuid.UUID         `db:"client_id" json:"clientId"`
	PatientID          uuid.UUID         `db:"patient_id" json:"patientId"`
	VetID              uuid.UUID         `db:"vet_id" json:"vetId"`
	StartTime          time.Time         `db:"start_time" json:"startTime"`
	EndTime            time.Time         `db:"end_time" json:"endTime"`
	Type               AppointmentType   `db:"type" json:"type"`
	Status             AppointmentStatus `db:"status" json:"status"`
	Reason             string            `db:"reason" json:"reason,omitempty"`
	Notes              string            `db:"notes" json:"notes,omitempty"`
	CancellationReason *string           `db:"cancellation_reason" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updatedAt"`
}

type BookAppointmentRequest struct {
	ClientID  uuid.UUID       `json:"clientId" binding:"required"`
	PatientID uuid.UUID       `json:"patientId" binding:"required"`
	VetID     uuid.UUID       `json:"vetId" binding:"required"`
	StartTime time.Time       `json:"startTime" binding:"required"`
	EndTime   time.Time       `json:"endTime" binding:"required"`
	Type      AppointmentType `json:"type" binding:"omitempty,oneof=checkup vaccination surgery dental grooming emergency follow_up lab_work other"`
	Reason    string          `json:"reason" binding:"max=2000"`
	Notes     string          `json:"notes" binding:"max=2000"`
}

// UpdateAppointmentRequest is a partial update; nil fields are left alone.
// Status is deliberately absent: status only changes through the transition
// endpoint.
type UpdateAppointmentRequest struct {
	VetID     *uuid.UUID       `json:"vetId"`
	StartTime *time.Time       `json:"startTime"`
	EndTime   *time.Time       `json:"endTime"`
	Type      *AppointmentType `json:"type" binding:"omitempty,oneof=checkup vaccination surgery dental grooming emergency follow_up lab_work other"`
	Reason    *string          `json:"reason"`
	Notes     *string          `json:"notes"`
}

type TransitionRequest struct {
	Status             AppointmentStatus `json:"status" binding:"required,oneof=scheduled confirmed checked_in in_progress completed cancelled no_show"`
	CancellationReason *string           `json:"cancellationReason"`
}

// AppointmentFilters are combined with AND semantics.
type AppointmentFilters struct {
	Search    string
	VetID     uuid.UUID
	ClientID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	Limit     int
}
