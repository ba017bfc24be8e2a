package model

import (
	"time"

	"github.com/google/uuid"
)

// Visit is an immutable clinical record for a patient. Visits are
// append-only: there is no update or delete.
type Visit struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patientId"`
	VetID         uuid.UUID  `db:"vet_id" json:"vetId"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointmentId,omitempty"`

	// SOAP note.
	Subjective string `db:"subjective" json:"subjective,omitempty"`
	Objective  string `db:"objective" json:"objective,omitempty"`
	Assessment string `db:"assessment" json:"assessment,omitempty"`
	Plan       string `db:"plan" json:"plan,omitempty"`

	// Vitals.
	TemperatureC       *float64 `db:"temperature_c" json:"temperatureC,omitempty"`
	HeartRateBPM       *int     `db:"heart_rate_bpm" json:"heartRateBpm,omitempty"`
	RespiratoryRateBPM *int     `db:"respiratory_rate_bpm" json:"respiratoryRateBpm,omitempty"`
	WeightKg           *float64 `db:"weight_kg" json:"weightKg,omitempty"`

	Vaccinations []Vaccination `db:"-" json:"vaccinations,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Vaccination is a dose administered during a visit. NextDueAt drives the
// vaccination_due reminder scan.
type Vaccination struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	VisitID        uuid.UUID  `db:"visit_id" json:"visitId"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patientId"`
	Name           string     `db:"name" json:"name"`
	LotNumber      string     `db:"lot_number" json:"lotNumber,omitempty"`
	AdministeredAt time.Time  `db:"administered_at" json:"administeredAt"`
	NextDueAt      *time.Time `db:"next_due_at" json:"nextDueAt,omitempty"`
}

type CreateVisitRequest struct {
	VetID         uuid.UUID  `json:"vetId" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointmentId"`

	Subjective string `json:"subjective" binding:"max=5000"`
	Objective  string `json:"objective" binding:"max=5000"`
	Assessment string `json:"assessment" binding:"max=5000"`
	Plan       string `json:"plan" binding:"max=5000"`

	TemperatureC       *float64 `json:"temperatureC" binding:"omitempty,gt=0"`
	HeartRateBPM       *int     `json:"heartRateBpm" binding:"omitempty,gt=0"`
	RespiratoryRateBPM *int     `json:"respiratoryRateBpm" binding:"omitempty,gt=0"`
	WeightKg           *float64 `json:"weightKg" binding:"omitempty,gt=0"`

	Vaccinations []CreateVaccinationRequest `json:"vaccinations" binding:"omitempty,dive"`
}

type CreateVaccinationRequest struct {
	Name           string     `json:"name" binding:"required,max=200"`
	LotNumber      string     `json:"lotNumber" binding:"max=100"`
	AdministeredAt time.Time  `json:"administeredAt" binding:"required"`
	NextDueAt      *time.Time `json:"nextDueAt"`
}
