package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is an animal under care, owned by a client.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    uuid.UUID  `db:"client_id" json:"clientId"`
	Name        string     `db:"name" json:"name"`
	Species     string     `db:"species" json:"species"`
	Breed       string     `db:"breed" json:"breed,omitempty"`
	Sex         string     `db:"sex" json:"sex,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	WeightKg    *float64   `db:"weight_kg" json:"weightKg,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreatePatientRequest struct {
	ClientID    uuid.UUID  `json:"clientId" binding:"required"`
	Name        string     `json:"name" binding:"required,max=100"`
	Species     string     `json:"species" binding:"required,max=50"`
	Breed       string     `json:"breed" binding:"max=100"`
	Sex         string     `json:"sex" binding:"omitempty,oneof=male female unknown"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	WeightKg    *float64   `json:"weightKg" binding:"omitempty,gt=0"`
}

type UpdatePatientRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=100"`
	Species     *string    `json:"species" binding:"omitempty,max=50"`
	Breed       *string    `json:"breed" binding:"omitempty,max=100"`
	Sex         *string    `json:"sex" binding:"omitempty,oneof=male female unknown"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	WeightKg    *float64   `json:"weightKg" binding:"omitempty,gt=0"`
}

type PatientFilters struct {
	Search   string
	ClientID uuid.UUID
	Page     int
	Limit    int
}
