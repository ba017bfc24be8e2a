package model

import (
	"time"

	"github.com/google/uuid"
)

// Vet is a veterinarian on staff.
type Vet struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email,omitempty"`
	LicenseNumber string    `db:"license_number" json:"licenseNumber,omitempty"`
	Specialty     string    `db:"specialty" json:"specialty,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateVetRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"omitempty,email"`
	LicenseNumber string `json:"licenseNumber" binding:"max=50"`
	Specialty     string `json:"specialty" binding:"max=100"`
}

type UpdateVetRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	Email         *string `json:"email" binding:"omitempty,email"`
	LicenseNumber *string `json:"licenseNumber" binding:"omitempty,max=50"`
	Specialty     *string `json:"specialty" binding:"omitempty,max=100"`
	Active        *bool   `json:"active"`
}

type VetFilters struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}
