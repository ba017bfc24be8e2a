package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
	"github.com/pawclinic/vet-api/pkg/apperror"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100

	lookupTTL     = time.Minute
	cacheInterval = 5 * time.Minute
)

// Service owns the client, patient and vet records and serves the
// scheduler's existence checks. Single-record lookups are cached briefly
// since every booking resolves three of them.
type Service struct {
	clients  repository.ClientRepository
	patients repository.PatientRepository
	vets     repository.VetRepository
	cache    *gocache.Cache
	logger   zerolog.Logger
}

func NewService(clients repository.ClientRepository, patients repository.PatientRepository, vets repository.VetRepository, logger zerolog.Logger) *Service {
	return &Service{
		clients:  clients,
		patients: patients,
		vets:     vets,
		cache:    gocache.New(lookupTTL, cacheInterval),
		logger:   logger.With().Str("component", "directory").Logger(),
	}
}

// --- clients ---

func (s *Service) CreateClient(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	now := time.Now().UTC()
	client := &model.Client{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	key := "client:" + id.String()
	if cached, ok := s.cache.Get(key); ok {
		cp := *cached.(*model.Client)
		return &cp, nil
	}

	client, err := s.clients.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("client", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	// The cache keeps its own copy; callers are free to mutate what they
	// get back without that mutation becoming visible to other reads.
	cp := *client
	s.cache.SetDefault(key, &cp)
	return client, nil
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("client", id)
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.cache.Delete("client:" + id.String())
	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	err := s.clients.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("client", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.cache.Delete("client:" + id.String())
	return nil
}

func (s *Service) ListClients(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, int, error) {
	clampPage(&filters.Page, &filters.Limit)
	clients, total, err := s.clients.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}

// --- patients ---

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if _, err := s.GetClient(ctx, req.ClientID); err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return nil, apperror.Validation("client %s not found", req.ClientID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	patient := &model.Patient{
		ID:          uuid.New(),
		ClientID:    req.ClientID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Sex:         req.Sex,
		DateOfBirth: req.DateOfBirth,
		WeightKg:    req.WeightKg,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	key := "patient:" + id.String()
	if cached, ok := s.cache.Get(key); ok {
		cp := *cached.(*model.Patient)
		return &cp, nil
	}

	patient, err := s.patients.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("patient", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	cp := *patient
	s.cache.SetDefault(key, &cp)
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Species != nil {
		patient.Species = *req.Species
	}
	if req.Breed != nil {
		patient.Breed = *req.Breed
	}
	if req.Sex != nil {
		patient.Sex = *req.Sex
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.WeightKg != nil {
		patient.WeightKg = req.WeightKg
	}
	patient.UpdatedAt = time.Now().UTC()

	if err := s.patients.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient", id)
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.cache.Delete("patient:" + id.String())
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	err := s.patients.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("patient", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	s.cache.Delete("patient:" + id.String())
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error) {
	clampPage(&filters.Page, &filters.Limit)
	patients, total, err := s.patients.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}

// --- vets ---

func (s *Service) CreateVet(ctx context.Context, req *model.CreateVetRequest) (*model.Vet, error) {
	now := time.Now().UTC()
	vet := &model.Vet{
		ID:            uuid.New(),
		Name:          req.Name,
		Email:         req.Email,
		LicenseNumber: req.LicenseNumber,
		Specialty:     req.Specialty,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.vets.Create(ctx, vet); err != nil {
		return nil, fmt.Errorf("failed to create vet: %w", err)
	}
	return vet, nil
}

func (s *Service) GetVet(ctx context.Context, id uuid.UUID) (*model.Vet, error) {
	key := "vet:" + id.String()
	if cached, ok := s.cache.Get(key); ok {
		cp := *cached.(*model.Vet)
		return &cp, nil
	}

	vet, err := s.vets.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("vet", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vet: %w", err)
	}

	cp := *vet
	s.cache.SetDefault(key, &cp)
	return vet, nil
}

func (s *Service) UpdateVet(ctx context.Context, id uuid.UUID, req *model.UpdateVetRequest) (*model.Vet, error) {
	vet, err := s.GetVet(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vet.Name = *req.Name
	}
	if req.Email != nil {
		vet.Email = *req.Email
	}
	if req.LicenseNumber != nil {
		vet.LicenseNumber = *req.LicenseNumber
	}
	if req.Specialty != nil {
		vet.Specialty = *req.Specialty
	}
	if req.Active != nil {
		vet.Active = *req.Active
	}
	vet.UpdatedAt = time.Now().UTC()

	if err := s.vets.Update(ctx, vet); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("vet", id)
		}
		return nil, fmt.Errorf("failed to update vet: %w", err)
	}

	s.cache.Delete("vet:" + id.String())
	return vet, nil
}

func (s *Service) DeleteVet(ctx context.Context, id uuid.UUID) error {
	err := s.vets.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("vet", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete vet: %w", err)
	}
	s.cache.Delete("vet:" + id.String())
	return nil
}

func (s *Service) ListVets(ctx context.Context, filters *model.VetFilters) ([]*model.Vet, int, error) {
	clampPage(&filters.Page, &filters.Limit)
	vets, total, err := s.vets.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vets: %w", err)
	}
	return vets, total, nil
}

func clampPage(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = DefaultPageSize
	}
	if *limit > MaxPageSize {
		*limit = MaxPageSize
	}
}
