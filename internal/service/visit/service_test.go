package visit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
	"github.com/pawclinic/vet-api/pkg/apperror"
)

type fakeVisitRepo struct {
	visits map[uuid.UUID]*model.Visit
}

func (f *fakeVisitRepo) Create(_ context.Context, v *model.Visit) error {
	cp := *v
	f.visits[v.ID] = &cp
	return nil
}

func (f *fakeVisitRepo) Get(_ context.Context, id uuid.UUID) (*model.Visit, error) {
	if v, ok := f.visits[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVisitRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, v := range f.visits {
		if v.PatientID == patientID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeVisitRepo) VaccinationsDueBetween(_ context.Context, _, _ time.Time) ([]*model.Vaccination, error) {
	return nil, nil
}

type stubDirectory struct {
	patientID uuid.UUID
	vetID     uuid.UUID
}

func (d *stubDirectory) GetPatient(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if id != d.patientID {
		return nil, apperror.NotFound("patient", id)
	}
	return &model.Patient{ID: id}, nil
}

func (d *stubDirectory) GetVet(_ context.Context, id uuid.UUID) (*model.Vet, error) {
	if id != d.vetID {
		return nil, apperror.NotFound("vet", id)
	}
	return &model.Vet{ID: id}, nil
}

func newVisitService() (*Service, *stubDirectory) {
	dir := &stubDirectory{patientID: uuid.New(), vetID: uuid.New()}
	repo := &fakeVisitRepo{visits: make(map[uuid.UUID]*model.Visit)}
	return NewService(repo, dir, zerolog.Nop()), dir
}

func TestCreateVisit(t *testing.T) {
	svc, dir := newVisitService()
	ctx := context.Background()

	due := time.Date(2027, 9, 14, 0, 0, 0, 0, time.UTC)
	visit, err := svc.Create(ctx, dir.patientID, &model.CreateVisitRequest{
		VetID:      dir.vetID,
		Subjective: "owner reports lethargy",
		Assessment: "mild dehydration",
		Plan:       "subcutaneous fluids, recheck in 3 days",
		Vaccinations: []model.CreateVaccinationRequest{
			{Name: "rabies", AdministeredAt: time.Now().UTC(), NextDueAt: &due},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, visit.ID)
	assert.Equal(t, dir.patientID, visit.PatientID)
	require.Len(t, visit.Vaccinations, 1)
	assert.Equal(t, visit.ID, visit.Vaccinations[0].VisitID)
	assert.Equal(t, dir.patientID, visit.Vaccinations[0].PatientID)
	assert.NotEqual(t, uuid.Nil, visit.Vaccinations[0].ID)

	got, err := svc.Get(ctx, visit.ID)
	require.NoError(t, err)
	assert.Equal(t, "mild dehydration", got.Assessment)
}

func TestCreateVisitUnknownPatient(t *testing.T) {
	svc, dir := newVisitService()

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateVisitRequest{VetID: dir.vetID})
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestCreateVisitUnknownVet(t *testing.T) {
	svc, dir := newVisitService()

	_, err := svc.Create(context.Background(), dir.patientID, &model.CreateVisitRequest{VetID: uuid.New()})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestListByPatient(t *testing.T) {
	svc, dir := newVisitService()
	ctx := context.Background()

	_, err := svc.Create(ctx, dir.patientID, &model.CreateVisitRequest{VetID: dir.vetID})
	require.NoError(t, err)

	visits, err := svc.ListByPatient(ctx, dir.patientID)
	require.NoError(t, err)
	assert.Len(t, visits, 1)

	_, err = svc.ListByPatient(ctx, uuid.New())
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}
