package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
	"github.com/pawclinic/vet-api/internal/service/directory"
)

type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	if c, ok := r.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	if _, ok := r.clients[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *stubClientRepo) List(_ context.Context, _ *model.ClientFilters) ([]*model.Client, int, error) {
	out := []*model.Client{}
	for _, c := range r.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, len(out), nil
}

type emptyPatientRepo struct{}

func (emptyPatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (emptyPatientRepo) Get(context.Context, uuid.UUID) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}
func (emptyPatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (emptyPatientRepo) Delete(context.Context, uuid.UUID) error      { return nil }
func (emptyPatientRepo) List(context.Context, *model.PatientFilters) ([]*model.Patient, int, error) {
	return nil, 0, nil
}

type emptyVetRepo struct{}

func (emptyVetRepo) Create(context.Context, *model.Vet) error { return nil }
func (emptyVetRepo) Get(context.Context, uuid.UUID) (*model.Vet, error) {
	return nil, repository.ErrNotFound
}
func (emptyVetRepo) Update(context.Context, *model.Vet) error { return nil }
func (emptyVetRepo) Delete(context.Context, uuid.UUID) error  { return nil }
func (emptyVetRepo) List(context.Context, *model.VetFilters) ([]*model.Vet, int, error) {
	return nil, 0, nil
}

func newClientTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
	svc := directory.NewService(repo, emptyPatientRepo{}, emptyVetRepo{}, zerolog.Nop())

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group(""))
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListClientsRejectsBadPagination(t *testing.T) {
	engine := newClientTestEngine()

	for _, qs := range []string{"page=0", "page=abc", "limit=0", "limit=xyz"} {
		w := get(engine, "/clients?"+qs)
		assert.Equal(t, http.StatusBadRequest, w.Code, qs)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "validation_error", body.Error.Code, qs)
	}
}

func TestListClientsEnvelope(t *testing.T) {
	engine := newClientTestEngine()

	w := get(engine, "/clients?page=1&limit=10")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}
