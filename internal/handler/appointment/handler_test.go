package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository"
	"github.com/pawclinic/vet-api/internal/service/appointment"
	"github.com/pawclinic/vet-api/pkg/apperror"
)

type memoryRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (m *memoryRepo) Create(_ context.Context, apt *model.Appointment) error {
	cp := *apt
	m.appointments[apt.ID] = &cp
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := m.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *apt
	return &cp, nil
}

func (m *memoryRepo) Update(_ context.Context, apt *model.Appointment) error {
	if _, ok := m.appointments[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *apt
	m.appointments[apt.ID] = &cp
	return nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.AppointmentStatus, cancellationReason *string, updatedAt time.Time) (bool, error) {
	apt, ok := m.appointments[id]
	if !ok || apt.Status != from {
		return false, nil
	}
	apt.Status = to
	if cancellationReason != nil {
		apt.CancellationReason = cancellationReason
	}
	apt.UpdatedAt = updatedAt
	return true, nil
}

func (m *memoryRepo) ListRange(_ context.Context, from, to time.Time, vetID uuid.UUID) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for _, apt := range m.appointments {
		if apt.StartTime.Before(from) || !apt.StartTime.Before(to) {
			continue
		}
		if vetID != uuid.Nil && apt.VetID != vetID {
			continue
		}
		cp := *apt
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	out := []*model.Appointment{}
	for _, apt := range m.appointments {
		if filters.Status != "" && apt.Status != filters.Status {
			continue
		}
		cp := *apt
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *memoryRepo) ListStartingBetween(_ context.Context, _, _ time.Time, _ []model.AppointmentStatus) ([]*model.Appointment, error) {
	return nil, nil
}

func (m *memoryRepo) PatientsWithoutCompletedSince(_ context.Context, _ time.Time) ([]*model.Patient, error) {
	return nil, nil
}

type staticDirectory struct {
	clientID  uuid.UUID
	patientID uuid.UUID
	vetID     uuid.UUID
}

func (d *staticDirectory) GetClient(_ context.Context, id uuid.UUID) (*model.Client, error) {
	if id != d.clientID {
		return nil, apperror.NotFound("client", id)
	}
	return &model.Client{ID: id}, nil
}

func (d *staticDirectory) GetPatient(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if id != d.patientID {
		return nil, apperror.NotFound("patient", id)
	}
	return &model.Patient{ID: id}, nil
}

func (d *staticDirectory) GetVet(_ context.Context, id uuid.UUID) (*model.Vet, error) {
	if id != d.vetID {
		return nil, apperror.NotFound("vet", id)
	}
	return &model.Vet{ID: id}, nil
}

type testServer struct {
	engine *gin.Engine
	repo   *memoryRepo
	dir    *staticDirectory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memoryRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
	dir := &staticDirectory{clientID: uuid.New(), patientID: uuid.New(), vetID: uuid.New()}
	svc := appointment.NewService(repo, dir, appointment.Config{AllowEditAfterTerminal: true}, zerolog.Nop())

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group(""))
	return &testServer{engine: engine, repo: repo, dir: dir}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) bookBody() map[string]interface{} {
	return map[string]interface{}{
		"clientId":  s.dir.clientID,
		"patientId": s.dir.patientID,
		"vetId":     s.dir.vetID,
		"startTime": "2026-09-14T10:00:00Z",
		"endTime":   "2026-09-14T10:30:00Z",
		"type":      "checkup",
		"reason":    "limping on front left leg",
	}
}

func (s *testServer) book(t *testing.T) map[string]interface{} {
	t.Helper()
	w := s.do(t, http.MethodPost, "/appointments", s.bookBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var apt map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apt))
	return apt
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestBookEndpoint(t *testing.T) {
	s := newTestServer(t)

	apt := s.book(t)
	assert.Equal(t, "scheduled", apt["status"])
	assert.Equal(t, "checkup", apt["type"])
	assert.NotEmpty(t, apt["id"])
	assert.Equal(t, s.dir.vetID.String(), apt["vetId"])
	assert.NotContains(t, apt, "cancellationReason")
}

func TestBookEndpointValidation(t *testing.T) {
	s := newTestServer(t)

	body := s.bookBody()
	delete(body, "vetId")
	w := s.do(t, http.MethodPost, "/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", errorCode(t, w))

	body = s.bookBody()
	body["endTime"] = "2026-09-14T09:00:00Z"
	w = s.do(t, http.MethodPost, "/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = s.bookBody()
	body["type"] = "teleportation"
	w = s.do(t, http.MethodPost, "/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEndpoint(t *testing.T) {
	s := newTestServer(t)
	apt := s.book(t)

	w := s.do(t, http.MethodGet, "/appointments/"+apt["id"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))

	w = s.do(t, http.MethodGet, "/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransitionEndpoint(t *testing.T) {
	s := newTestServer(t)
	apt := s.book(t)
	id := apt["id"].(string)

	w := s.do(t, http.MethodPatch, "/appointments/"+id+"/status", map[string]interface{}{
		"status": "confirmed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "confirmed", updated["status"])

	// confirmed -> completed is not in the lifecycle graph.
	w = s.do(t, http.MethodPatch, "/appointments/"+id+"/status", map[string]interface{}{
		"status": "completed",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", errorCode(t, w))

	// Unknown status values never reach the service.
	w = s.do(t, http.MethodPatch, "/appointments/"+id+"/status", map[string]interface{}{
		"status": "teleported",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransitionEndpointCancellationReason(t *testing.T) {
	s := newTestServer(t)
	apt := s.book(t)
	id := apt["id"].(string)

	w := s.do(t, http.MethodPatch, "/appointments/"+id+"/status", map[string]interface{}{
		"status":             "cancelled",
		"cancellationReason": "pet recovered",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "cancelled", updated["status"])
	assert.Equal(t, "pet recovered", updated["cancellationReason"])
}

func TestUpdateEndpoint(t *testing.T) {
	s := newTestServer(t)
	apt := s.book(t)
	id := apt["id"].(string)

	w := s.do(t, http.MethodPatch, "/appointments/"+id, map[string]interface{}{
		"notes": "fasted since midnight",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "fasted since midnight", updated["notes"])
	assert.Equal(t, "scheduled", updated["status"], "field edits must not change status")

	w = s.do(t, http.MethodPatch, "/appointments/"+uuid.NewString(), map[string]interface{}{
		"notes": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDayEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.book(t)

	w := s.do(t, http.MethodGet, "/appointments/day/2026-09-14", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var day []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Len(t, day, 1)

	w = s.do(t, http.MethodGet, "/appointments/day/2026-09-15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Len(t, day, 0)

	w = s.do(t, http.MethodGet, "/appointments/day/september-14", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/appointments/day/2026-09-14?vetId=not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpointEnvelope(t *testing.T) {
	s := newTestServer(t)
	s.book(t)
	s.book(t)
	s.book(t)

	w := s.do(t, http.MethodGet, "/appointments?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data       []map[string]interface{} `json:"data"`
		Total      int                      `json:"total"`
		Page       int                      `json:"page"`
		Limit      int                      `json:"limit"`
		TotalPages int                      `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListEndpointRejectsBadParams(t *testing.T) {
	s := newTestServer(t)

	for _, qs := range []string{
		"page=0",
		"limit=abc",
		"vetId=42",
		"dateFrom=not-a-date",
	} {
		w := s.do(t, http.MethodGet, fmt.Sprintf("/appointments?%s", qs), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, qs)
	}
}
