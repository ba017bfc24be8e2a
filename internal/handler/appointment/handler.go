package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/service/appointment"
	"github.com/pawclinic/vet-api/pkg/apperror"
	"github.com/pawclinic/vet-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.List)
		appointments.GET("/day/:date", h.GetDay)
		appointments.GET("/:id", h.Get)
		appointments.POST("", h.Book)
		appointments.PATCH("/:id", h.Update)
		appointments.PATCH("/:id/status", h.Transition)
	}
}

func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, bindError(err))
		return
	}

	apt, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, apt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid appointment id"))
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apt)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid appointment id"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, bindError(err))
		return
	}

	apt, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apt)
}

func (h *Handler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid appointment id"))
		return
	}

	var req model.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, bindError(err))
		return
	}

	apt, err := h.service.Transition(c.Request.Context(), id, req.Status, req.CancellationReason)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apt)
}

func (h *Handler) GetDay(c *gin.Context) {
	vetID := uuid.Nil
	if v := c.Query("vetId"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondError(c, apperror.Validation("invalid vetId"))
			return
		}
		vetID = parsed
	}

	appointments, err := h.service.GetDay(c.Request.Context(), c.Param("date"), vetID)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) List(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	appointments, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httputil.NewPage(appointments, total, filters.Page, filters.Limit))
}

func parseFilters(c *gin.Context) (*model.AppointmentFilters, error) {
	filters := &model.AppointmentFilters{
		Search: c.Query("search"),
		Status: model.AppointmentStatus(c.Query("status")),
	}

	for param, target := range map[string]*uuid.UUID{
		"vetId":     &filters.VetID,
		"clientId":  &filters.ClientID,
		"patientId": &filters.PatientID,
	} {
		if v := c.Query(param); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, apperror.Validation("invalid %s", param)
			}
			*target = id
		}
	}

	for param, target := range map[string]**time.Time{
		"dateFrom": &filters.DateFrom,
		"dateTo":   &filters.DateTo,
	} {
		if v := c.Query(param); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				t, err = time.ParseInLocation("2006-01-02", v, time.UTC)
			}
			if err != nil {
				return nil, apperror.Validation("invalid %s", param)
			}
			*target = &t
		}
	}

	page, limit, err := httputil.ParsePagination(c)
	if err != nil {
		return nil, err
	}
	filters.Page, filters.Limit = page, limit

	return filters, nil
}

// bindError turns gin binding failures into the validation error shape.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.Validation("field %s failed on %s", fe.Field(), fe.Tag())
	}
	return apperror.Validation("invalid request body: %v", err)
}
