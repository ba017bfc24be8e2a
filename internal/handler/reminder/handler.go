package reminder

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/service/reminder"
	"github.com/pawclinic/vet-api/pkg/apperror"
	"github.com/pawclinic/vet-api/pkg/httputil"
)

type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	{
		reminders.GET("", h.List)
		reminders.POST("/generate", h.Generate)
	}
}

// Generate runs the reminder scans on demand and returns what was created.
func (h *Handler) Generate(c *gin.Context) {
	created, err := h.service.Generate(c.Request.Context(), time.Now().UTC())
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	if created == nil {
		created = []*model.Reminder{}
	}
	c.JSON(http.StatusOK, gin.H{"created": created, "count": len(created)})
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.ReminderFilters{
		Type: model.ReminderType(c.Query("type")),
	}
	if v := c.Query("patientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondError(c, apperror.Validation("invalid patientId"))
			return
		}
		filters.PatientID = id
	}
	if v := c.Query("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondError(c, apperror.Validation("invalid clientId"))
			return
		}
		filters.ClientID = id
	}
	page, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	filters.Page, filters.Limit = page, limit

	reminders, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewPage(reminders, total, filters.Page, filters.Limit))
}
