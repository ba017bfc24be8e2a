package vet

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/service/directory"
	"github.com/pawclinic/vet-api/pkg/apperror"
	"github.com/pawclinic/vet-api/pkg/httputil"
)

type Handler struct {
	service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	vets := r.Group("/vets")
	{
		vets.GET("", h.List)
		vets.GET("/:id", h.Get)
		vets.POST("", h.Create)
		vets.PATCH("/:id", h.Update)
		vets.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperror.Validation("invalid request body: %v", err))
		return
	}

	vet, err := h.service.CreateVet(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vet)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid vet id"))
		return
	}

	vet, err := h.service.GetVet(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vet)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid vet id"))
		return
	}

	var req model.UpdateVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperror.Validation("invalid request body: %v", err))
		return
	}

	vet, err := h.service.UpdateVet(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vet)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid vet id"))
		return
	}

	if err := h.service.DeleteVet(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.VetFilters{Search: c.Query("search")}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			httputil.RespondError(c, apperror.Validation("invalid active flag"))
			return
		}
		filters.Active = &active
	}
	page, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	filters.Page, filters.Limit = page, limit

	vets, total, err := h.service.ListVets(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewPage(vets, total, filters.Page, filters.Limit))
}
