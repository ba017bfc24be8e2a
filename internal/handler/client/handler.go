package client

import (
	"net/http"

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
	clients := r.Group("/clients")
	{
		clients.GET("", h.List)
		clients.GET("/:id", h.Get)
		clients.POST("", h.Create)
		clients.PATCH("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperror.Validation("invalid request body: %v", err))
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid client id"))
		return
	}

	client, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid client id"))
		return
	}

	var req model.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondError(c, apperror.Validation("invalid request body: %v", err))
		return
	}

	client, err := h.service.UpdateClient(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondError(c, apperror.Validation("invalid client id"))
		return
	}

	if err := h.service.DeleteClient(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.ClientFilters{Search: c.Query("search")}
	page, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	filters.Page, filters.Limit = page, limit

	clients, total, err := h.service.ListClients(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewPage(clients, total, filters.Page, filters.Limit))
}
