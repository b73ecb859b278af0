package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
)

type ServiceHandler struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewServiceHandler(c *catalog.Catalog, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{catalog: c, log: log}
}

// ServiceRequest serve para criar (name, duration_min e price obrigatórios
// pelo use case) e para atualizar parcialmente.
type ServiceRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	DurationMin *int    `json:"duration_min"`
	Price       *string `json:"price"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	Active      *bool   `json:"active"`
}

func (r ServiceRequest) input() catalog.ServiceInput {
	return catalog.ServiceInput{
		Name:        r.Name,
		Description: r.Description,
		DurationMin: r.DurationMin,
		Price:       r.Price,
		Category:    r.Category,
		Active:      r.Active,
	}
}

// List é pública: só serviços ativos.
func (h *ServiceHandler) List(c *gin.Context) {
	items, err := h.catalog.ListServices(c.Request.Context(), true)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Services(items))
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Price == nil {
		httperr.BadRequest(c, "missing_fields", "price is required.")
		return
	}

	svc, err := h.catalog.CreateService(c.Request.Context(), middleware.ActorFrom(c), req.input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, dto.Service(svc))
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc, err := h.catalog.UpdateService(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Service(svc))
}
