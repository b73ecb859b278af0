package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Catalog cuida dos serviços oferecidos e da agenda dos stylists.
type Catalog struct {
	services  domain.CatalogRepository
	schedules domain.ScheduleRepository
	users     domain.AccountRepository
	audit     *audit.Dispatcher
}

func New(
	services domain.CatalogRepository,
	schedules domain.ScheduleRepository,
	users domain.AccountRepository,
	dispatcher *audit.Dispatcher,
) *Catalog {
	return &Catalog{
		services:  services,
		schedules: schedules,
		users:     users,
		audit:     dispatcher,
	}
}

func requireStaff(actor domain.Actor) error {
	if !actor.IsStaff() {
		return httperr.NewForbidden("forbidden", "staff only")
	}
	return nil
}

// ======================================================
// SERVICES
// ======================================================

type ServiceInput struct {
	Name        *string
	Description *string
	DurationMin *int
	Price       *string
	Category    *string
	Active      *bool
}

func (c *Catalog) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	items, err := c.services.ListServices(ctx, activeOnly)
	if err != nil {
		return nil, httperr.Database("list services", err)
	}
	return items, nil
}

// apply copia os campos presentes e valida o resultado.
func (in ServiceInput) apply(s *models.Service) error {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.DurationMin != nil {
		s.DurationMin = *in.DurationMin
	}
	if in.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*in.Price))
		if err != nil {
			return httperr.NewBadRequest("invalid_price", "price must be a decimal number")
		}
		s.Price = price.Round(2)
	}
	if in.Category != nil {
		s.Category = strings.TrimSpace(*in.Category)
	}
	if in.Active != nil {
		s.Active = *in.Active
	}

	if s.Name == "" {
		return httperr.NewBadRequest("missing_fields", "name is required")
	}
	if s.DurationMin <= 0 || s.DurationMin%domain.SlotStride != 0 {
		return httperr.NewBadRequest("invalid_duration", "duration_min must be a positive multiple of 15")
	}
	if s.Price.IsNegative() {
		return httperr.NewBadRequest("invalid_price", "price must not be negative")
	}
	return nil
}

func (c *Catalog) CreateService(ctx context.Context, actor domain.Actor, in ServiceInput) (*models.Service, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	svc := &models.Service{Active: true}
	if err := in.apply(svc); err != nil {
		return nil, err
	}
	if err := c.services.CreateService(ctx, svc); err != nil {
		return nil, httperr.Database("create service", err)
	}

	c.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(actor.ID),
		Action:   "service_created",
		Entity:   "service",
		EntityID: audit.Ptr(svc.ID),
		Metadata: map[string]any{"name": svc.Name, "price": svc.Price.StringFixed(2)},
	})
	return svc, nil
}

func (c *Catalog) UpdateService(ctx context.Context, actor domain.Actor, id string, in ServiceInput) (*models.Service, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	svc, err := c.services.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NewNotFound("service_not_found", "service not found")
		}
		return nil, httperr.Database("load service", err)
	}
	if err := in.apply(svc); err != nil {
		return nil, err
	}
	if err := c.services.UpdateService(ctx, svc); err != nil {
		return nil, httperr.Database("update service", err)
	}

	c.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(actor.ID),
		Action:   "service_updated",
		Entity:   "service",
		EntityID: audit.Ptr(svc.ID),
		Metadata: in,
	})
	return svc, nil
}
