package booking

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Actor domain.Actor

	// CustomerID é ignorado quando o ator é um cliente.
	CustomerID string
	StylistID  string
	ServiceID  string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	d Deps
}

func NewCreateBooking(d Deps) *CreateBooking {
	return &CreateBooking{d: d}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	customerID := in.CustomerID
	if in.Actor.IsCustomer() {
		customerID = in.Actor.ID
	}
	if customerID == "" || in.StylistID == "" || in.ServiceID == "" {
		return nil, httperr.NewBadRequest("missing_fields", "customer_id, stylist_id and service_id are required")
	}

	// --------------------------------------------------
	// 1️⃣ Data / hora
	// --------------------------------------------------
	date, start, err := uc.d.scheduleAt(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Cliente, stylist e serviço
	// --------------------------------------------------
	if _, err := findUser(ctx, uc.d.Repo, customerID, models.RoleCustomer, "customer_not_found"); err != nil {
		return nil, err
	}
	if _, err := findUser(ctx, uc.d.Repo, in.StylistID, models.RoleStylist, "stylist_not_found"); err != nil {
		return nil, err
	}
	svc, err := findService(ctx, uc.d.Repo, in.ServiceID)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		CustomerID:      customerID,
		StylistID:       in.StylistID,
		ServiceID:       svc.ID,
		AppointmentDate: datatypes.Date(date),
		StartTime:       start.String(),
		EndTime:         start.Add(svc.DurationMin).String(),
		Status:          string(domain.InitialStatus()),
		TotalAmount:     svc.Price,
		Notes:           strings.TrimSpace(in.Notes),
	}

	// --------------------------------------------------
	// 3️⃣ Disponibilidade + gravação sob o lock do dia
	// --------------------------------------------------
	err = uc.d.Repo.WithSlotLock(ctx, in.StylistID, date, func(tx domain.Repository) error {
		check, err := uc.d.Engine.With(tx).CheckSlot(ctx, domain.SlotQuery{
			StylistID:       in.StylistID,
			Date:            date,
			StartTime:       start,
			DurationMinutes: svc.DurationMin,
		})
		if err != nil {
			return err
		}
		if !check.Available {
			return uc.d.slotRejection(check.Reason)
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			return writeConflict("create booking", err)
		}
		return nil
	})
	if err != nil {
		uc.d.auditRejection(in.Actor, in.StylistID, in.Date, in.Time, err)
		return nil, httperr.Database("create booking", err)
	}

	uc.d.Metrics.BookingsCreated.Inc()

	// --------------------------------------------------
	// 4️⃣ Histórico + aviso
	// --------------------------------------------------
	uc.d.appendHistory(ctx, &models.BookingHistory{
		BookingID:   b.ID,
		Action:      "CREATED",
		NewStatus:   b.Status,
		PerformedBy: in.Actor.ID,
	})

	if err := uc.d.Notifier.BookingCreated(ctx, b); err != nil {
		uc.d.Log.Warn("booking notification failed",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}

	uc.d.Log.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("stylist_id", b.StylistID),
		zap.String("date", in.Date),
		zap.String("start", b.StartTime),
	)

	return uc.d.detailed(ctx, b.ID)
}

// ------------------------------------------------------
// lookups
// ------------------------------------------------------

func findUser(ctx context.Context, repo domain.Repository, id, role, code string) (*models.User, error) {
	u, err := repo.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound(code, strings.ReplaceAll(code, "_", " "))
	}
	if err != nil {
		return nil, httperr.Database("load user", err)
	}
	if !u.Active || u.Role != role {
		return nil, httperr.NewNotFound(code, strings.ReplaceAll(code, "_", " "))
	}
	return u, nil
}

func findService(ctx context.Context, repo domain.Repository, id string) (*models.Service, error) {
	svc, err := repo.GetService(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("service_not_found", "service not found")
	}
	if err != nil {
		return nil, httperr.Database("load service", err)
	}
	if !svc.Active {
		return nil, httperr.NewNotFound("service_not_found", "service not found")
	}
	if svc.DurationMin <= 0 {
		return nil, httperr.NewBadRequest("invalid_duration", "service duration must be positive")
	}
	return svc, nil
}
