package booking

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ------------------------------------------------------
// List
// ------------------------------------------------------

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute força o filtro de cliente quando o ator é cliente.
func (uc *ListBookings) Execute(
	ctx context.Context,
	actor domain.Actor,
	f domain.ListFilter,
) ([]models.Booking, int64, domain.ListFilter, error) {

	if actor.IsCustomer() {
		f.CustomerID = actor.ID
	}
	if err := f.Normalize(); err != nil {
		return nil, 0, f, err
	}

	items, total, err := uc.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, 0, f, httperr.Database("list bookings", err)
	}
	return items, total, f, nil
}

// ------------------------------------------------------
// Get / History
// ------------------------------------------------------

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(ctx context.Context, actor domain.Actor, id string) (*models.Booking, error) {
	b, err := loadDetailed(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	// cliente alheio recebe 404, não 403
	if !actor.CanView(b) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}
	return b, nil
}

type GetHistory struct {
	repo domain.Repository
}

func NewGetHistory(repo domain.Repository) *GetHistory {
	return &GetHistory{repo: repo}
}

func (uc *GetHistory) Execute(ctx context.Context, actor domain.Actor, id string) ([]models.BookingHistory, error) {
	b, err := loadBooking(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(b) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}

	rows, err := uc.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, httperr.Database("list booking history", err)
	}
	if rows == nil {
		rows = []models.BookingHistory{}
	}
	return rows, nil
}

// ------------------------------------------------------
// Stats
// ------------------------------------------------------

type GetStats struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewGetStats(repo domain.Repository, clock timezone.Clock) *GetStats {
	return &GetStats{repo: repo, clock: clock}
}

func (uc *GetStats) Execute(ctx context.Context, actor domain.Actor) (*domain.Stats, error) {
	if !actor.IsStaff() {
		return nil, httperr.NewForbidden("forbidden", "only staff can see booking statistics")
	}

	st, err := uc.repo.Stats(ctx, domain.WindowsFor(uc.clock.Now()))
	if err != nil {
		return nil, httperr.Database("booking stats", err)
	}
	if st.TopServices == nil {
		st.TopServices = []domain.ServiceCount{}
	}
	return st, nil
}
