package booking

import (
	"context"
	"slices"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type GetAvailabilityInput struct {
	StylistID string
	Date      string
	// ServiceID opcional: sem ele a duração é a padrão de 60 minutos.
	ServiceID string
}

type Availability struct {
	StylistID       string
	Date            time.Time
	DurationMinutes int
	Open            bool
	Reason          string
	WindowSource    domain.WindowSource
	WindowStart     string
	WindowEnd       string
	Slots           []domain.TimeSlot
}

type GetAvailability struct {
	repo   domain.Repository
	engine *availability.Engine
}

func NewGetAvailability(repo domain.Repository, engine *availability.Engine) *GetAvailability {
	return &GetAvailability{repo: repo, engine: engine}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) (*Availability, error) {

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.NewBadRequest("invalid_date", "date must be YYYY-MM-DD")
	}

	if _, err := findUser(ctx, uc.repo, in.StylistID, models.RoleStylist, "stylist_not_found"); err != nil {
		return nil, err
	}

	duration := domain.DefaultBookingMinutes
	if in.ServiceID != "" {
		svc, err := findService(ctx, uc.repo, in.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = svc.DurationMin
	}

	seq, day, err := uc.engine.ListAvailableSlots(ctx, in.StylistID, date, duration)
	if err != nil {
		return nil, err
	}

	out := &Availability{
		StylistID:       in.StylistID,
		Date:            date,
		DurationMinutes: duration,
		Open:            day.Open,
		Reason:          day.Reason,
		WindowSource:    day.Window.Source,
		Slots:           slices.Collect(seq),
	}
	if day.Open {
		out.WindowStart = day.Window.Start.String()
		out.WindowEnd = day.Window.End.String()
	}
	if out.Slots == nil {
		out.Slots = []domain.TimeSlot{}
	}
	return out, nil
}
