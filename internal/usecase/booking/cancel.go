package booking

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CancelInput struct {
	Actor     domain.Actor
	BookingID string
	Reason    string
}

type CancelBooking struct {
	transition *TransitionStatus
}

func NewCancelBooking(t *TransitionStatus) *CancelBooking {
	return &CancelBooking{transition: t}
}

func (uc *CancelBooking) Execute(ctx context.Context, in CancelInput) (*models.Booking, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, httperr.NewBadRequest("cancel_reason_required", "a cancellation reason is required")
	}
	return uc.transition.Execute(ctx, TransitionInput{
		Actor:     in.Actor,
		BookingID: in.BookingID,
		Status:    string(domain.StatusCancelled),
		Reason:    in.Reason,
	})
}
