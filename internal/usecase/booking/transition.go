package booking

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type TransitionInput struct {
	Actor     domain.Actor
	BookingID string
	Status    string
	Reason    string
}

// TransitionStatus é o único caminho para mudar o status de um agendamento.
type TransitionStatus struct {
	d Deps
}

func NewTransitionStatus(d Deps) *TransitionStatus {
	return &TransitionStatus{d: d}
}

func (uc *TransitionStatus) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Booking, error) {

	to, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	current, err := loadBooking(ctx, uc.d.Repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := in.Actor.AuthorizeTransition(current, to); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(in.Reason)
	var from string

	// releitura sob o lock do dia: cancelar e remarcar não se cruzam
	err = uc.d.Repo.WithSlotLock(ctx, current.StylistID, current.Date(), func(tx domain.Repository) error {
		b, err := loadBooking(ctx, tx, in.BookingID)
		if err != nil {
			return err
		}
		from = b.Status
		if err := domain.Transition(b, to, uc.d.Clock.Now(), reason); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return httperr.Database("update booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, httperr.Database("transition booking", err)
	}

	uc.d.Metrics.StatusTransitions.WithLabelValues(from, string(to)).Inc()

	uc.d.appendHistory(ctx, &models.BookingHistory{
		BookingID:      in.BookingID,
		Action:         domain.ActionFor(to),
		PreviousStatus: from,
		NewStatus:      string(to),
		Note:           reason,
		PerformedBy:    in.Actor.ID,
	})

	b, err := uc.d.detailed(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	uc.d.notifyStatus(ctx, b, from)
	uc.d.Log.Info("booking status changed",
		zap.String("booking_id", b.ID),
		zap.String("from", from),
		zap.String("to", b.Status),
		zap.String("actor", in.Actor.ID),
	)
	return b, nil
}
