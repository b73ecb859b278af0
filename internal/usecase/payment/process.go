package payment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	pay "github.com/BruksfildServices01/barber-booking/internal/payment"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ProcessPaymentInput struct {
	Actor     domain.Actor
	BookingID string
	Method    string
}

// ======================================================
// USE CASE
// ======================================================

type ProcessPayment struct {
	repo    domain.PaymentRepository
	gateway pay.Gateway
	clock   timezone.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewProcessPayment(
	repo domain.PaymentRepository,
	gateway pay.Gateway,
	clock timezone.Clock,
	log *zap.Logger,
	m *metrics.Metrics,
) *ProcessPayment {
	return &ProcessPayment{
		repo:    repo,
		gateway: gateway,
		clock:   clock,
		log:     log,
		metrics: m,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ProcessPayment) Execute(
	ctx context.Context,
	in ProcessPaymentInput,
) (*models.Payment, error) {

	method := strings.ToLower(strings.TrimSpace(in.Method))
	if !pay.ValidMethod(method) {
		return nil, httperr.NewBadRequest("invalid_payment_method", "method must be cash, card or pix")
	}

	var p *models.Payment

	err := uc.repo.WithBookingLock(ctx, in.BookingID, func(tx domain.PaymentRepository, b *models.Booking) error {
		if !in.Actor.CanView(b) {
			return httperr.NewNotFound("booking_not_found", "booking not found")
		}

		switch domain.Status(b.Status) {
		case domain.StatusCancelled, domain.StatusNoShow:
			return httperr.NewBadRequest("booking_not_payable", "cancelled or no-show bookings cannot be paid")
		}

		existing, err := tx.ListPayments(ctx, b.ID)
		if err != nil {
			return httperr.Database("list payments", err)
		}
		for _, e := range existing {
			if e.Status == models.PaymentPaid {
				return httperr.NewConflict("already_paid", "this booking is already paid")
			}
		}

		res, err := uc.gateway.Charge(ctx, pay.Charge{
			BookingID: b.ID,
			Amount:    b.TotalAmount,
			Method:    method,
		})
		if err != nil {
			return httperr.Database("payment gateway", err)
		}

		p = &models.Payment{
			BookingID: b.ID,
			Amount:    b.TotalAmount,
			Method:    method,
		}
		if res.Approved {
			now := uc.clock.Now()
			p.Status = models.PaymentPaid
			p.TransactionRef = res.TransactionRef
			p.PaidAt = &now
		} else {
			p.Status = models.PaymentFailed
			p.FailureReason = res.FailureReason
		}

		if err := tx.CreatePayment(ctx, p); err != nil {
			return httperr.Database("create payment", err)
		}
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}
	if err != nil {
		return nil, httperr.Database("process payment", err)
	}

	uc.metrics.PaymentsProcessed.WithLabelValues(p.Status).Inc()
	uc.log.Info("payment processed",
		zap.String("booking_id", p.BookingID),
		zap.String("status", p.Status),
		zap.String("method", p.Method),
	)

	// a tentativa recusada fica registrada, mas o cliente recebe o erro
	if p.Status == models.PaymentFailed {
		return p, httperr.NewBadRequest("payment_declined", "the payment was declined")
	}
	return p, nil
}

// ------------------------------------------------------
// List
// ------------------------------------------------------

type ListPayments struct {
	repo domain.PaymentRepository
}

func NewListPayments(repo domain.PaymentRepository) *ListPayments {
	return &ListPayments{repo: repo}
}

func (uc *ListPayments) Execute(ctx context.Context, actor domain.Actor, bookingID string) ([]models.Payment, error) {
	b, err := uc.repo.GetBooking(ctx, bookingID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}
	if err != nil {
		return nil, httperr.Database("load booking", err)
	}
	if !actor.CanView(b) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}

	rows, err := uc.repo.ListPayments(ctx, bookingID)
	if err != nil {
		return nil, httperr.Database("list payments", err)
	}
	if rows == nil {
		rows = []models.Payment{}
	}
	return rows, nil
}
