package payment

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/booking/bookingtest"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	pay "github.com/BruksfildServices01/barber-booking/internal/payment"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type setup struct {
	store    *bookingtest.Store
	metrics  *metrics.Metrics
	customer domain.Actor
	booking  *models.Booking
}

func newSetup(t *testing.T, status string) *setup {
	t.Helper()
	store := bookingtest.New()
	cust := store.AddUser(models.RoleCustomer, "Ana")
	sty := store.AddUser(models.RoleStylist, "Carlos")
	svc := store.AddService("Haircut", 45, "50.00")
	b := store.AddBooking(models.Booking{
		CustomerID: cust.ID, StylistID: sty.ID, ServiceID: svc.ID,
		AppointmentDate: datatypes.Date(bookingtest.Day("2026-10-20")),
		StartTime:       "10:00:00", EndTime: "10:45:00",
		Status: status, TotalAmount: decimal.RequireFromString("50.00"),
	})
	return &setup{
		store:    store,
		metrics:  metrics.NewNop(),
		customer: domain.Actor{ID: cust.ID, Role: models.RoleCustomer},
		booking:  b,
	}
}

func (s *setup) usecase(rate float64) *ProcessPayment {
	clock := timezone.Fixed{At: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	gw := pay.NewSimulatedGateway(rate, rand.NewSource(7))
	return NewProcessPayment(s.store, gw, clock, zap.NewNop(), s.metrics)
}

func TestProcessPaymentApproved(t *testing.T) {
	s := newSetup(t, "confirmed")
	ctx := context.Background()

	p, err := s.usecase(1).Execute(ctx, ProcessPaymentInput{Actor: s.customer, BookingID: s.booking.ID, Method: "PIX"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)
	assert.Equal(t, "pix", p.Method)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, p.PaidAt)
	assert.NotEmpty(t, p.TransactionRef)

	_, err = s.usecase(1).Execute(ctx, ProcessPaymentInput{Actor: s.customer, BookingID: s.booking.ID, Method: "card"})
	assert.True(t, httperr.IsBusiness(err, "already_paid"))

	rows, err := NewListPayments(s.store).Execute(ctx, s.customer, s.booking.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.PaymentsProcessed.WithLabelValues("paid")))
}

func TestProcessPaymentDeclinedIsStored(t *testing.T) {
	s := newSetup(t, "pending")

	p, err := s.usecase(0).Execute(context.Background(), ProcessPaymentInput{Actor: s.customer, BookingID: s.booking.ID, Method: "card"})
	assert.True(t, httperr.IsBusiness(err, "payment_declined"))
	require.NotNil(t, p)
	assert.Equal(t, models.PaymentFailed, p.Status)
	assert.Equal(t, pay.DeclinedCode, p.FailureReason)
	require.Len(t, s.store.Payments, 1)

	// recusa não bloqueia nova tentativa
	_, err = s.usecase(1).Execute(context.Background(), ProcessPaymentInput{Actor: s.customer, BookingID: s.booking.ID, Method: "card"})
	assert.NoError(t, err)
}

func TestProcessPaymentRejections(t *testing.T) {
	ctx := context.Background()

	s := newSetup(t, "cancelled")
	_, err := s.usecase(1).Execute(ctx, ProcessPaymentInput{Actor: s.customer, BookingID: s.booking.ID, Method: "cash"})
	assert.True(t, httperr.IsBusiness(err, "booking_not_payable"))

	s = newSetup(t, "confirmed")
	_, err = s.usecase(1).Execute(ctx, ProcessPaymentInput{Actor: s.customer, BookingID: s.booking.ID, Method: "cheque"})
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_method"))

	_, err = s.usecase(1).Execute(ctx, ProcessPaymentInput{Actor: s.customer, BookingID: "missing", Method: "cash"})
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))

	stranger := domain.Actor{ID: "someone-else", Role: models.RoleCustomer}
	_, err = s.usecase(1).Execute(ctx, ProcessPaymentInput{Actor: stranger, BookingID: s.booking.ID, Method: "cash"})
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))

	_, err = NewListPayments(s.store).Execute(ctx, stranger, s.booking.ID)
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
	assert.Empty(t, s.store.Payments)
}
