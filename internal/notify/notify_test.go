package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:              "b1",
		CustomerID:      "c1",
		StylistID:       "s1",
		AppointmentDate: datatypes.Date(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)),
		StartTime:       "10:00:00",
		Status:          "pending",
	}
}

func TestBookingTasksCarryPayload(t *testing.T) {
	task, err := NewBookingStatusTask(sampleBooking(), "confirmed")
	require.NoError(t, err)
	assert.Equal(t, TypeBookingStatus, task.Type())

	var p BookingPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "b1", p.BookingID)
	assert.Equal(t, "2026-10-20", p.Date)
	assert.Equal(t, "confirmed", p.PreviousStatus)
}

func TestHandlersRejectBadPayload(t *testing.T) {
	h := handleBooking(zap.NewNop())
	err := h(context.Background(), asynq.NewTask(TypeBookingCreated, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	task, err := NewPasswordResetTask("a@b.com", "123456")
	require.NoError(t, err)
	assert.NoError(t, handlePasswordReset(zap.NewNop())(context.Background(), task))

	err = handlePasswordReset(zap.NewNop())(context.Background(), asynq.NewTask(TypePasswordReset, []byte(`{}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier(zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, n.BookingCreated(ctx, sampleBooking()))
	assert.NoError(t, n.BookingStatusChanged(ctx, sampleBooking(), "pending"))
	assert.NoError(t, n.PasswordReset(ctx, "a@b.com", "000000"))
}
