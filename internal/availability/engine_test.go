package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/booking/bookingtest"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var (
	monday  = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	sunday  = time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
)

func newEngine(store *bookingtest.Store) *Engine {
	return New(store, domain.DefaultSchedulePolicy(), zap.NewNop(), metrics.NewNop())
}

func addBooking(store *bookingtest.Store, stylistID string, day time.Time, start, end string, status domain.Status) *models.Booking {
	return store.AddBooking(models.Booking{
		StylistID:       stylistID,
		AppointmentDate: datatypes.Date(day),
		StartTime:       start,
		EndTime:         end,
		Status:          string(status),
	})
}

func query(stylistID string, day time.Time, start string, duration int) domain.SlotQuery {
	return domain.SlotQuery{
		StylistID:       stylistID,
		Date:            day,
		StartTime:       domain.MustClock(start),
		DurationMinutes: duration,
	}
}

func TestIsSlotAvailable_MondayScenario(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	store.SetSchedule(stylist.ID, time.Monday, "09:00:00", "18:00:00", true)
	addBooking(store, stylist.ID, monday, "10:00:00", "11:00:00", domain.StatusConfirmed)

	engine := newEngine(store)
	ctx := context.Background()

	tests := []struct {
		name     string
		start    string
		duration int
		want     bool
		reason   string
	}{
		{"contained overlap", "10:30", 30, false, domain.ReasonConflict},
		{"abuts end of existing booking", "11:00", 30, true, ""},
		{"early morning", "09:15", 30, true, ""},
		{"ends exactly when existing starts", "09:30", 30, true, ""},
		{"end falls inside existing", "09:45", 30, false, domain.ReasonConflict},
		{"fully contains existing", "09:45", 90, false, domain.ReasonConflict},
		{"before opening", "08:45", 30, false, domain.ReasonOutsideHours},
		{"runs past closing", "17:45", 30, false, domain.ReasonOutsideHours},
		{"last slot of the day", "17:30", 30, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := engine.CheckSlot(ctx, query(stylist.ID, monday, tt.start, tt.duration))
			require.NoError(t, err)
			assert.Equal(t, tt.want, check.Available)
			assert.Equal(t, tt.reason, check.Reason)

			ok, err := engine.IsSlotAvailable(ctx, query(stylist.ID, monday, tt.start, tt.duration))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestIsSlotAvailable_HalfOpenBoundary(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	addBooking(store, stylist.ID, monday, "09:00:00", "09:45:00", domain.StatusPending)

	ok, err := newEngine(store).IsSlotAvailable(context.Background(), query(stylist.ID, monday, "09:45", 30))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsSlotAvailable_InactiveBookingsNeverBlock(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	for _, st := range []domain.Status{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		addBooking(store, stylist.ID, monday, "10:00:00", "11:00:00", st)
	}

	ok, err := newEngine(store).IsSlotAvailable(context.Background(), query(stylist.ID, monday, "10:00", 60))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsSlotAvailable_OtherStylistAndDayIgnored(t *testing.T) {
	store := bookingtest.New()
	ana := store.AddUser(models.RoleStylist, "Ana")
	bia := store.AddUser(models.RoleStylist, "Bia")
	addBooking(store, bia.ID, monday, "10:00:00", "11:00:00", domain.StatusConfirmed)
	addBooking(store, ana.ID, tuesday, "10:00:00", "11:00:00", domain.StatusConfirmed)

	ok, err := newEngine(store).IsSlotAvailable(context.Background(), query(ana.ID, monday, "10:00", 60))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsSlotAvailable_MissingEndTimeDefaultsToOneHour(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	addBooking(store, stylist.ID, monday, "10:00:00", "", domain.StatusConfirmed)

	engine := newEngine(store)
	ctx := context.Background()

	ok, err := engine.IsSlotAvailable(ctx, query(stylist.ID, monday, "10:45", 15))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.IsSlotAvailable(ctx, query(stylist.ID, monday, "11:00", 15))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsSlotAvailable_ExcludesOwnBooking(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	own := addBooking(store, stylist.ID, monday, "10:00:00", "11:00:00", domain.StatusConfirmed)

	q := query(stylist.ID, monday, "10:30", 60)
	ok, err := newEngine(store).IsSlotAvailable(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, ok)

	q.ExcludeBookingID = own.ID
	ok, err = newEngine(store).IsSlotAvailable(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWindowResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("sunday without schedule is closed", func(t *testing.T) {
		store := bookingtest.New()
		stylist := store.AddUser(models.RoleStylist, "Ana")

		check, err := newEngine(store).CheckSlot(ctx, query(stylist.ID, sunday, "10:00", 30))
		require.NoError(t, err)
		assert.False(t, check.Available)
		assert.Equal(t, domain.ReasonClosed, check.Reason)
	})

	t.Run("sunday with explicit schedule is open", func(t *testing.T) {
		store := bookingtest.New()
		stylist := store.AddUser(models.RoleStylist, "Ana")
		store.SetSchedule(stylist.ID, time.Sunday, "10:00:00", "14:00:00", true)

		check, err := newEngine(store).CheckSlot(ctx, query(stylist.ID, sunday, "10:00", 30))
		require.NoError(t, err)
		assert.True(t, check.Available)
		assert.Equal(t, domain.WindowFromSchedule, check.Window.Source)
	})

	t.Run("weekday without schedule uses default window", func(t *testing.T) {
		store := bookingtest.New()
		stylist := store.AddUser(models.RoleStylist, "Ana")
		m := metrics.NewNop()
		engine := New(store, domain.DefaultSchedulePolicy(), zap.NewNop(), m)

		check, err := engine.CheckSlot(ctx, query(stylist.ID, tuesday, "09:00", 30))
		require.NoError(t, err)
		assert.True(t, check.Available)
		assert.Equal(t, domain.WindowFromDefault, check.Window.Source)

		check, err = engine.CheckSlot(ctx, query(stylist.ID, tuesday, "18:00", 30))
		require.NoError(t, err)
		assert.False(t, check.Available)
		assert.Equal(t, domain.ReasonOutsideHours, check.Reason)
	})

	t.Run("unavailable row falls back to default window", func(t *testing.T) {
		store := bookingtest.New()
		stylist := store.AddUser(models.RoleStylist, "Ana")
		store.SetSchedule(stylist.ID, time.Tuesday, "10:00:00", "12:00:00", false)
		engine := newEngine(store)

		check, err := engine.CheckSlot(ctx, query(stylist.ID, tuesday, "15:00", 30))
		require.NoError(t, err)
		assert.True(t, check.Available)
		assert.Equal(t, domain.WindowFromDefault, check.Window.Source)

		seq, day, err := engine.ListAvailableSlots(ctx, stylist.ID, tuesday, 30)
		require.NoError(t, err)
		require.True(t, day.Open)
		n := 0
		for range seq {
			n++
		}
		assert.Equal(t, 35, n)
	})

	t.Run("unavailable row closes the day when the policy says so", func(t *testing.T) {
		store := bookingtest.New()
		stylist := store.AddUser(models.RoleStylist, "Ana")
		store.SetSchedule(stylist.ID, time.Tuesday, "09:00:00", "18:00:00", false)
		policy := domain.DefaultSchedulePolicy()
		policy.UnavailableRowCloses = true

		check, err := New(store, policy, zap.NewNop(), nil).CheckSlot(ctx, query(stylist.ID, tuesday, "10:00", 30))
		require.NoError(t, err)
		assert.False(t, check.Available)
		assert.Equal(t, domain.ReasonClosed, check.Reason)
	})

	t.Run("leave period closes the day", func(t *testing.T) {
		store := bookingtest.New()
		stylist := store.AddUser(models.RoleStylist, "Ana")
		store.AddLeave(stylist.ID, monday, tuesday)

		check, err := newEngine(store).CheckSlot(ctx, query(stylist.ID, tuesday, "10:00", 30))
		require.NoError(t, err)
		assert.False(t, check.Available)
		assert.Equal(t, domain.ReasonOnLeave, check.Reason)
	})
}

func TestListAvailableSlots_EmptyDay(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	store.SetSchedule(stylist.ID, time.Monday, "09:00:00", "18:00:00", true)

	seq, day, err := newEngine(store).ListAvailableSlots(context.Background(), stylist.ID, monday, 30)
	require.NoError(t, err)
	require.True(t, day.Open)

	var times []string
	for slot := range seq {
		assert.True(t, slot.IsAvailable, slot.Time)
		times = append(times, slot.Time)
	}

	require.Len(t, times, 35)
	assert.Equal(t, "09:00:00", times[0])
	assert.Equal(t, "09:15:00", times[1])
	assert.Equal(t, "17:30:00", times[len(times)-1])

	// a sequência pode ser percorrida de novo
	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 35, count)
}

func TestListAvailableSlots_MarksBookedCandidates(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	store.SetSchedule(stylist.ID, time.Monday, "09:00:00", "12:00:00", true)
	addBooking(store, stylist.ID, monday, "10:00:00", "11:00:00", domain.StatusConfirmed)

	seq, _, err := newEngine(store).ListAvailableSlots(context.Background(), stylist.ID, monday, 30)
	require.NoError(t, err)

	got := map[string]bool{}
	for slot := range seq {
		got[slot.Time] = slot.IsAvailable
		if !slot.IsAvailable {
			assert.Equal(t, domain.ReasonConflict, slot.Reason)
		}
	}

	assert.True(t, got["09:30:00"])
	assert.False(t, got["09:45:00"])
	assert.False(t, got["10:00:00"])
	assert.False(t, got["10:45:00"])
	assert.True(t, got["11:00:00"])
	assert.True(t, got["11:30:00"])
	_, past := got["11:45:00"]
	assert.False(t, past)
}

func TestListAvailableSlots_ClosedSundayIsEmpty(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")

	seq, day, err := newEngine(store).ListAvailableSlots(context.Background(), stylist.ID, sunday, 30)
	require.NoError(t, err)
	assert.False(t, day.Open)

	for range seq {
		t.Fatal("expected no slots on a closed day")
	}
}

func TestListAvailableSlots_DurationLongerThanWindow(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	store.SetSchedule(stylist.ID, time.Monday, "09:00:00", "10:00:00", true)

	seq, _, err := newEngine(store).ListAvailableSlots(context.Background(), stylist.ID, monday, 90)
	require.NoError(t, err)
	for range seq {
		t.Fatal("expected no slots")
	}
}

func TestEngine_InvalidDuration(t *testing.T) {
	store := bookingtest.New()
	_, err := newEngine(store).IsSlotAvailable(context.Background(), query("x", monday, "10:00", 0))
	require.Error(t, err)
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindBadRequest, kind)
}

func TestEngine_StorageFailurePropagates(t *testing.T) {
	store := bookingtest.New()
	stylist := store.AddUser(models.RoleStylist, "Ana")
	store.FailBookings = errors.New("connection reset")

	_, err := newEngine(store).IsSlotAvailable(context.Background(), query(stylist.ID, monday, "10:00", 30))
	require.Error(t, err)
	kind, _ := httperr.KindOf(err)
	assert.Equal(t, httperr.KindDatabase, kind)
	assert.ErrorIs(t, err, store.FailBookings)
}
