package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
		StatusInProgress: {StatusCompleted, StatusCancelled},
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesNeverTransition(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, from.IsTerminal())
		for _, to := range AllStatuses() {
			err := CanTransition(from, to)
			require.Error(t, err, "%s -> %s", from, to)
			kind, ok := httperr.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, httperr.KindInvalidTransition, kind)
		}
	}
}

func TestActiveAndEditable(t *testing.T) {
	assert.ElementsMatch(t, []string{"pending", "confirmed", "in_progress"}, ActiveStatusStrings())

	assert.True(t, StatusNoShow.Editable())
	assert.False(t, StatusCompleted.Editable())
	assert.False(t, StatusCancelled.Editable())
	assert.False(t, StatusNoShow.IsActive())
	assert.True(t, StatusPending.Editable())
	assert.True(t, StatusInProgress.Editable())
}

func TestNext(t *testing.T) {
	assert.Equal(t, []Status{StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow}, StatusConfirmed.Next())
	assert.Equal(t, []Status{StatusConfirmed, StatusCancelled}, StatusPending.Next())
	assert.Empty(t, StatusCompleted.Next())
	assert.NotNil(t, StatusNoShow.Next())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("archived")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, "STATUS_CHANGED_TO_NO_SHOW", ActionFor(StatusNoShow))
	assert.Equal(t, "STATUS_CHANGED_TO_CONFIRMED", ActionFor(StatusConfirmed))
}

func TestTransitionTimestamps(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: string(StatusPending)}
	require.NoError(t, Transition(b, StatusConfirmed, now, ""))
	assert.Equal(t, "confirmed", b.Status)
	require.NotNil(t, b.ConfirmedAt)
	assert.Equal(t, now, *b.ConfirmedAt)

	require.NoError(t, Transition(b, StatusCompleted, now, ""))
	require.NotNil(t, b.CompletedAt)

	c := &models.Booking{Status: string(StatusConfirmed)}
	require.NoError(t, Transition(c, StatusCancelled, now, "client sick"))
	require.NotNil(t, c.CancelledAt)
	assert.Equal(t, "client sick", c.CancelReason)

	err := Transition(c, StatusConfirmed, now, "")
	require.Error(t, err)
	assert.Equal(t, "cancelled", c.Status)
}
