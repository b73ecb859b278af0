package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type memWriter struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (w *memWriter) Write(_ context.Context, e *models.AuditLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.entries = append(w.entries, *e)
	return nil
}

func TestDispatcherWritesEvents(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w, zap.NewNop())

	d.Dispatch(Event{
		UserID:   Ptr("u1"),
		Action:   "schedule_updated",
		Entity:   "stylist",
		EntityID: Ptr("s1"),
		Metadata: map[string]int{"days": 5},
	})
	d.Close()

	require.Len(t, w.entries, 1)
	e := w.entries[0]
	assert.Equal(t, "schedule_updated", e.Action)
	assert.Equal(t, "u1", *e.UserID)
	assert.JSONEq(t, `{"days":5}`, string(e.Metadata))
}

func TestDispatcherSurvivesWriterErrors(t *testing.T) {
	w := &memWriter{err: errors.New("db down")}
	d := NewDispatcher(w, zap.NewNop())

	d.Dispatch(Event{Action: "service_created"})
	d.Close()
	d.Close()

	assert.Empty(t, w.entries)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "x"})
		d.Close()
	})
	assert.Nil(t, Ptr(""))
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w, zap.NewNop())
	d.Close()

	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "late"}) })
	assert.Empty(t, w.entries)
}
