package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestListFilterNormalize(t *testing.T) {
	f := ListFilter{}
	require.NoError(t, f.Normalize())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageLimit, f.Limit)
	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, 0, f.Offset())

	f = ListFilter{Page: 3, Limit: 500, SortBy: "totalAmount", SortDesc: true}
	require.NoError(t, f.Normalize())
	assert.Equal(t, MaxPageLimit, f.Limit)
	assert.Equal(t, 200, f.Offset())
	assert.Equal(t, "total_amount DESC, id DESC", f.OrderClause())

	f = ListFilter{SortBy: "name; DROP TABLE bookings"}
	assert.True(t, httperr.IsBusiness(f.Normalize(), "invalid_sort"))

	f = ListFilter{Status: "archived"}
	assert.True(t, httperr.IsBusiness(f.Normalize(), "invalid_status"))

	from := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	f = ListFilter{DateFrom: &from, DateTo: &to}
	assert.True(t, httperr.IsBusiness(f.Normalize(), "invalid_date_range"))
}

func TestParseSortOrder(t *testing.T) {
	desc, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.True(t, desc)

	desc, err = ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.False(t, desc)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}

func TestWindowsFor(t *testing.T) {
	// quarta-feira
	w := WindowsFor(time.Date(2026, 10, 21, 15, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), w.Today)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), w.WeekStart)
	assert.Equal(t, time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC), w.WeekEnd)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), w.MonthStart)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), w.MonthEnd)
}
