package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBack(t *testing.T) {
	assert.Equal(t, "UTC", Location("UTC").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.False(t, IsValid(""))
	assert.True(t, IsValid("Europe/Lisbon"))
}

func TestTodayUsesLocalDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	c := Fixed{At: time.Date(2026, 10, 19, 22, 0, 0, 0, loc)}

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Today(c))
	assert.Equal(t, loc, c.Location())
}
