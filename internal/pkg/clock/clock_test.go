package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestLocalDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	// 20:00 UTC on the 9th is already the 10th at +05:30.
	got := LocalDate(time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC), ist)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), got)

	got = LocalDate(time.Date(2025, 1, 9, 18, 0, 0, 0, time.UTC), ist)
	assert.Equal(t, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), got)
}
