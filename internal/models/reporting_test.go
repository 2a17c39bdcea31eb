package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowContains(t *testing.T) {
	w := Range(
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	)

	assert.True(t, w.Contains(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)))

	// A zero start date is open on the left.
	open := SinceInception(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.True(t, open.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, open.Contains(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)))
}

func TestTrailingYear(t *testing.T) {
	// One calendar year back, so the start lands on the same month/day.
	w := TrailingYear(time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), w.StartDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), w.EndDate)
	assert.Equal(t, WindowTrailingYear, w.Kind)
}
