package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundPercentage(t *testing.T) {
	start := time.Date(2026, 6, 20, 19, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"a week before", start.Add(-7 * 24 * time.Hour), 100},
		{"just over 24h", start.Add(-25 * time.Hour), 100},
		{"exactly 24h", start.Add(-24 * time.Hour), 100},
		{"just under 24h", start.Add(-24*time.Hour + time.Second), 50},
		{"18h before", start.Add(-18 * time.Hour), 50},
		{"exactly 12h", start.Add(-12 * time.Hour), 50},
		{"just under 12h", start.Add(-12*time.Hour + time.Second), 0},
		{"one hour before", start.Add(-time.Hour), 0},
		{"one minute before", start.Add(-time.Minute), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RefundPercentage(tt.now, start))
		})
	}
}

func TestRefundPercentageNeverIncreasesAsEventApproaches(t *testing.T) {
	start := time.Date(2026, 6, 20, 19, 30, 0, 0, time.UTC)

	prev := 100
	for hours := 72; hours >= 1; hours-- {
		now := start.Add(-time.Duration(hours) * time.Hour)
		pct := RefundPercentage(now, start)
		assert.LessOrEqual(t, pct, prev, "refund grew as the event got closer at %dh", hours)
		prev = pct
	}
}

func TestRefundAmount(t *testing.T) {
	assert.Equal(t, int64(7500), RefundAmount(7500, 100))
	assert.Equal(t, int64(3750), RefundAmount(7500, 50))
	assert.Equal(t, int64(0), RefundAmount(7500, 0))

	// Odd totals truncate toward zero.
	assert.Equal(t, int64(50), RefundAmount(101, 50))
	assert.Equal(t, int64(0), RefundAmount(1, 50))
}
