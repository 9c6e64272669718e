package service

import "time"

// Refund bands by time remaining before the event starts. Boundaries are
// inclusive: exactly 24 hours out still earns the full refund, exactly 12
// hours the half refund.
const (
	fullRefundWindow = 24 * time.Hour
	halfRefundWindow = 12 * time.Hour
)

// RefundPercentage returns the refund band for a cancellation at now, given
// when the event starts.
func RefundPercentage(now, eventStart time.Time) int {
	remaining := eventStart.Sub(now)
	switch {
	case remaining >= fullRefundWindow:
		return 100
	case remaining >= halfRefundWindow:
		return 50
	default:
		return 0
	}
}

// RefundAmount applies a whole-percentage band to a pence total, truncating
// toward zero.
func RefundAmount(totalPence int64, percentage int) int64 {
	return totalPence * int64(percentage) / 100
}
