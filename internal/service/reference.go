package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReference mints a booking reference: "LP", the booking date as yymmdd,
// then six random characters. Uniqueness is enforced by the database; on a
// collision the caller regenerates and retries.
func NewReference(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceCharset[int(b)%len(referenceCharset)]
	}
	return fmt.Sprintf("LP%s%s", now.Format("060102"), buf), nil
}
