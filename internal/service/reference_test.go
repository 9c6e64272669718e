package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceFormat(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)

	ref, err := NewReference(now)
	require.NoError(t, err)

	assert.Len(t, ref, 14)
	assert.Regexp(t, regexp.MustCompile(`^LP260829[A-Z0-9]{6}$`), ref)
}

func TestNewReferenceVaries(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := NewReference(now)
		require.NoError(t, err)
		seen[ref] = true
	}
	// Collisions are possible but 100 identical draws would mean a broken
	// random source.
	assert.Greater(t, len(seen), 1)
}
