package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkgate/internal/apperr"
)

func TestChargeApprovesValidCard(t *testing.T) {
	p := NewCardProcessor()

	charge, err := p.Charge("J SMITH", "4111 1111 1111 1111", "12/27", "123")
	require.NoError(t, err)

	assert.Equal(t, "1111", charge.CardLastFour)
	assert.True(t, strings.HasPrefix(charge.TransactionID, "TXN-"))
}

func TestChargeRejectsBadDetails(t *testing.T) {
	p := NewCardProcessor()

	tests := []struct {
		name   string
		holder string
		number string
		expiry string
		cvv    string
		field  string
	}{
		{"blank name", "  ", "4111111111111111", "12/27", "123", "card_name"},
		{"short number", "J SMITH", "1234 5678", "12/27", "123", "card_number"},
		{"bad expiry format", "J SMITH", "4111111111111111", "2027-12", "123", "expiry_date"},
		{"month out of range", "J SMITH", "4111111111111111", "13/27", "123", "expiry_date"},
		{"short cvv", "J SMITH", "4111111111111111", "12/27", "12", "cvv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Charge(tt.holder, tt.number, tt.expiry, tt.cvv)
			verr, ok := apperr.AsValidation(err)
			require.True(t, ok)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestChargeCollectsAllProblems(t *testing.T) {
	p := NewCardProcessor()

	_, err := p.Charge("", "12", "bad", "1")
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 4)
}

func TestRefundTransactionID(t *testing.T) {
	p := NewCardProcessor()
	assert.True(t, strings.HasPrefix(p.RefundTransactionID(), "REF-"))
}
