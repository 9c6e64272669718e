package gateway

import (
	"strings"

	"github.com/google/uuid"

	"parkgate/internal/apperr"
)

// CardProcessor simulates a card acquirer. It runs superficial checks on the
// card details, never talks to a real network, and approves everything that
// passes validation. Only the last four digits of the card ever leave this
// package.
type CardProcessor struct{}

func NewCardProcessor() *CardProcessor {
	return &CardProcessor{}
}

// Charge is the simulated capture result.
type Charge struct {
	TransactionID string
	CardLastFour  string
}

// Charge validates the card details and returns an approved charge. Amounts
// are not checked against any balance; the processor exists to exercise the
// payment flow, not to move money.
func (p *CardProcessor) Charge(name, number, expiry, cvv string) (*Charge, error) {
	verr := &apperr.ValidationError{}

	digits := digitsOnly(number)

	if strings.TrimSpace(name) == "" {
		verr.Add("card_name", "cardholder name is required")
	}
	if len(digits) < 13 {
		verr.Add("card_number", "card number must have at least 13 digits")
	}
	if !validExpiry(expiry) {
		verr.Add("expiry_date", "expiry date must be MM/YY")
	}
	if cvvDigits := digitsOnly(cvv); len(cvvDigits) < 3 {
		verr.Add("cvv", "CVV must have at least 3 digits")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &Charge{
		TransactionID: "TXN-" + strings.ToUpper(uuid.New().String()[:12]),
		CardLastFour:  digits[len(digits)-4:],
	}, nil
}

// RefundTransactionID mints an ID for a refund ledger row.
func (p *CardProcessor) RefundTransactionID() string {
	return "REF-" + strings.ToUpper(uuid.New().String()[:12])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validExpiry(expiry string) bool {
	expiry = strings.TrimSpace(expiry)
	if len(expiry) != 5 || expiry[2] != '/' {
		return false
	}
	mm := expiry[:2]
	yy := expiry[3:]
	if len(digitsOnly(mm)) != 2 || len(digitsOnly(yy)) != 2 {
		return false
	}
	return mm >= "01" && mm <= "12"
}
