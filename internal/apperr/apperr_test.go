package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", ErrNotFound), http.StatusNotFound},
		{"insufficient seats", ErrInsufficientSeats, http.StatusConflict},
		{"state conflict", ErrConflict, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("%w: has bookings", ErrConflict), http.StatusConflict},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"validation", Validation("date", "bad date"), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"persistence", Persistence("insert", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestValidationErrorAccumulates(t *testing.T) {
	verr := &ValidationError{}
	assert.False(t, verr.HasErrors())

	verr.Add("date", "date must be YYYY-MM-DD")
	verr.Add("", "at least one ticket must be requested")
	require.True(t, verr.HasErrors())
	require.Len(t, verr.Fields, 2)

	assert.Contains(t, verr.Error(), "date must be YYYY-MM-DD")
	assert.Contains(t, verr.Error(), "at least one ticket")
}

func TestAsValidation(t *testing.T) {
	verr, ok := AsValidation(Validation("cvv", "too short"))
	require.True(t, ok)
	assert.Equal(t, "cvv", verr.Fields[0].Field)

	_, ok = AsValidation(errors.New("boom"))
	assert.False(t, ok)

	wrapped := fmt.Errorf("charge: %w", Validation("cvv", "too short"))
	_, ok = AsValidation(wrapped)
	assert.True(t, ok)
}

func TestPersistenceUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence("create booking", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create booking")

	assert.Nil(t, Persistence("noop", nil))
}
