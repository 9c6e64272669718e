package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPence(t *testing.T) {
	tests := []struct {
		pence    int64
		expected string
	}{
		{0, "£0.00"},
		{5, "£0.05"},
		{99, "£0.99"},
		{100, "£1.00"},
		{2500, "£25.00"},
		{7500, "£75.00"},
		{123456, "£1234.56"},
		{-3750, "-£37.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatPence(tt.pence))
	}
}
