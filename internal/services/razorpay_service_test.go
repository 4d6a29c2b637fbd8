package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		percent float64
		want    float64
	}{
		{"two percent of 1000", 1000, 2.0, 20.00},
		{"rounds to paise", 999, 2.0, 19.98},
		{"rounds half up", 512.50, 2.0, 10.25},
		{"zero fee", 750, 0, 0},
		{"small amount", 1, 2.0, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateFee(tt.amount, tt.percent), 0.001)
		})
	}
}
