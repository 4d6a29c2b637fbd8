package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ten digits", "9876543210", "9876543210"},
		{"country code prefix", "+919876543210", "9876543210"},
		{"leading zero", "09876543210", "9876543210"},
		{"spaces and dashes", "+91 98765-43210", "9876543210"},
		{"short number kept as is", "43210", "43210"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}
