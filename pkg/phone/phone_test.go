package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"digits only", "6626404004", "US", "(662) 640-4004"},
		{"default region", "662-640-4004", "", "(662) 640-4004"},
		{"already formatted", "(662) 640-4004", "US", "(662) 640-4004"},
		{"empty", "   ", "US", ""},
		{"garbage kept", "call my cell", "US", "call my cell"},
		{"too short kept", " 12345 ", "US", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.raw, tt.region))
		})
	}
}
