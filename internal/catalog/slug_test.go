package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{"linen-shirt", "linen-shirt", nil},
		{"linen shirt", "linen-shirt", nil},
		{"  summer \t dress\n2024 ", "summer-dress-2024", nil},
		{"v1.2_final~", "v1.2_final~", nil},
		{"   ", "", ErrEmptySlug},
		{"shirt/blue", "", ErrInvalidSlug},
		{"50%-off", "", ErrInvalidSlug},
		{"café au lait", "", ErrInvalidSlug},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeSlug(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, " ")
		})
	}
}
