package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmptyExpr(t *testing.T) {
	available := map[string]bool{
		"country_name": true,
		"country_iso":  true,
		"referer":      true,
	}

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{
			name:       "single present column",
			candidates: []string{"referer"},
			want:       "COALESCE(NULLIF(referer::text, ''), '')",
		},
		{
			name:       "variants collapse in priority order",
			candidates: countryColumns,
			want:       "COALESCE(NULLIF(country_name::text, ''), NULLIF(country_iso::text, ''), '')",
		},
		{
			name:       "no candidate present",
			candidates: sessionColumns,
			want:       "''",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstNonEmptyExpr(available, tt.candidates...))
		})
	}
}
