package config

import (
	"testing"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestConfig_PageLimits(t *testing.T) {
	testCases := []struct {
		name       string
		pagination Pagination
		want       domain.PageLimits
	}{
		{
			name:       "configured values",
			pagination: Pagination{DefaultPageSize: 20, MaxPageSize: 200},
			want:       domain.PageLimits{Default: 20, Max: 200},
		},
		{
			name:       "zero values fall back",
			pagination: Pagination{},
			want:       domain.PageLimits{Default: domain.DefaultPageSize, Max: domain.DefaultMaxPageSize},
		},
		{
			name:       "default above max is clamped",
			pagination: Pagination{DefaultPageSize: 500, MaxPageSize: 10},
			want:       domain.PageLimits{Default: 10, Max: 10},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Pagination: tc.pagination}
			assert.Equal(t, tc.want, cfg.PageLimits())
		})
	}
}
