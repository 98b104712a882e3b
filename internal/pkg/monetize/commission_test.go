package monetize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCommission(t *testing.T) {
	cfg := CommissionConfig{DefaultShareBps: 2500}

	tests := []struct {
		name          string
		gross         int64
		cfg           CommissionConfig
		wantAffiliate int64
		wantPlatform  int64
	}{
		{
			name:          "quarter share",
			gross:         4500,
			cfg:           cfg,
			wantAffiliate: 1125,
			wantPlatform:  3375,
		},
		{
			name:          "truncation favors the platform",
			gross:         999,
			cfg:           CommissionConfig{DefaultShareBps: 3333},
			wantAffiliate: 332, // 999*3333/10000 = 332.96...
			wantPlatform:  667,
		},
		{
			name:  "zero gross",
			gross: 0,
			cfg:   cfg,
		},
		{
			name:  "negative gross",
			gross: -500,
			cfg:   cfg,
		},
		{
			name:  "zero share",
			gross: 4500,
			cfg:   CommissionConfig{},
			wantPlatform: 4500,
		},
		{
			name:          "share above 100 percent clamps",
			gross:         4500,
			cfg:           CommissionConfig{DefaultShareBps: 20000},
			wantAffiliate: 4500,
		},
		{
			name:         "negative share clamps to zero",
			gross:        4500,
			cfg:          CommissionConfig{DefaultShareBps: -100},
			wantPlatform: 4500,
		},
		{
			name:  "category override wins over default",
			gross: 10000,
			cfg: CommissionConfig{
				DefaultShareBps:  2500,
				CategoryShareBps: map[string]int64{CategoryCommunitySubscription: 1000},
			},
			wantAffiliate: 1000,
			wantPlatform:  9000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := ComputeCommission(tt.gross, tt.cfg, CategoryCommunitySubscription)
			assert.Equal(t, tt.wantAffiliate, split.AffiliateAmountCents)
			assert.Equal(t, tt.wantPlatform, split.PlatformAmountCents)
			assert.Equal(t, CategoryCommunitySubscription, split.Category)
			if tt.gross > 0 {
				assert.Equal(t, tt.gross, split.AffiliateAmountCents+split.PlatformAmountCents)
			}
		})
	}
}
