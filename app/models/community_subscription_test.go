package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddCompletedPayment(t *testing.T) {
	m := &SubscriptionMetadata{}

	assert.True(t, m.AddCompletedPayment("pay-1"))
	assert.True(t, m.AddCompletedPayment("pay-2"))
	// Set semantics: a replayed id does not grow the list.
	assert.False(t, m.AddCompletedPayment("pay-1"))
	assert.False(t, m.AddCompletedPayment(""))
	assert.Equal(t, []string{"pay-1", "pay-2"}, m.CompletedPayments)
}

func TestPeriodEndFrom(t *testing.T) {
	start := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		interval string
		want     *time.Time
	}{
		{interval: BillingIntervalMonthly, want: timePtr(start.AddDate(0, 1, 0))},
		{interval: BillingIntervalQuarterly, want: timePtr(start.AddDate(0, 3, 0))},
		{interval: BillingIntervalAnnual, want: timePtr(start.AddDate(1, 0, 0))},
		{interval: BillingIntervalLifetime, want: nil},
		{interval: "unknown", want: timePtr(start.AddDate(0, 1, 0))},
	}

	for _, tt := range tests {
		tier := &PaywallTier{BillingInterval: tt.interval}
		got := tier.PeriodEndFrom(start)
		if tt.want == nil {
			assert.Nil(t, got, "interval %s", tt.interval)
			continue
		}
		assert.Equal(t, *tt.want, *got, "interval %s", tt.interval)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
