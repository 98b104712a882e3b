package models

import "time"

// Billing intervals supported by paywall tiers.
const (
	BillingIntervalMonthly   = "monthly"
	BillingIntervalQuarterly = "quarterly"
	BillingIntervalAnnual    = "annual"
	BillingIntervalLifetime  = "lifetime"
)

// PaywallTier is a recurring subscription plan for a community. Only the
// fields the subscription lifecycle reads live here; tier management is a
// separate surface.
type PaywallTier struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CommunityID     uint      `gorm:"not null;index" json:"community_id"`
	Name            string    `gorm:"type:varchar(150);not null" json:"name"`
	PriceCents      int64     `gorm:"not null;default:0" json:"price_cents"`
	Currency        string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	BillingInterval string    `gorm:"type:varchar(16);not null;default:'monthly'" json:"billing_interval"`
	IsActive        bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PeriodEndFrom computes the end of a billing period that starts at the given
// instant. Lifetime tiers have no period end.
func (t *PaywallTier) PeriodEndFrom(start time.Time) *time.Time {
	var end time.Time
	switch t.BillingInterval {
	case BillingIntervalMonthly:
		end = start.AddDate(0, 1, 0)
	case BillingIntervalQuarterly:
		end = start.AddDate(0, 3, 0)
	case BillingIntervalAnnual:
		end = start.AddDate(1, 0, 0)
	case BillingIntervalLifetime:
		return nil
	default:
		end = start.AddDate(0, 1, 0)
	}
	return &end
}
