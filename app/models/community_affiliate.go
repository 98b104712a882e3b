package models

import "time"

// Affiliate approval statuses. Only approved affiliates accrue earnings.
const (
	AffiliateStatusPending   = "pending"
	AffiliateStatusApproved  = "approved"
	AffiliateStatusRejected  = "rejected"
	AffiliateStatusSuspended = "suspended"
)

// CommunityAffiliate tracks referral performance for a community. Earnings
// are cumulative; no decrement path exists.
type CommunityAffiliate struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CommunityID       uint      `gorm:"not null;index" json:"community_id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	Code              string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"code"`
	Status            string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AmountEarnedCents int64     `gorm:"not null;default:0" json:"amount_earned_cents"`
	AmountPaidCents   int64     `gorm:"not null;default:0" json:"amount_paid_cents"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsApproved reports whether the affiliate may accrue new earnings.
func (a *CommunityAffiliate) IsApproved() bool {
	return a.Status == AffiliateStatusApproved
}
