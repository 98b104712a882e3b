package models

import "time"

// MonetizationSetting is the per-community commission configuration consumed
// by the commission calculator. Shares are basis points of the gross amount.
type MonetizationSetting struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	CommunityID       uint             `gorm:"uniqueIndex;not null" json:"community_id"`
	AffiliateShareBps int64            `gorm:"not null;default:0" json:"affiliate_share_bps"`
	CategoryShareBps  map[string]int64 `gorm:"serializer:json" json:"category_share_bps,omitempty"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// ShareBpsFor returns the configured affiliate share for a commission
// category, falling back to the community default share.
func (s *MonetizationSetting) ShareBpsFor(category string) int64 {
	if s == nil {
		return 0
	}
	if bps, ok := s.CategoryShareBps[category]; ok {
		return bps
	}
	return s.AffiliateShareBps
}
