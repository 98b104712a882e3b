package monetize

// Commission categories known to the platform. The calculator takes the
// category explicitly so shared callers cannot silently misclassify.
const CategoryCommunitySubscription = "community_subscription"

const bpsDenominator = 10000

// CommissionConfig is the externally supplied split configuration. Shares
// are basis points of the gross amount, clamped to [0, 10000].
type CommissionConfig struct {
	DefaultShareBps  int64
	CategoryShareBps map[string]int64
}

// ShareBpsFor returns the affiliate share for a category, falling back to
// the default share.
func (c CommissionConfig) ShareBpsFor(category string) int64 {
	bps := c.DefaultShareBps
	if v, ok := c.CategoryShareBps[category]; ok {
		bps = v
	}
	if bps < 0 {
		return 0
	}
	if bps > bpsDenominator {
		return bpsDenominator
	}
	return bps
}

// CommissionSplit is the platform/affiliate division of one gross amount.
// PlatformAmountCents + AffiliateAmountCents always equals the gross.
type CommissionSplit struct {
	PlatformAmountCents  int64  `json:"platformAmountCents"`
	AffiliateAmountCents int64  `json:"affiliateAmountCents"`
	Category             string `json:"category"`
}

// ComputeCommission splits a gross amount between platform and affiliate.
// Pure and deterministic: the affiliate share truncates toward zero and the
// platform takes the remainder, so the parts always sum to the gross and
// stay non-negative. Zero or negative gross yields zero splits.
func ComputeCommission(grossAmountCents int64, cfg CommissionConfig, category string) CommissionSplit {
	split := CommissionSplit{Category: category}
	if grossAmountCents <= 0 {
		return split
	}
	bps := cfg.ShareBpsFor(category)
	split.AffiliateAmountCents = grossAmountCents * bps / bpsDenominator
	split.PlatformAmountCents = grossAmountCents - split.AffiliateAmountCents
	return split
}
