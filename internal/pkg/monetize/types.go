package monetize

// EntityTypeCommunitySubscription gates which payment intents this package
// acts on; everything else passes through untouched.
const EntityTypeCommunitySubscription = "community_subscription"

// PaymentIntent is the provider-agnostic snapshot of one payment attempt as
// delivered by the payments webhook. EntityID carries the public id of the
// entity the payment belongs to.
type PaymentIntent struct {
	EntityType     string `json:"entity_type"`
	EntityID       string `json:"entity_id"`
	PublicID       string `json:"public_id"`
	ID             string `json:"id"`
	AmountTotal    int64  `json:"amount_total"`
	Status         string `json:"status"`
	FailureCode    string `json:"failure_code"`
	FailureMessage string `json:"failure_message"`
}

// IsCommunitySubscription reports whether this intent targets a community
// subscription.
func (p PaymentIntent) IsCommunitySubscription() bool {
	return p.EntityType == EntityTypeCommunitySubscription
}
