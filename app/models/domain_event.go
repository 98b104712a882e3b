package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entity types tagged on domain events.
const (
	EntityTypeCommunityMembership   = "community_membership"
	EntityTypeCommunitySubscription = "community_subscription"
	EntityTypeCommunityAffiliate    = "community_affiliate"
	EntityTypeModerationCase        = "moderation_case"
)

// Dot-namespaced domain event types.
const (
	EventMemberInvited             = "community.member.invited"
	EventMemberUpdated             = "community.member.updated"
	EventMemberRemoved             = "community.member.removed"
	EventSubscriptionActivated     = "community.subscription.activated"
	EventSubscriptionPaymentFailed = "community.subscription.payment-failed"
	EventSubscriptionRefunded      = "community.subscription.refunded"
	EventAffiliateEarningRecorded  = "community.affiliate.earning-recorded"
	EventEscalationAcknowledged    = "community.moderation.escalation-acknowledged"
	EventIncidentResolved          = "community.moderation.incident-resolved"
)

// DomainEvent is an immutable audit record of a lifecycle-significant state
// change. Rows are append-only and written inside the same transaction as the
// mutation they describe.
type DomainEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EntityType  string    `gorm:"type:varchar(50);not null;index:idx_domain_events_entity,priority:1" json:"entity_type"`
	EntityID    string    `gorm:"type:varchar(100);not null;index:idx_domain_events_entity,priority:2" json:"entity_id"`
	EventType   string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	PayloadJSON string    `gorm:"type:longtext;not null" json:"payload_json"`
	PerformedBy *uint     `gorm:"index" json:"performed_by,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// NewDomainEvent builds an event with the payload marshaled to JSON.
// PerformedBy is nil for system-originated events.
func NewDomainEvent(entityType, entityID, eventType string, payload any, performedBy *uint) (*DomainEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload for %s: %w", eventType, err)
	}
	return &DomainEvent{
		EntityType:  entityType,
		EntityID:    entityID,
		EventType:   eventType,
		PayloadJSON: string(raw),
		PerformedBy: performedBy,
	}, nil
}

// MembershipEntityID builds the composite entity id used for membership
// events.
func MembershipEntityID(communityID, userID uint) string {
	return fmt.Sprintf("%d:%d", communityID, userID)
}
