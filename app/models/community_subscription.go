package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription lifecycle statuses. PastDue can return to Active on a later
// successful payment.
const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// PaymentFailure records the most recent failed charge on a subscription.
type PaymentFailure struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RefundRecord is the metadata annotation written when a payment is refunded.
// Refunds do not change subscription status.
type RefundRecord struct {
	AmountCents     int64     `json:"amount"`
	ProcessedAt     time.Time `json:"processedAt"`
	PaymentIntentID string    `json:"paymentIntentId"`
}

// SubscriptionMetadata tracks payment bookkeeping for a subscription.
type SubscriptionMetadata struct {
	CompletedPayments []string        `json:"completedPayments,omitempty"`
	LastCapturedTotal int64           `json:"lastCapturedTotal,omitempty"`
	LastFailedPayment string          `json:"lastFailedPayment,omitempty"`
	Failure           *PaymentFailure `json:"failure,omitempty"`
	LastRefund        *RefundRecord   `json:"lastRefund,omitempty"`
}

// AddCompletedPayment merges a payment-intent public id into the completed
// set. Returns false when the id was already recorded, so duplicate webhook
// deliveries stay idempotent.
func (m *SubscriptionMetadata) AddCompletedPayment(publicID string) bool {
	if publicID == "" {
		return false
	}
	for _, id := range m.CompletedPayments {
		if id == publicID {
			return false
		}
	}
	m.CompletedPayments = append(m.CompletedPayments, publicID)
	return true
}

// CommunitySubscription is a recurring paywall-tier purchase. Rows are
// created by the checkout flow and mutated only through the payment
// lifecycle; they are never deleted.
type CommunitySubscription struct {
	ID                    uint                 `gorm:"primaryKey" json:"id"`
	PublicID              string               `gorm:"uniqueIndex;type:varchar(36);not null" json:"public_id"`
	CommunityID           uint                 `gorm:"not null;index" json:"community_id"`
	UserID                uint                 `gorm:"not null;index" json:"user_id"`
	TierID                uint                 `gorm:"not null;index" json:"tier_id"`
	AffiliateID           *uint                `gorm:"index" json:"affiliate_id,omitempty"`
	Status                string               `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	ProviderStatus        string               `gorm:"type:varchar(64)" json:"provider_status"`
	StartedAt             *time.Time           `gorm:"type:timestamp;default:null" json:"started_at,omitempty"`
	CurrentPeriodStart    *time.Time           `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd      *time.Time           `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd     bool                 `gorm:"default:false" json:"cancel_at_period_end"`
	LatestPaymentIntentID string               `gorm:"type:varchar(100)" json:"latest_payment_intent_id"`
	Metadata              SubscriptionMetadata `gorm:"serializer:json" json:"metadata"`
	CreatedAt             time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the public id used in provider payloads.
func (s *CommunitySubscription) BeforeCreate(tx *gorm.DB) error {
	if s.PublicID == "" {
		s.PublicID = uuid.New().String()
	}
	return nil
}
