package monetize

import (
	"context"
	"time"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service reacts to payment-intent outcomes and keeps subscription state,
// membership markers and affiliate earnings consistent. Each reaction runs
// inside one transaction; intents for entities this package does not own
// pass through as silent no-ops.
type Service struct {
	repos *repository.Repositories
}

// NewService creates a subscription lifecycle service from an injected
// repository set.
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// NewServiceFromDB creates a subscription lifecycle service from a GORM DB
// handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(repository.NewRepositories(db))
}

// resolveSubscription returns nil (no error) for intents this package does
// not own: wrong entity type or an unresolved subscription public id.
// Webhook systems legitimately deliver events for other entities.
func (s *Service) resolveSubscription(intent PaymentIntent) (*models.CommunitySubscription, error) {
	if !intent.IsCommunitySubscription() {
		return nil, nil
	}
	sub, err := s.repos.Subscription.GetByPublicID(intent.EntityID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// OnPaymentSucceeded activates the subscription for a fresh billing period,
// reflects it on the member's metadata, and records affiliate earnings for
// approved affiliates.
func (s *Service) OnPaymentSucceeded(ctx context.Context, intent PaymentIntent) error {
	_ = ctx
	sub, err := s.resolveSubscription(intent)
	if err != nil || sub == nil {
		return err
	}

	// The same payment can arrive under different webhook delivery ids; the
	// completed-payment set makes the whole reaction replay-safe.
	if !sub.Metadata.AddCompletedPayment(intent.PublicID) {
		return nil
	}

	return s.repos.Transaction(func(tx *repository.Repositories) error {
		tier, txErr := tx.Tier.GetByID(sub.TierID)
		if txErr != nil {
			return txErr
		}

		now := time.Now()
		periodEnd := tier.PeriodEndFrom(now)

		sub.Metadata.LastCapturedTotal = intent.AmountTotal

		sub.Status = models.SubscriptionStatusActive
		if sub.StartedAt == nil {
			sub.StartedAt = &now
		}
		sub.CurrentPeriodStart = &now
		sub.CurrentPeriodEnd = periodEnd
		sub.CancelAtPeriodEnd = false
		sub.ProviderStatus = models.SubscriptionStatusActive
		sub.LatestPaymentIntentID = intent.ID
		if txErr = tx.Subscription.Save(sub); txErr != nil {
			return txErr
		}

		if txErr = s.activateMembership(tx, sub, now); txErr != nil {
			return txErr
		}

		if txErr = s.recordAffiliateEarning(tx, sub, intent); txErr != nil {
			return txErr
		}

		event, txErr := models.NewDomainEvent(
			models.EntityTypeCommunitySubscription,
			sub.PublicID,
			models.EventSubscriptionActivated,
			map[string]any{
				"communityId":      sub.CommunityID,
				"tierId":           sub.TierID,
				"paymentIntentId":  intent.ID,
				"currentPeriodEnd": periodEnd,
			},
			&sub.UserID,
		)
		if txErr != nil {
			return txErr
		}
		return tx.Event.Append(event)
	})
}

// activateMembership clears the pending marker, stamps the active
// subscription reference, and reactivates the membership if needed. A
// missing membership is not an error; checkout may precede the join.
func (s *Service) activateMembership(tx *repository.Repositories, sub *models.CommunitySubscription, now time.Time) error {
	m, err := tx.Membership.Get(sub.CommunityID, sub.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}

	metadata := m.Metadata
	metadata.PendingSubscription = nil
	metadata.ActiveSubscription = &models.SubscriptionRef{
		SubscriptionID: sub.PublicID,
		TierID:         sub.TierID,
		RenewedAt:      &now,
	}
	if err := tx.Membership.UpdateMetadata(m, metadata); err != nil {
		return err
	}
	if m.Status != models.MemberStatusActive {
		return tx.Membership.UpdateStatus(m, models.MemberStatusActive)
	}
	return nil
}

// recordAffiliateEarning credits the subscription's affiliate when one is
// attached, approved, and the configured split yields a positive share.
func (s *Service) recordAffiliateEarning(tx *repository.Repositories, sub *models.CommunitySubscription, intent PaymentIntent) error {
	if sub.AffiliateID == nil {
		return nil
	}
	affiliate, err := tx.Affiliate.GetByID(*sub.AffiliateID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !affiliate.IsApproved() {
		return nil
	}

	cfg := CommissionConfig{}
	setting, err := tx.Monetization.GetByCommunityID(sub.CommunityID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return err
		}
	} else {
		cfg = CommissionConfig{
			DefaultShareBps:  setting.AffiliateShareBps,
			CategoryShareBps: setting.CategoryShareBps,
		}
	}

	split := ComputeCommission(intent.AmountTotal, cfg, CategoryCommunitySubscription)
	if split.AffiliateAmountCents <= 0 {
		return nil
	}

	if err := tx.Affiliate.IncrementEarnings(affiliate.ID, split.AffiliateAmountCents, 0); err != nil {
		return err
	}

	event, err := models.NewDomainEvent(
		models.EntityTypeCommunityAffiliate,
		sub.PublicID,
		models.EventAffiliateEarningRecorded,
		map[string]any{
			"subscriptionId":     sub.PublicID,
			"paymentIntentId":    intent.ID,
			"amountCents":        split.AffiliateAmountCents,
			"platformShareCents": split.PlatformAmountCents,
			"commissionCategory": split.Category,
		},
		nil,
	)
	if err != nil {
		return err
	}
	return tx.Event.Append(event)
}

// OnPaymentFailed marks the subscription past due and records the failure.
// The current billing period is left untouched.
func (s *Service) OnPaymentFailed(ctx context.Context, intent PaymentIntent) error {
	_ = ctx
	sub, err := s.resolveSubscription(intent)
	if err != nil || sub == nil {
		return err
	}

	return s.repos.Transaction(func(tx *repository.Repositories) error {
		sub.Status = models.SubscriptionStatusPastDue
		sub.ProviderStatus = intent.Status
		sub.Metadata.LastFailedPayment = intent.PublicID
		sub.Metadata.Failure = &models.PaymentFailure{
			Code:       intent.FailureCode,
			Message:    intent.FailureMessage,
			OccurredAt: time.Now(),
		}
		if txErr := tx.Subscription.Save(sub); txErr != nil {
			return txErr
		}

		event, txErr := models.NewDomainEvent(
			models.EntityTypeCommunitySubscription,
			sub.PublicID,
			models.EventSubscriptionPaymentFailed,
			map[string]any{
				"communityId":     sub.CommunityID,
				"paymentIntentId": intent.ID,
				"failureCode":     intent.FailureCode,
				"failureMessage":  intent.FailureMessage,
			},
			nil,
		)
		if txErr != nil {
			return txErr
		}
		return tx.Event.Append(event)
	})
}

// OnPaymentRefunded records the refund fact on subscription metadata. The
// subscription status does not change; a cancellation, when the provider
// means one, arrives as its own trigger.
func (s *Service) OnPaymentRefunded(ctx context.Context, intent PaymentIntent, amountCents int64) error {
	_ = ctx
	sub, err := s.resolveSubscription(intent)
	if err != nil || sub == nil {
		return err
	}

	return s.repos.Transaction(func(tx *repository.Repositories) error {
		sub.Metadata.LastRefund = &models.RefundRecord{
			AmountCents:     amountCents,
			ProcessedAt:     time.Now(),
			PaymentIntentID: intent.PublicID,
		}
		if txErr := tx.Subscription.Save(sub); txErr != nil {
			return txErr
		}

		event, txErr := models.NewDomainEvent(
			models.EntityTypeCommunitySubscription,
			sub.PublicID,
			models.EventSubscriptionRefunded,
			map[string]any{
				"communityId":     sub.CommunityID,
				"amount":          amountCents,
				"paymentIntentId": intent.ID,
			},
			nil,
		)
		if txErr != nil {
			return txErr
		}
		return tx.Event.Append(event)
	})
}
