package repository

import (
	"time"

	"github.com/ChorusHQ/Chorus/app/models"
	"gorm.io/gorm"
)

// CommunityRepository defines lookups for communities
type CommunityRepository interface {
	Create(community *models.Community) error
	GetByID(id uint) (*models.Community, error)
	GetBySlug(slug string) (*models.Community, error)
	// Resolve accepts either a numeric id or a slug.
	Resolve(ref string) (*models.Community, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByIDs(ids []uint) ([]models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
}

// MembershipDefaults are applied only when EnsureMembership creates a new row.
type MembershipDefaults struct {
	Role     models.MemberRole
	Status   models.MemberStatus
	JoinedAt time.Time
	Metadata models.MembershipMetadata
}

// MembershipListOptions is the filter/sort/pagination contract for member
// listings. Raw status/role values are validated against the enums; invalid
// values error. Limit 0 means no limit; explicit limits clamp to [1,500].
type MembershipListOptions struct {
	Status       []string
	Role         []string
	JoinedAfter  *time.Time
	JoinedBefore *time.Time
	Search       string
	Limit        int
	Offset       int
	Order        string
	OrderBy      string
}

// MembershipPage carries a page of memberships plus the out-of-band
// pagination metadata (total before pagination, echoed limit/offset).
type MembershipPage struct {
	Members []models.CommunityMembership
	Total   int64
	Limit   int
	Offset  int
}

// MembershipRepository owns the (community, user) membership records.
type MembershipRepository interface {
	// Ensure is a fetch-or-create; defaults apply only on create. The bool
	// reports whether a new row was inserted.
	Ensure(communityID, userID uint, defaults MembershipDefaults) (*models.CommunityMembership, bool, error)
	Get(communityID, userID uint) (*models.CommunityMembership, error)
	UpdateRole(m *models.CommunityMembership, role models.MemberRole) error
	// UpdateStatus maintains the LeftAt invariant: non-null exactly when the
	// status is not active.
	UpdateStatus(m *models.CommunityMembership, status models.MemberStatus) error
	UpdateMetadata(m *models.CommunityMembership, metadata models.MembershipMetadata) error
	List(communityID uint, opts MembershipListOptions) (*MembershipPage, error)
}

// PaywallTierRepository resolves tiers for billing-period computation.
type PaywallTierRepository interface {
	Create(tier *models.PaywallTier) error
	GetByID(id uint) (*models.PaywallTier, error)
}

// SubscriptionRepository owns subscription records keyed by public id.
type SubscriptionRepository interface {
	Create(sub *models.CommunitySubscription) error
	GetByPublicID(publicID string) (*models.CommunitySubscription, error)
	Save(sub *models.CommunitySubscription) error
}

// AffiliateRepository owns affiliate approval state and earnings totals.
type AffiliateRepository interface {
	Create(a *models.CommunityAffiliate) error
	GetByID(id uint) (*models.CommunityAffiliate, error)
	// IncrementEarnings adds to the cumulative earned/paid totals atomically.
	IncrementEarnings(id uint, earnedDeltaCents, paidDeltaCents int64) error
}

// MonetizationRepository supplies per-community commission configuration.
type MonetizationRepository interface {
	Save(setting *models.MonetizationSetting) error
	GetByCommunityID(communityID uint) (*models.MonetizationSetting, error)
}

// EventRepository is the append-only domain event sink.
type EventRepository interface {
	Append(event *models.DomainEvent) error
	// ListByEntity exists for tests and audit tooling; the lifecycle itself
	// never reads events back.
	ListByEntity(entityType, entityID string) ([]models.DomainEvent, error)
}

// ModerationRepository owns moderation case rows.
type ModerationRepository interface {
	Create(c *models.ModerationCase) error
	GetForCommunity(communityID, caseID uint) (*models.ModerationCase, error)
	Save(c *models.ModerationCase) error
}

// WebhookEventRepository persists provider webhook deliveries idempotently.
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	db *gorm.DB

	Community    CommunityRepository
	User         UserRepository
	Membership   MembershipRepository
	Tier         PaywallTierRepository
	Subscription SubscriptionRepository
	Affiliate    AffiliateRepository
	Monetization MonetizationRepository
	Event        EventRepository
	Moderation   ModerationRepository
	WebhookEvent WebhookEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		Community:    NewCommunityRepository(db),
		User:         NewUserRepository(db),
		Membership:   NewMembershipRepository(db),
		Tier:         NewPaywallTierRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Affiliate:    NewAffiliateRepository(db),
		Monetization: NewMonetizationRepository(db),
		Event:        NewEventRepository(db),
		Moderation:   NewModerationRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}

// Transaction runs fn against a repository set bound to one database
// transaction. Any error rolls the whole transaction back, including the
// domain-event writes made inside it.
func (r *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
