package models

import (
	"strings"
	"time"

	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
)

// MemberRole is the community-level role of a membership.
type MemberRole string

const (
	MemberRoleOwner     MemberRole = "owner"
	MemberRoleAdmin     MemberRole = "admin"
	MemberRoleModerator MemberRole = "moderator"
	MemberRoleMember    MemberRole = "member"
)

// ParseMemberRole normalizes case-insensitive input against the closed role
// set. Empty input falls back to the member default.
func ParseMemberRole(raw string) (MemberRole, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch MemberRole(v) {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleModerator, MemberRoleMember:
		return MemberRole(v), nil
	case "":
		return MemberRoleMember, nil
	default:
		return "", apperror.Invalidf("invalid member role %q", raw)
	}
}

// CanManageMembers reports whether the role may administer the member list.
func (r MemberRole) CanManageMembers() bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin
}

// CanModerate reports whether the role may act on moderation cases.
func (r MemberRole) CanModerate() bool {
	return r.CanManageMembers() || r == MemberRoleModerator
}

// MemberStatus is the community-level status of a membership.
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
	MemberStatusBanned  MemberStatus = "banned"
)

// ParseMemberStatus normalizes case-insensitive input against the closed
// status set. Empty input falls back to the active default.
func ParseMemberStatus(raw string) (MemberStatus, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch MemberStatus(v) {
	case MemberStatusActive, MemberStatusPending, MemberStatusBanned:
		return MemberStatus(v), nil
	case "":
		return MemberStatusActive, nil
	default:
		return "", apperror.Invalidf("invalid member status %q", raw)
	}
}

// SubscriptionRef is the lifecycle marker stored on membership metadata when
// a paywall subscription is pending or active for the member.
type SubscriptionRef struct {
	SubscriptionID string     `json:"subscriptionId"`
	TierID         uint       `json:"tierId"`
	RenewedAt      *time.Time `json:"renewedAt,omitempty"`
}

// MembershipMetadata holds the admin-set member profile fields plus the
// lifecycle-reserved subscription markers. Keeping it structured prevents
// admin writes from colliding with lifecycle keys.
type MembershipMetadata struct {
	Title               string           `json:"title,omitempty"`
	Location            string           `json:"location,omitempty"`
	Tags                []string         `json:"tags,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	ActiveSubscription  *SubscriptionRef `json:"activeSubscription,omitempty"`
	PendingSubscription *SubscriptionRef `json:"pendingSubscription,omitempty"`
}

// Values flattens every metadata value (including tag array elements) to the
// strings the member search matches against.
func (m MembershipMetadata) Values() []string {
	out := make([]string, 0, 4+len(m.Tags))
	for _, v := range []string{m.Title, m.Location, m.Notes} {
		if v != "" {
			out = append(out, v)
		}
	}
	out = append(out, m.Tags...)
	if m.ActiveSubscription != nil {
		out = append(out, m.ActiveSubscription.SubscriptionID)
	}
	if m.PendingSubscription != nil {
		out = append(out, m.PendingSubscription.SubscriptionID)
	}
	return out
}

// CommunityMembership is one user's relationship to one community. Rows are
// never hard-deleted; removal transitions status and sets LeftAt.
type CommunityMembership struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	CommunityID uint               `gorm:"not null;uniqueIndex:ux_memberships_community_user,priority:1;index" json:"community_id"`
	UserID      uint               `gorm:"not null;uniqueIndex:ux_memberships_community_user,priority:2;index" json:"user_id"`
	Role        MemberRole         `gorm:"type:varchar(20);not null;default:'member';index" json:"role"`
	Status      MemberStatus       `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	JoinedAt    time.Time          `gorm:"not null;index" json:"joined_at"`
	LeftAt      *time.Time         `gorm:"type:timestamp;default:null" json:"left_at,omitempty"`
	Metadata    MembershipMetadata `gorm:"serializer:json" json:"metadata"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// IsActive reports whether the membership currently grants access.
func (m *CommunityMembership) IsActive() bool {
	return m.Status == MemberStatusActive
}
