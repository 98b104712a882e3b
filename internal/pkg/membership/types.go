package membership

import (
	"strings"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
)

const maxTags = 20

// CreateMemberInput is the admin invite payload. Exactly one of UserID or
// Email identifies the target user. Optional profile fields are pointers so
// absent fields stay untouched; Tags accepts either a string array or a
// comma-separated string.
type CreateMemberInput struct {
	UserID   uint    `json:"userId"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Status   string  `json:"status"`
	Title    *string `json:"title"`
	Location *string `json:"location"`
	Tags     any     `json:"tags"`
	Notes    *string `json:"notes"`
}

// UpdateMemberInput carries partial updates for an existing membership.
// Nil fields are left untouched; metadata updates merge onto the existing
// metadata rather than replacing it.
type UpdateMemberInput struct {
	Role     *string `json:"role"`
	Status   *string `json:"status"`
	Title    *string `json:"title"`
	Location *string `json:"location"`
	Tags     any     `json:"tags"`
	Notes    *string `json:"notes"`
}

// UserSummary is the joined user projection attached to member records.
type UserSummary struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Member is a membership record enriched with its user summary.
type Member struct {
	Membership models.CommunityMembership `json:"membership"`
	User       UserSummary                `json:"user"`
}

// MemberList is one page of members plus the pagination metadata callers
// need without a second round trip.
type MemberList struct {
	Members []Member `json:"members"`
	Total   int64    `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// ListMembersInput wraps the repository listing contract; see
// repository.MembershipListOptions for the filter semantics.
type ListMembersInput = repository.MembershipListOptions

// NormalizeTags accepts a string array or a comma-separated string, trims
// entries, drops empties, and caps the result at 20 tags. Nil input returns
// nil so callers can distinguish "absent" from "empty".
func NormalizeTags(value any) []string {
	var raw []string
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(v, ",")
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
