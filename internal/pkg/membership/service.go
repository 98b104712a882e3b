package membership

import (
	"context"
	"fmt"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"github.com/ChorusHQ/Chorus/internal/pkg/mail"
	"github.com/ChorusHQ/Chorus/internal/pkg/utils"
	"gorm.io/gorm"
)

// Mailer sends a notification email; failures are logged, never surfaced.
type Mailer func(to, subject, body string) error

// Service orchestrates admin-driven membership changes. Every mutation runs
// inside one transaction together with its domain-event write.
type Service struct {
	repos  *repository.Repositories
	mailer Mailer
}

// NewService creates a membership service from an injected repository set.
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// NewServiceFromDB creates a membership service from a GORM DB handle with
// invite notifications enabled.
func NewServiceFromDB(db *gorm.DB) *Service {
	return &Service{repos: repository.NewRepositories(db), mailer: mail.SendMail}
}

// authorize resolves the target community and checks the actor may manage
// its members. A platform admin bypasses the membership check; otherwise the
// actor needs an active owner/admin membership. An absent actor membership
// reads as NotFound so callers cannot probe which communities exist.
func (s *Service) authorize(communityRef string, actorID uint, actorRole string) (*models.Community, error) {
	community, err := s.repos.Community.Resolve(communityRef)
	if err != nil {
		return nil, err
	}
	if actorRole == models.ROLE_ADMIN {
		return community, nil
	}

	actor, err := s.repos.Membership.Get(community.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsActive() || !actor.Role.CanManageMembers() {
		return nil, apperror.Forbidden("insufficient community role")
	}
	return community, nil
}

// ListMembers returns the filtered, paginated member list with joined user
// summaries. Read-only; no events are emitted.
func (s *Service) ListMembers(ctx context.Context, communityRef string, actorID uint, opts ListMembersInput, actorRole string) (*MemberList, error) {
	_ = ctx
	community, err := s.authorize(communityRef, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	page, err := s.repos.Membership.List(community.ID, opts)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(page.Members))
	for i := range page.Members {
		members = append(members, hydrate(&page.Members[i], page.Members[i].User))
	}
	return &MemberList{Members: members, Total: page.Total, Limit: page.Limit, Offset: page.Offset}, nil
}

// CreateMember invites a user into the community. The underlying ensure is
// idempotent: repeating an invite refreshes role, status and metadata on the
// existing membership instead of failing.
func (s *Service) CreateMember(ctx context.Context, communityRef string, actorID uint, in CreateMemberInput, actorRole string) (*Member, error) {
	_ = ctx
	community, err := s.authorize(communityRef, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveTargetUser(in.UserID, in.Email)
	if err != nil {
		return nil, err
	}

	role, err := models.ParseMemberRole(in.Role)
	if err != nil {
		return nil, err
	}
	status, err := models.ParseMemberStatus(in.Status)
	if err != nil {
		return nil, err
	}

	metadata := models.MembershipMetadata{}
	if in.Title != nil {
		metadata.Title = *in.Title
	}
	if in.Location != nil {
		metadata.Location = *in.Location
	}
	if in.Notes != nil {
		metadata.Notes = *in.Notes
	}
	if in.Tags != nil {
		metadata.Tags = NormalizeTags(in.Tags)
	}

	var (
		m       *models.CommunityMembership
		created bool
	)
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		var txErr error
		m, created, txErr = tx.Membership.Ensure(community.ID, user.ID, repository.MembershipDefaults{
			Role:     role,
			Status:   status,
			Metadata: metadata,
		})
		if txErr != nil {
			return txErr
		}
		if m.Role != role {
			if txErr = tx.Membership.UpdateRole(m, role); txErr != nil {
				return txErr
			}
		}
		if m.Status != status {
			if txErr = tx.Membership.UpdateStatus(m, status); txErr != nil {
				return txErr
			}
		}
		// Repeated invites refresh metadata even when the membership existed.
		if txErr = tx.Membership.UpdateMetadata(m, metadata); txErr != nil {
			return txErr
		}

		return appendEvent(tx, models.EventMemberInvited, community.ID, m, map[string]any{
			"communityId": community.ID,
			"role":        m.Role,
			"status":      m.Status,
		}, &actorID)
	})
	if err != nil {
		return nil, err
	}

	if created && s.mailer != nil {
		subject := fmt.Sprintf("You have been invited to %s", community.Name)
		body := fmt.Sprintf("<p>You were added to the community <strong>%s</strong>.</p>", community.Name)
		_ = s.mailer(user.Email, subject, body)
	}

	result := hydrate(m, user)
	return &result, nil
}

// UpdateMember applies partial updates to an existing membership. Metadata
// merges onto the current metadata so untouched fields survive.
func (s *Service) UpdateMember(ctx context.Context, communityRef string, actorID, targetUserID uint, in UpdateMemberInput, actorRole string) (*Member, error) {
	_ = ctx
	community, err := s.authorize(communityRef, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	m, err := s.repos.Membership.Get(community.ID, targetUserID)
	if err != nil {
		return nil, err
	}

	var rolePtr *models.MemberRole
	if in.Role != nil {
		role, perr := models.ParseMemberRole(*in.Role)
		if perr != nil {
			return nil, perr
		}
		rolePtr = &role
	}
	var statusPtr *models.MemberStatus
	if in.Status != nil {
		status, perr := models.ParseMemberStatus(*in.Status)
		if perr != nil {
			return nil, perr
		}
		statusPtr = &status
	}

	merged := m.Metadata
	if in.Title != nil {
		merged.Title = *in.Title
	}
	if in.Location != nil {
		merged.Location = *in.Location
	}
	if in.Notes != nil {
		merged.Notes = *in.Notes
	}
	if in.Tags != nil {
		merged.Tags = NormalizeTags(in.Tags)
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if rolePtr != nil && m.Role != *rolePtr {
			if txErr := tx.Membership.UpdateRole(m, *rolePtr); txErr != nil {
				return txErr
			}
		}
		if statusPtr != nil && m.Status != *statusPtr {
			if txErr := tx.Membership.UpdateStatus(m, *statusPtr); txErr != nil {
				return txErr
			}
		}
		if txErr := tx.Membership.UpdateMetadata(m, merged); txErr != nil {
			return txErr
		}

		return appendEvent(tx, models.EventMemberUpdated, community.ID, m, map[string]any{
			"communityId": community.ID,
			"role":        m.Role,
			"status":      m.Status,
		}, &actorID)
	})
	if err != nil {
		return nil, err
	}

	return s.hydrateByUserID(m)
}

// RemoveMember transitions the membership out of the community. Owners can
// never be removed through this path; the row itself is kept with LeftAt set.
func (s *Service) RemoveMember(ctx context.Context, communityRef string, actorID, targetUserID uint, actorRole string) (*Member, error) {
	_ = ctx
	community, err := s.authorize(communityRef, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	m, err := s.repos.Membership.Get(community.ID, targetUserID)
	if err != nil {
		return nil, err
	}
	if m.Role == models.MemberRoleOwner {
		return nil, apperror.InvalidOperation("the community owner cannot be removed")
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if txErr := tx.Membership.UpdateStatus(m, models.MemberStatusPending); txErr != nil {
			return txErr
		}
		return appendEvent(tx, models.EventMemberRemoved, community.ID, m, map[string]any{
			"communityId": community.ID,
		}, &actorID)
	})
	if err != nil {
		return nil, err
	}

	return s.hydrateByUserID(m)
}

// resolveTargetUser resolves an invite target by id first, then by email.
func (s *Service) resolveTargetUser(userID uint, email string) (*models.User, error) {
	if userID == 0 && email == "" {
		return nil, apperror.Validation("either userId or email is required")
	}
	if userID != 0 {
		if user, err := s.repos.User.GetByID(userID); err == nil {
			return user, nil
		} else if !apperror.IsNotFound(err) {
			return nil, err
		}
	}
	if email != "" {
		return s.repos.User.GetByEmail(email)
	}
	return nil, apperror.NotFound("user not found")
}

func (s *Service) hydrateByUserID(m *models.CommunityMembership) (*Member, error) {
	user, err := s.repos.User.GetByID(m.UserID)
	if err != nil {
		return nil, err
	}
	result := hydrate(m, user)
	return &result, nil
}

func appendEvent(tx *repository.Repositories, eventType string, communityID uint, m *models.CommunityMembership, payload map[string]any, actorID *uint) error {
	event, err := models.NewDomainEvent(
		models.EntityTypeCommunityMembership,
		models.MembershipEntityID(communityID, m.UserID),
		eventType,
		payload,
		actorID,
	)
	if err != nil {
		return err
	}
	return tx.Event.Append(event)
}

func hydrate(m *models.CommunityMembership, user *models.User) Member {
	member := Member{Membership: *m}
	member.Membership.User = nil
	if user != nil {
		member.User = UserSummary{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName(),
			AvatarURL:   utils.GetGravatarURL(user.Email, 80),
		}
	}
	return member
}
