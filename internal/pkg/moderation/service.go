package moderation

import (
	"context"
	"strconv"
	"time"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service owns the two moderation case transitions. Both follow the same
// discipline as the membership lifecycle: one transaction per operation with
// the domain-event write inside it.
type Service struct {
	repos *repository.Repositories
}

// NewService creates a moderation service from an injected repository set.
func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// NewServiceFromDB creates a moderation service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(repository.NewRepositories(db))
}

// authorize resolves the community and checks the actor holds a moderation
// role there (owner, admin or moderator). Platform admins bypass the
// membership check.
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
	if !actor.IsActive() || !actor.Role.CanModerate() {
		return nil, apperror.Forbidden("insufficient community role")
	}
	return community, nil
}

// AcknowledgeEscalation appends an acknowledgement record to the case and
// advances pending cases to in_review. Other statuses keep their status; the
// acknowledgement is still recorded.
func (s *Service) AcknowledgeEscalation(ctx context.Context, communityRef string, actorID, caseID uint, note, actorRole string) (*models.ModerationCase, error) {
	_ = ctx
	community, err := s.authorize(communityRef, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Moderation.GetForCommunity(community.ID, caseID)
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		now := time.Now()
		c.Metadata.Operations.Acknowledgements = append(c.Metadata.Operations.Acknowledgements, models.Acknowledgement{
			ActorID:        actorID,
			Note:           note,
			AcknowledgedAt: now,
		})
		if c.Status == models.ModerationStatusPending {
			c.Status = models.ModerationStatusInReview
		}
		if c.EscalatedAt == nil {
			c.EscalatedAt = &now
		}
		if txErr := tx.Moderation.Save(c); txErr != nil {
			return txErr
		}

		return appendCaseEvent(tx, c, models.EventEscalationAcknowledged, map[string]any{
			"communityId": community.ID,
			"caseId":      c.ID,
			"status":      c.Status,
		}, &actorID)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ResolveIncident closes the case with a resolution record.
func (s *Service) ResolveIncident(ctx context.Context, communityRef string, actorID, caseID uint, outcome, note, actorRole string) (*models.ModerationCase, error) {
	_ = ctx
	community, err := s.authorize(communityRef, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Moderation.GetForCommunity(community.ID, caseID)
	if err != nil {
		return nil, err
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		now := time.Now()
		c.Status = models.ModerationStatusResolved
		c.ResolvedAt = &now
		c.ResolvedBy = &actorID
		c.Metadata.Operations.Resolution = &models.Resolution{
			ActorID:    actorID,
			Outcome:    outcome,
			Note:       note,
			ResolvedAt: now,
		}
		if txErr := tx.Moderation.Save(c); txErr != nil {
			return txErr
		}

		return appendCaseEvent(tx, c, models.EventIncidentResolved, map[string]any{
			"communityId": community.ID,
			"caseId":      c.ID,
			"outcome":     outcome,
		}, &actorID)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func appendCaseEvent(tx *repository.Repositories, c *models.ModerationCase, eventType string, payload map[string]any, actorID *uint) error {
	event, err := models.NewDomainEvent(
		models.EntityTypeModerationCase,
		strconv.FormatUint(uint64(c.ID), 10),
		eventType,
		payload,
		actorID,
	)
	if err != nil {
		return err
	}
	return tx.Event.Append(event)
}
