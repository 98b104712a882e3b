package repository

import (
	"errors"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
)

// moderationRepository implements the ModerationRepository interface
type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new moderation case repository instance
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) Create(c *models.ModerationCase) error {
	return r.db.Create(c).Error
}

// GetForCommunity scopes the lookup to the community so a case id from
// another community reads as absent.
func (r *moderationRepository) GetForCommunity(communityID, caseID uint) (*models.ModerationCase, error) {
	var c models.ModerationCase
	err := r.db.Where("id = ? AND community_id = ?", caseID, communityID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "moderation case not found", err)
		}
		return nil, err
	}
	return &c, nil
}

func (r *moderationRepository) Save(c *models.ModerationCase) error {
	return r.db.Save(c).Error
}
