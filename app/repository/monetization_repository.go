package repository

import (
	"errors"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// monetizationRepository implements the MonetizationRepository interface
type monetizationRepository struct {
	db *gorm.DB
}

// NewMonetizationRepository creates a new monetization settings repository instance
func NewMonetizationRepository(db *gorm.DB) MonetizationRepository {
	return &monetizationRepository{db: db}
}

// Save upserts the per-community commission configuration.
func (r *monetizationRepository) Save(setting *models.MonetizationSetting) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "community_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"affiliate_share_bps",
			"category_share_bps",
			"updated_at",
		}),
	}).Create(setting).Error; err != nil {
		return err
	}

	return r.db.Where("community_id = ?", setting.CommunityID).First(setting).Error
}

func (r *monetizationRepository) GetByCommunityID(communityID uint) (*models.MonetizationSetting, error) {
	var setting models.MonetizationSetting
	err := r.db.Where("community_id = ?", communityID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "monetization settings not found", err)
		}
		return nil, err
	}
	return &setting, nil
}
