package repository

import (
	"errors"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
)

// paywallTierRepository implements the PaywallTierRepository interface
type paywallTierRepository struct {
	db *gorm.DB
}

// NewPaywallTierRepository creates a new paywall tier repository instance
func NewPaywallTierRepository(db *gorm.DB) PaywallTierRepository {
	return &paywallTierRepository{db: db}
}

func (r *paywallTierRepository) Create(tier *models.PaywallTier) error {
	return r.db.Create(tier).Error
}

func (r *paywallTierRepository) GetByID(id uint) (*models.PaywallTier, error) {
	var tier models.PaywallTier
	if err := r.db.First(&tier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "paywall tier not found", err)
		}
		return nil, err
	}
	return &tier, nil
}
