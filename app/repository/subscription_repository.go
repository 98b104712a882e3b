package repository

import (
	"errors"
	"strings"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(sub *models.CommunitySubscription) error {
	return r.db.Create(sub).Error
}

func (r *subscriptionRepository) GetByPublicID(publicID string) (*models.CommunitySubscription, error) {
	var sub models.CommunitySubscription
	err := r.db.Where("public_id = ?", strings.TrimSpace(publicID)).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "subscription not found", err)
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Save(sub *models.CommunitySubscription) error {
	return r.db.Save(sub).Error
}
