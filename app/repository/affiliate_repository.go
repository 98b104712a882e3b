package repository

import (
	"errors"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
)

// affiliateRepository implements the AffiliateRepository interface
type affiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository creates a new affiliate repository instance
func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{db: db}
}

func (r *affiliateRepository) Create(a *models.CommunityAffiliate) error {
	return r.db.Create(a).Error
}

func (r *affiliateRepository) GetByID(id uint) (*models.CommunityAffiliate, error) {
	var a models.CommunityAffiliate
	if err := r.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "affiliate not found", err)
		}
		return nil, err
	}
	return &a, nil
}

// IncrementEarnings adds to the cumulative earned/paid totals in a single
// atomic UPDATE. There is no decrement path.
func (r *affiliateRepository) IncrementEarnings(id uint, earnedDeltaCents, paidDeltaCents int64) error {
	res := r.db.Model(&models.CommunityAffiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_earned_cents": gorm.Expr("amount_earned_cents + ?", earnedDeltaCents),
			"amount_paid_cents":   gorm.Expr("amount_paid_cents + ?", paidDeltaCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("affiliate not found")
	}
	return nil
}
