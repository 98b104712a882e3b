package repository

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
)

// communityRepository implements the CommunityRepository interface
type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository instance
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(community *models.Community) error {
	return r.db.Create(community).Error
}

func (r *communityRepository) GetByID(id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "community not found", err)
		}
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) GetBySlug(slug string) (*models.Community, error) {
	var community models.Community
	err := r.db.Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).First(&community).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "community not found", err)
		}
		return nil, err
	}
	return &community, nil
}

// Resolve looks a community up by numeric id first, then by slug.
func (r *communityRepository) Resolve(ref string) (*models.Community, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperror.Validation("community reference is required")
	}
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return r.GetByID(uint(id))
	}
	return r.GetBySlug(ref)
}
