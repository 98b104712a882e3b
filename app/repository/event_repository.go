package repository

import (
	"github.com/ChorusHQ/Chorus/app/models"
	"gorm.io/gorm"
)

// eventRepository implements the EventRepository interface. Events are
// append-only; there is no update or delete path.
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new domain event repository instance
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Append(event *models.DomainEvent) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) ListByEntity(entityType, entityID string) ([]models.DomainEvent, error) {
	var events []models.DomainEvent
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
