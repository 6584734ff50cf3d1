package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
)

// IEventRepository defines the interface for event data operations
type IEventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	ListByGroup(ctx context.Context, groupID uint) ([]model.Event, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint) error
}

type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new IEventRepository instance
func NewEventRepository(db *gorm.DB) IEventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Preload("Group").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) ListByGroup(ctx context.Context, groupID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("starts_at").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) ListByUser(ctx context.Context, userID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Joins("JOIN event_user ON event_user.event_id = events.id").
		Where("event_user.user_id = ?", userID).
		Order("starts_at").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Event{}, id).Error
}
