package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
)

// IParticipationRepository defines the interface for event participation
// data operations
type IParticipationRepository interface {
	Create(ctx context.Context, p *model.Participation) error
	Find(ctx context.Context, eventID, userID uint) (*model.Participation, error)
	Exists(ctx context.Context, eventID, userID uint) (bool, error)
	Delete(ctx context.Context, eventID, userID uint) (bool, error)
	ListParticipants(ctx context.Context, eventID uint) ([]model.Participation, error)
}

type ParticipationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository creates a new IParticipationRepository instance
func NewParticipationRepository(db *gorm.DB) IParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (r *ParticipationRepository) Create(ctx context.Context, p *model.Participation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ParticipationRepository) Find(ctx context.Context, eventID, userID uint) (*model.Participation, error) {
	var p model.Participation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParticipationRepository) Exists(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Participation{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ParticipationRepository) Delete(ctx context.Context, eventID, userID uint) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&model.Participation{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *ParticipationRepository) ListParticipants(ctx context.Context, eventID uint) ([]model.Participation, error) {
	var participants []model.Participation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND participate", eventID).
		Preload("User").
		Find(&participants).Error
	return participants, err
}
