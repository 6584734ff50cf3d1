package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
)

// IImageRepository defines the interface for image metadata operations;
// the bytes themselves live in object storage.
type IImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	FindByID(ctx context.Context, id uint) (*model.Image, error)
	ListByGroup(ctx context.Context, groupID uint) ([]model.Image, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.Image, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Image, error)
	Delete(ctx context.Context, id uint) error
}

type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new IImageRepository instance
func NewImageRepository(db *gorm.DB) IImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *ImageRepository) FindByID(ctx context.Context, id uint) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepository) ListByGroup(ctx context.Context, groupID uint) ([]model.Image, error) {
	var images []model.Image
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Find(&images).Error
	return images, err
}

func (r *ImageRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.Image, error) {
	var images []model.Image
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&images).Error
	return images, err
}

func (r *ImageRepository) ListByUser(ctx context.Context, userID uint) ([]model.Image, error) {
	var images []model.Image
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&images).Error
	return images, err
}

func (r *ImageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Image{}, id).Error
}
