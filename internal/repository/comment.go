package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
)

// CommentWithReplies carries a top-level comment plus the number of
// replies hanging off it, for event comment listings.
type CommentWithReplies struct {
	model.Comment
	RepliesCount int64 `json:"replies_count"`
}

// ICommentRepository defines the interface for comment data operations
type ICommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByEvent(ctx context.Context, eventID uint) ([]CommentWithReplies, error)
	ListReplies(ctx context.Context, parentID uint) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uint) error
}

type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new ICommentRepository instance
func NewCommentRepository(db *gorm.DB) ICommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("Event").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) ListByEvent(ctx context.Context, eventID uint) ([]CommentWithReplies, error) {
	var comments []CommentWithReplies
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("comments.*, (SELECT count(*) FROM comments AS r WHERE r.parent_id = comments.id AND r.deleted_at IS NULL) AS replies_count").
		Where("comments.event_id = ? AND comments.parent_id IS NULL", eventID).
		Order("comments.created_at").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) ListReplies(ctx context.Context, parentID uint) ([]model.Comment, error) {
	var replies []model.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at").
		Find(&replies).Error
	return replies, err
}

func (r *CommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
