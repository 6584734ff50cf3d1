package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
)

// IReactionRepository defines the interface for comment reaction data
// operations. The likes counter on the comment is denormalized, so the
// reaction row and the counter always move in one transaction.
type IReactionRepository interface {
	CreateWithLikes(ctx context.Context, reaction *model.Reaction) error
	Exists(ctx context.Context, commentID, userID uint) (bool, error)
	DeleteWithLikes(ctx context.Context, commentID, userID uint) (bool, error)
}

type ReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new IReactionRepository instance
func NewReactionRepository(db *gorm.DB) IReactionRepository {
	return &ReactionRepository{db: db}
}

// CreateWithLikes inserts the reaction and increments the comment's
// likes counter in one transaction.
func (r *ReactionRepository) CreateWithLikes(ctx context.Context, reaction *model.Reaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reaction).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).
			Where("id = ?", reaction.CommentID).
			Update("likes", gorm.Expr("likes + 1")).Error
	})
}

func (r *ReactionRepository) Exists(ctx context.Context, commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Reaction{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

// DeleteWithLikes removes the caller's reaction and decrements the
// likes counter in one transaction, reporting whether a row existed.
// A user can never remove another user's reaction because the pair is
// part of the predicate.
func (r *ReactionRepository) DeleteWithLikes(ctx context.Context, commentID, userID uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&model.Reaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&model.Comment{}).
			Where("id = ?", commentID).
			Update("likes", gorm.Expr("likes - 1")).Error
	})
	return deleted, err
}
