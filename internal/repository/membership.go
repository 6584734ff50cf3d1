package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
)

// IMembershipRepository defines the interface for group membership data
// operations. The conditional mutations (ApproveIfPending and the two
// guarded deletes) carry their precondition into the WHERE clause so a
// concurrent writer can never widen the transition set: the losing
// request simply matches zero rows.
type IMembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	Find(ctx context.Context, groupID, userID uint) (*model.Membership, error)
	ExistsApproved(ctx context.Context, groupID, userID uint) (bool, error)
	ApproveIfPending(ctx context.Context, groupID, userID uint) (bool, error)
	DeletePendingInvite(ctx context.Context, groupID, userID uint) (bool, error)
	DeleteApprovedNonCreator(ctx context.Context, groupID, userID uint) (bool, error)
	ListGroupMembers(ctx context.Context, groupID uint, status string) ([]model.Membership, error)
	ListUserGroups(ctx context.Context, userID uint, status string) ([]model.Group, error)
}

type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new IMembershipRepository instance
func NewMembershipRepository(db *gorm.DB) IMembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MembershipRepository) Find(ctx context.Context, groupID, userID uint) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) ExistsApproved(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, model.StatusApproved).
		Count(&count).Error
	return count > 0, err
}

// ApproveIfPending flips a pending invitation to approved. The status
// check is part of the UPDATE itself (compare-and-swap), so two racing
// approvals resolve to exactly one winner.
func (r *MembershipRepository) ApproveIfPending(ctx context.Context, groupID, userID uint) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("group_id = ? AND user_id = ? AND status = ? AND invited", groupID, userID, model.StatusPending).
		Update("status", model.StatusApproved)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeletePendingInvite removes a pending invitation outright; rejecting
// never stores a rejected row.
func (r *MembershipRepository) DeletePendingInvite(ctx context.Context, groupID, userID uint) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ? AND status = ? AND invited", groupID, userID, model.StatusPending).
		Delete(&model.Membership{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteApprovedNonCreator backs the leave operation. Creators never
// match the predicate, whatever their status.
func (r *MembershipRepository) DeleteApprovedNonCreator(ctx context.Context, groupID, userID uint) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ? AND status = ? AND NOT is_creator", groupID, userID, model.StatusApproved).
		Delete(&model.Membership{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *MembershipRepository) ListGroupMembers(ctx context.Context, groupID uint, status string) ([]model.Membership, error) {
	var members []model.Membership
	q := r.db.WithContext(ctx).Where("group_id = ?", groupID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Preload("User").Find(&members).Error
	return members, err
}

func (r *MembershipRepository) ListUserGroups(ctx context.Context, userID uint, status string) ([]model.Group, error) {
	var groups []model.Group
	q := r.db.WithContext(ctx).
		Joins("JOIN group_user ON group_user.group_id = groups.id").
		Where("group_user.user_id = ?", userID)
	if status != "" {
		q = q.Where("group_user.status = ?", status)
	}
	err := q.Find(&groups).Error
	return groups, err
}
