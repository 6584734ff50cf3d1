package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/gate"
	"github.com/sortieapp/sortie/internal/model"
	"github.com/sortieapp/sortie/internal/repository"
)

// UpdateStatusRequest settles a pending invitation. Approving keeps the
// row; rejecting deletes it.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// MembershipEvent is the payload published to the notifier on lifecycle
// transitions.
type MembershipEvent struct {
	Type    string `json:"type"`
	GroupID uint   `json:"group_id"`
	UserID  uint   `json:"user_id"`
}

// IMembershipService enforces the join/invite/approve/reject/leave
// lifecycle over group_user rows.
type IMembershipService interface {
	RequestToJoin(ctx context.Context, groupID, userID uint) (*model.Membership, error)
	Invite(ctx context.Context, groupID, actorID, inviteeID uint) (*model.Membership, error)
	UpdateStatus(ctx context.Context, groupID, actorID uint, status string) (*model.Membership, error)
	Leave(ctx context.Context, groupID, userID uint) error
	GroupMembers(ctx context.Context, groupID, actorID uint) ([]model.Membership, error)
}

type MembershipService struct {
	memberships repository.IMembershipRepository
	groups      repository.IGroupRepository
	users       repository.IUserRepository
	gate        *gate.Gate
	notifier    Notifier
}

// NewMembershipService creates a new IMembershipService instance.
// notifier may be nil when the broker is not configured.
func NewMembershipService(
	memberships repository.IMembershipRepository,
	groups repository.IGroupRepository,
	users repository.IUserRepository,
	g *gate.Gate,
	notifier Notifier,
) IMembershipService {
	return &MembershipService{
		memberships: memberships,
		groups:      groups,
		users:       users,
		gate:        g,
		notifier:    notifier,
	}
}

// RequestToJoin records a self-service join request. An existing row
// for the pair always wins: invited rows, pending requests and approved
// memberships each surface their own conflict. The insert relies on the
// composite unique index as backstop, so two racing first requests
// resolve to one row and one conflict.
func (s *MembershipService) RequestToJoin(ctx context.Context, groupID, userID uint) (*model.Membership, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	existing, err := s.memberships.Find(ctx, groupID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		switch {
		case existing.Invited:
			return nil, ErrAlreadyInvited
		case existing.Status == model.StatusPending:
			return nil, ErrAlreadyPending
		case existing.Status == model.StatusApproved:
			return nil, ErrAlreadyMember
		}
		return existing, nil
	}

	m := &model.Membership{
		GroupID: groupID,
		UserID:  userID,
		Status:  model.StatusPending,
		Invited: false,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyPending
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	return m, nil
}

// Invite lets the group creator invite another user. The invitee gets a
// pending row with the invited flag set, which only they can settle.
func (s *MembershipService) Invite(ctx context.Context, groupID, actorID, inviteeID uint) (*model.Membership, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	actor, err := s.memberships.Find(ctx, groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to check inviter membership: %w", err)
	}
	if !actor.IsCreator {
		return nil, ErrForbidden
	}

	if _, err := s.users.FindByID(ctx, inviteeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find invitee: %w", err)
	}

	existing, err := s.memberships.Find(ctx, groupID, inviteeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		switch {
		case existing.Invited:
			return nil, ErrAlreadyInvited
		case existing.Status == model.StatusApproved:
			return nil, ErrAlreadyMember
		default:
			return nil, ErrAlreadyPending
		}
	}

	m := &model.Membership{
		GroupID: groupID,
		UserID:  inviteeID,
		Status:  model.StatusPending,
		Invited: true,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInvited
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.publish("membership.invited", MembershipEvent{Type: "invited", GroupID: groupID, UserID: inviteeID})
	return m, nil
}

// UpdateStatus settles the actor's own pending invitation. Approval is
// a compare-and-swap on the pending status; rejection deletes the row
// outright. Join requests (invited=false) cannot be settled through
// this path at all.
func (s *MembershipService) UpdateStatus(ctx context.Context, groupID, actorID uint, status string) (*model.Membership, error) {
	m, err := s.memberships.Find(ctx, groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	if !s.gate.CanUpdateMembershipStatus(actorID, m) {
		return nil, ErrForbidden
	}

	switch status {
	case model.StatusApproved:
		ok, err := s.memberships.ApproveIfPending(ctx, groupID, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to approve membership: %w", err)
		}
		if !ok {
			// Lost the race: the row is no longer a pending invite.
			return nil, ErrForbidden
		}
		m.Status = model.StatusApproved
		s.publish("membership.approved", MembershipEvent{Type: "approved", GroupID: groupID, UserID: actorID})
		return m, nil

	case model.StatusRejected:
		ok, err := s.memberships.DeletePendingInvite(ctx, groupID, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to reject membership: %w", err)
		}
		if !ok {
			return nil, ErrForbidden
		}
		s.publish("membership.rejected", MembershipEvent{Type: "rejected", GroupID: groupID, UserID: actorID})
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrValidation)
	}
}

// Leave deletes the caller's approved membership. The creator can never
// leave their own group through this operation.
func (s *MembershipService) Leave(ctx context.Context, groupID, userID uint) error {
	m, err := s.memberships.Find(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}
	if m.IsCreator || m.Status != model.StatusApproved {
		return ErrForbidden
	}

	ok, err := s.memberships.DeleteApprovedNonCreator(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to leave group: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// GroupMembers lists approved members, visible to approved members only.
func (s *MembershipService) GroupMembers(ctx context.Context, groupID, actorID uint) ([]model.Membership, error) {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	ok, err := s.gate.CanViewGroup(ctx, actorID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.memberships.ListGroupMembers(ctx, groupID, model.StatusApproved)
}

func (s *MembershipService) publish(key string, payload any) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Publish(key, payload)
}
