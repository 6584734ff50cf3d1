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

// CreateGroupRequest carries the validated group creation input.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=40"`
}

// IGroupService defines the interface for group management operations
type IGroupService interface {
	Create(ctx context.Context, userID uint, req *CreateGroupRequest) (*model.Group, error)
	Get(ctx context.Context, actorID, groupID uint) (*model.Group, error)
	Events(ctx context.Context, actorID, groupID uint) ([]model.Event, error)
	Images(ctx context.Context, actorID, groupID uint) ([]model.Image, error)
	Update(ctx context.Context, actorID, groupID uint, req *CreateGroupRequest) (*model.Group, error)
	Delete(ctx context.Context, actorID, groupID uint) error
}

type GroupService struct {
	groups      repository.IGroupRepository
	memberships repository.IMembershipRepository
	events      repository.IEventRepository
	images      repository.IImageRepository
	gate        *gate.Gate
}

// NewGroupService creates a new IGroupService instance
func NewGroupService(
	groups repository.IGroupRepository,
	memberships repository.IMembershipRepository,
	events repository.IEventRepository,
	images repository.IImageRepository,
	g *gate.Gate,
) IGroupService {
	return &GroupService{
		groups:      groups,
		memberships: memberships,
		events:      events,
		images:      images,
		gate:        g,
	}
}

// Create stores the group and attaches the creator's membership:
// approved, is_creator set, never invited. The creator flag is written
// here and nowhere else.
func (s *GroupService) Create(ctx context.Context, userID uint, req *CreateGroupRequest) (*model.Group, error) {
	group := &model.Group{Name: req.Name}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	m := &model.Membership{
		GroupID:   group.ID,
		UserID:    userID,
		Status:    model.StatusApproved,
		IsCreator: true,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to attach creator: %w", err)
	}
	return group, nil
}

func (s *GroupService) Get(ctx context.Context, actorID, groupID uint) (*model.Group, error) {
	group, err := s.findVisible(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Events(ctx context.Context, actorID, groupID uint) ([]model.Event, error) {
	if _, err := s.findVisible(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	return s.events.ListByGroup(ctx, groupID)
}

func (s *GroupService) Images(ctx context.Context, actorID, groupID uint) ([]model.Image, error) {
	if _, err := s.findVisible(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	return s.images.ListByGroup(ctx, groupID)
}

// Update is a creator-only operation.
func (s *GroupService) Update(ctx context.Context, actorID, groupID uint, req *CreateGroupRequest) (*model.Group, error) {
	group, err := s.findForCreator(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	group.Name = req.Name
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

// Delete is a creator-only operation and removes the group row; image
// blobs are cleaned up by the image service on their own rows.
func (s *GroupService) Delete(ctx context.Context, actorID, groupID uint) error {
	if _, err := s.findForCreator(ctx, actorID, groupID); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (s *GroupService) findVisible(ctx context.Context, actorID, groupID uint) (*model.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
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
	return group, nil
}

func (s *GroupService) findForCreator(ctx context.Context, actorID, groupID uint) (*model.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	m, err := s.memberships.Find(ctx, groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !m.IsCreator {
		return nil, ErrForbidden
	}
	return group, nil
}
