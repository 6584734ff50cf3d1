package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/model"
	"github.com/sortieapp/sortie/internal/repository"
	"github.com/sortieapp/sortie/internal/storage"
)

// UpdateUserRequest carries the editable profile fields.
type UpdateUserRequest struct {
	Username   *string `json:"username" binding:"omitempty,min=3,max=30"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" binding:"omitempty,max=20"`
	Country    *string `json:"country" binding:"omitempty,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
}

// IUserService defines the interface for user profile operations
type IUserService interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	Groups(ctx context.Context, userID uint) ([]model.Group, error)
	Events(ctx context.Context, userID uint) ([]model.Event, error)
	Images(ctx context.Context, userID uint) ([]model.Image, error)
	Update(ctx context.Context, userID uint, req *UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, userID uint) error
}

type UserService struct {
	users       repository.IUserRepository
	memberships repository.IMembershipRepository
	events      repository.IEventRepository
	images      repository.IImageRepository
	imageSvc    IImageService
	tokens      *storage.TokenStore
}

// NewUserService creates a new IUserService instance
func NewUserService(
	users repository.IUserRepository,
	memberships repository.IMembershipRepository,
	events repository.IEventRepository,
	images repository.IImageRepository,
	imageSvc IImageService,
	tokens *storage.TokenStore,
) IUserService {
	return &UserService{
		users:       users,
		memberships: memberships,
		events:      events,
		images:      images,
		imageSvc:    imageSvc,
		tokens:      tokens,
	}
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Groups lists the groups the user is an approved member of. Pending
// and invited rows do not count.
func (s *UserService) Groups(ctx context.Context, userID uint) ([]model.Group, error) {
	return s.memberships.ListUserGroups(ctx, userID, model.StatusApproved)
}

// Events lists the events the user participates in.
func (s *UserService) Events(ctx context.Context, userID uint) ([]model.Event, error) {
	return s.events.ListByUser(ctx, userID)
}

func (s *UserService) Images(ctx context.Context, userID uint) ([]model.Image, error) {
	return s.images.ListByUser(ctx, userID)
}

func (s *UserService) Update(ctx context.Context, userID uint, req *UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.UserName = *req.Username
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.PostalCode != nil {
		user.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes the account, its uploaded images and every live token.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.imageSvc.DeleteUserImages(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return s.tokens.Clear(ctx, userID)
}
