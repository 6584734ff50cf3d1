package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/gate"
	"github.com/sortieapp/sortie/internal/model"
	"github.com/sortieapp/sortie/internal/repository"
	"github.com/sortieapp/sortie/internal/storage"
)

// Upload carries one incoming file.
type Upload struct {
	FileName string
	Reader   io.Reader
	Size     int64
}

// IImageService defines the interface for image upload and deletion.
// Bytes go to object storage, the row records the single owning entity
// plus the uploader for delete authorization.
type IImageService interface {
	AddGroupImage(ctx context.Context, actorID, groupID uint, up *Upload) (*model.Image, error)
	AddEventImage(ctx context.Context, actorID, eventID uint, up *Upload) (*model.Image, error)
	AddUserImage(ctx context.Context, userID uint, up *Upload) (*model.Image, error)
	Delete(ctx context.Context, actorID, imageID uint) error
	DeleteUserImages(ctx context.Context, userID uint) error
}

type ImageService struct {
	images repository.IImageRepository
	events repository.IEventRepository
	store  storage.ObjectStorage
	gate   *gate.Gate
}

// NewImageService creates a new IImageService instance
func NewImageService(
	images repository.IImageRepository,
	events repository.IEventRepository,
	store storage.ObjectStorage,
	g *gate.Gate,
) IImageService {
	return &ImageService{
		images: images,
		events: events,
		store:  store,
		gate:   g,
	}
}

func (s *ImageService) AddGroupImage(ctx context.Context, actorID, groupID uint, up *Upload) (*model.Image, error) {
	ok, err := s.gate.CanViewGroup(ctx, actorID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	prefix := fmt.Sprintf("groups/%d", groupID)
	return s.save(ctx, actorID, prefix, up, func(img *model.Image) {
		img.GroupID = &groupID
	})
}

func (s *ImageService) AddEventImage(ctx context.Context, actorID, eventID uint, up *Upload) (*model.Image, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	ok, err := s.gate.CanAddEventImages(ctx, actorID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to check participation: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	prefix := fmt.Sprintf("events/%d", eventID)
	return s.save(ctx, actorID, prefix, up, func(img *model.Image) {
		img.EventID = &eventID
	})
}

// AddUserImage stores a profile image; users may only attach images to
// themselves, so there is no gate beyond authentication.
func (s *ImageService) AddUserImage(ctx context.Context, userID uint, up *Upload) (*model.Image, error) {
	prefix := fmt.Sprintf("users/%d", userID)
	return s.save(ctx, userID, prefix, up, func(img *model.Image) {
		img.UserID = &userID
	})
}

// Delete removes the blob and the row. Only the uploader may delete,
// whatever group or event the image hangs off.
func (s *ImageService) Delete(ctx context.Context, actorID, imageID uint) error {
	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to find image: %w", err)
	}

	if !s.gate.CanDeleteImage(actorID, image) {
		return ErrForbidden
	}

	if err := s.store.Remove(ctx, image.ObjectName); err != nil {
		return err
	}
	return s.images.Delete(ctx, image.ID)
}

// DeleteUserImages removes all images attached to a user account, used
// when the account itself is deleted.
func (s *ImageService) DeleteUserImages(ctx context.Context, userID uint) error {
	images, err := s.images.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}
	for _, image := range images {
		if err := s.store.Remove(ctx, image.ObjectName); err != nil {
			return err
		}
		if err := s.images.Delete(ctx, image.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ImageService) save(ctx context.Context, ownerID uint, prefix string, up *Upload, bind func(*model.Image)) (*model.Image, error) {
	objectName, url, err := s.store.Upload(ctx, prefix, up.FileName, up.Reader, up.Size)
	if err != nil {
		return nil, err
	}

	image := &model.Image{
		URL:        url,
		ObjectName: objectName,
		OwnerID:    ownerID,
	}
	bind(image)

	if err := s.images.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	return image, nil
}
