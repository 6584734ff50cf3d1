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

// MessageRequest carries the validated message body.
type MessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

// IMessageService defines the interface for group message operations
type IMessageService interface {
	GroupMessages(ctx context.Context, actorID, groupID uint, page, pageSize int) ([]model.Message, int64, error)
	Add(ctx context.Context, actorID, groupID uint, req *MessageRequest) (*model.Message, error)
	Update(ctx context.Context, actorID, messageID uint, req *MessageRequest) (*model.Message, error)
	Delete(ctx context.Context, actorID, messageID uint) error
}

type MessageService struct {
	messages repository.IMessageRepository
	groups   repository.IGroupRepository
	gate     *gate.Gate
	notifier Notifier
}

// NewMessageService creates a new IMessageService instance
func NewMessageService(
	messages repository.IMessageRepository,
	groups repository.IGroupRepository,
	g *gate.Gate,
	notifier Notifier,
) IMessageService {
	return &MessageService{
		messages: messages,
		groups:   groups,
		gate:     g,
		notifier: notifier,
	}
}

func (s *MessageService) GroupMessages(ctx context.Context, actorID, groupID uint, page, pageSize int) ([]model.Message, int64, error) {
	if err := s.checkGroupAccess(ctx, actorID, groupID); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	return s.messages.ListByGroup(ctx, groupID, pageSize, offset)
}

func (s *MessageService) Add(ctx context.Context, actorID, groupID uint, req *MessageRequest) (*model.Message, error) {
	if err := s.checkGroupAccess(ctx, actorID, groupID); err != nil {
		return nil, err
	}

	message := &model.Message{
		GroupID: groupID,
		UserID:  actorID,
		Body:    req.Body,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Publish("message.created", message)
	}
	return message, nil
}

// Update is author-only.
func (s *MessageService) Update(ctx context.Context, actorID, messageID uint, req *MessageRequest) (*model.Message, error) {
	message, err := s.findOwn(ctx, actorID, messageID)
	if err != nil {
		return nil, err
	}

	message.Body = req.Body
	if err := s.messages.Update(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return message, nil
}

// Delete is author-only.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uint) error {
	if _, err := s.findOwn(ctx, actorID, messageID); err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (s *MessageService) checkGroupAccess(ctx context.Context, actorID, groupID uint) error {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	ok, err := s.gate.CanViewGroup(ctx, actorID, groupID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *MessageService) findOwn(ctx context.Context, actorID, messageID uint) (*model.Message, error) {
	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	if message.UserID != actorID {
		return nil, ErrForbidden
	}
	return message, nil
}
