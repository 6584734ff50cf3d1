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

// CommentRequest carries the validated comment body for both top-level
// comments and replies.
type CommentRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

// ReactionRequest carries the emoji for a comment reaction.
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"omitempty,max=16"`
}

// ICommentService defines the interface for comment, reply and reaction
// operations
type ICommentService interface {
	EventComments(ctx context.Context, actorID, eventID uint) ([]repository.CommentWithReplies, error)
	Replies(ctx context.Context, actorID, commentID uint) ([]model.Comment, error)
	AddEventComment(ctx context.Context, actorID, eventID uint, req *CommentRequest) (*model.Comment, error)
	AddReply(ctx context.Context, actorID, commentID uint, req *CommentRequest) (*model.Comment, error)
	React(ctx context.Context, actorID, commentID uint, req *ReactionRequest) (*model.Reaction, error)
	RemoveReaction(ctx context.Context, actorID, commentID uint) error
	Update(ctx context.Context, actorID, commentID uint, req *CommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, actorID, commentID uint) error
}

type CommentService struct {
	comments  repository.ICommentRepository
	reactions repository.IReactionRepository
	events    repository.IEventRepository
	gate      *gate.Gate
}

// NewCommentService creates a new ICommentService instance
func NewCommentService(
	comments repository.ICommentRepository,
	reactions repository.IReactionRepository,
	events repository.IEventRepository,
	g *gate.Gate,
) ICommentService {
	return &CommentService{
		comments:  comments,
		reactions: reactions,
		events:    events,
		gate:      g,
	}
}

func (s *CommentService) EventComments(ctx context.Context, actorID, eventID uint) ([]repository.CommentWithReplies, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanViewEvent(ctx, actorID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.comments.ListByEvent(ctx, eventID)
}

func (s *CommentService) Replies(ctx context.Context, actorID, commentID uint) ([]model.Comment, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanViewComment(ctx, actorID, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.comments.ListReplies(ctx, commentID)
}

func (s *CommentService) AddEventComment(ctx context.Context, actorID, eventID uint, req *CommentRequest) (*model.Comment, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanAddComment(ctx, actorID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	comment := &model.Comment{
		EventID: eventID,
		UserID:  actorID,
		Body:    req.Body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// AddReply attaches one level of reply: replying to a reply hangs the
// new comment off the same parent.
func (s *CommentService) AddReply(ctx context.Context, actorID, commentID uint, req *CommentRequest) (*model.Comment, error) {
	parent, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanReplyToComment(ctx, actorID, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	parentID := parent.ID
	if parent.ParentID != nil {
		parentID = *parent.ParentID
	}
	reply := &model.Comment{
		EventID:  parent.EventID,
		UserID:   actorID,
		ParentID: &parentID,
		Body:     req.Body,
	}
	if err := s.comments.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	return reply, nil
}

// React creates the caller's reaction and bumps the comment's likes
// counter. A second reaction by the same user is a conflict, enforced
// by the gate check and again by the unique index under races.
func (s *CommentService) React(ctx context.Context, actorID, commentID uint, req *ReactionRequest) (*model.Reaction, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanReact(ctx, actorID, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to check reaction: %w", err)
	}
	if !ok {
		member, err := s.gate.CanViewComment(ctx, actorID, comment)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if member {
			return nil, ErrAlreadyReacted
		}
		return nil, ErrForbidden
	}

	reaction := &model.Reaction{
		CommentID: commentID,
		UserID:    actorID,
		Emoji:     req.Emoji,
	}
	if err := s.reactions.CreateWithLikes(ctx, reaction); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReacted
		}
		return nil, fmt.Errorf("failed to create reaction: %w", err)
	}
	return reaction, nil
}

// RemoveReaction deletes the caller's own reaction and decrements the
// likes counter. Removing a reaction that never existed is forbidden.
func (s *CommentService) RemoveReaction(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}

	ok, err := s.gate.CanRemoveReaction(ctx, actorID, comment)
	if err != nil {
		return fmt.Errorf("failed to check reaction: %w", err)
	}
	if !ok {
		return ErrForbidden
	}

	deleted, err := s.reactions.DeleteWithLikes(ctx, commentID, actorID)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	if !deleted {
		return ErrForbidden
	}
	return nil
}

// Update is author-only.
func (s *CommentService) Update(ctx context.Context, actorID, commentID uint, req *CommentRequest) (*model.Comment, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, ErrForbidden
	}

	comment.Body = req.Body
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// Delete is author-only.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actorID {
		return ErrForbidden
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) findEvent(ctx context.Context, eventID uint) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

func (s *CommentService) findComment(ctx context.Context, commentID uint) (*model.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}
