package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sortieapp/sortie/internal/gate"
	"github.com/sortieapp/sortie/internal/model"
	"github.com/sortieapp/sortie/internal/repository"
)

// CreateEventRequest carries the validated event creation input.
type CreateEventRequest struct {
	GroupID     uint      `json:"group_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=40"`
	Description string    `json:"description" binding:"required,max=2000"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	Location    string    `json:"location" binding:"required,max=255"`
}

// UpdateEventRequest carries the creator's event update input.
type UpdateEventRequest struct {
	Name        string    `json:"name" binding:"required,max=40"`
	Description string    `json:"description" binding:"required,max=2000"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	Location    string    `json:"location" binding:"required,max=255"`
	Status      string    `json:"status" binding:"omitempty,oneof=active reported canceled"`
}

// IEventService defines the interface for event and event participation
// operations
type IEventService interface {
	Create(ctx context.Context, userID uint, req *CreateEventRequest) (*model.Event, error)
	Get(ctx context.Context, actorID, eventID uint) (*model.Event, error)
	Participants(ctx context.Context, actorID, eventID uint) ([]model.Participation, error)
	Images(ctx context.Context, actorID, eventID uint) ([]model.Image, error)
	Participate(ctx context.Context, actorID, eventID uint) (*model.Participation, error)
	LeaveEvent(ctx context.Context, actorID, eventID uint) error
	Update(ctx context.Context, actorID, eventID uint, req *UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, actorID, eventID uint) error
}

type EventService struct {
	events         repository.IEventRepository
	participations repository.IParticipationRepository
	images         repository.IImageRepository
	gate           *gate.Gate
}

// NewEventService creates a new IEventService instance
func NewEventService(
	events repository.IEventRepository,
	participations repository.IParticipationRepository,
	images repository.IImageRepository,
	g *gate.Gate,
) IEventService {
	return &EventService{
		events:         events,
		participations: participations,
		images:         images,
		gate:           g,
	}
}

// Create stores the event and the creator's participation row. Approved
// membership of the hosting group is the only gate.
func (s *EventService) Create(ctx context.Context, userID uint, req *CreateEventRequest) (*model.Event, error) {
	ok, err := s.gate.CanCreateEvent(ctx, userID, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	event := &model.Event{
		GroupID:     req.GroupID,
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		Status:      model.EventStatusActive,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	p := &model.Participation{
		EventID:     event.ID,
		UserID:      userID,
		Participate: true,
		IsCreator:   true,
	}
	if err := s.participations.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to attach creator: %w", err)
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, actorID, eventID uint) (*model.Event, error) {
	return s.findVisible(ctx, actorID, eventID)
}

func (s *EventService) Participants(ctx context.Context, actorID, eventID uint) ([]model.Participation, error) {
	if _, err := s.findVisible(ctx, actorID, eventID); err != nil {
		return nil, err
	}
	return s.participations.ListParticipants(ctx, eventID)
}

func (s *EventService) Images(ctx context.Context, actorID, eventID uint) ([]model.Image, error) {
	if _, err := s.findVisible(ctx, actorID, eventID); err != nil {
		return nil, err
	}
	return s.images.ListByEvent(ctx, eventID)
}

// Participate inserts the caller's participation row; the unique index
// backstops the gate check under concurrent requests.
func (s *EventService) Participate(ctx context.Context, actorID, eventID uint) (*model.Participation, error) {
	event, err := s.find(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanParticipateInEvent(ctx, actorID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to check participation: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}

	p := &model.Participation{
		EventID:     eventID,
		UserID:      actorID,
		Participate: true,
	}
	if err := s.participations.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: already participating in this event", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create participation: %w", err)
	}
	return p, nil
}

func (s *EventService) LeaveEvent(ctx context.Context, actorID, eventID uint) error {
	event, err := s.find(ctx, eventID)
	if err != nil {
		return err
	}

	ok, err := s.gate.CanLeaveEvent(ctx, actorID, event)
	if err != nil {
		return fmt.Errorf("failed to check participation: %w", err)
	}
	if !ok {
		return ErrForbidden
	}

	deleted, err := s.participations.Delete(ctx, eventID, actorID)
	if err != nil {
		return fmt.Errorf("failed to leave event: %w", err)
	}
	if !deleted {
		return ErrForbidden
	}
	return nil
}

// Update is restricted to the event creator.
func (s *EventService) Update(ctx context.Context, actorID, eventID uint, req *UpdateEventRequest) (*model.Event, error) {
	event, err := s.findForCreator(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}

	event.Name = req.Name
	event.Description = req.Description
	event.StartsAt = req.StartsAt
	event.Location = req.Location
	if req.Status != "" {
		event.Status = req.Status
	}
	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// Delete is restricted to the event creator.
func (s *EventService) Delete(ctx context.Context, actorID, eventID uint) error {
	if _, err := s.findForCreator(ctx, actorID, eventID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *EventService) find(ctx context.Context, eventID uint) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

func (s *EventService) findVisible(ctx context.Context, actorID, eventID uint) (*model.Event, error) {
	event, err := s.find(ctx, eventID)
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
	return event, nil
}

func (s *EventService) findForCreator(ctx context.Context, actorID, eventID uint) (*model.Event, error) {
	event, err := s.find(ctx, eventID)
	if err != nil {
		return nil, err
	}

	p, err := s.participations.Find(ctx, eventID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to check participation: %w", err)
	}
	if !p.IsCreator {
		return nil, ErrForbidden
	}
	return event, nil
}
