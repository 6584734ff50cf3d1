// Package gate is the authorization layer consulted before every
// resource mutation. Each predicate is a side-effect-free read of the
// current membership, participation and reaction rows; nothing is
// cached, so a caller that re-checks always sees fresh state.
package gate

import (
	"context"

	"github.com/sortieapp/sortie/internal/model"
	"github.com/sortieapp/sortie/internal/repository"
)

type Gate struct {
	memberships    repository.IMembershipRepository
	participations repository.IParticipationRepository
	reactions      repository.IReactionRepository
	events         repository.IEventRepository
}

// New creates a Gate over the given repositories.
func New(
	memberships repository.IMembershipRepository,
	participations repository.IParticipationRepository,
	reactions repository.IReactionRepository,
	events repository.IEventRepository,
) *Gate {
	return &Gate{
		memberships:    memberships,
		participations: participations,
		reactions:      reactions,
		events:         events,
	}
}

// CanViewGroup reports whether the user holds an approved membership of
// the group. Pending and invited rows grant nothing.
func (g *Gate) CanViewGroup(ctx context.Context, userID, groupID uint) (bool, error) {
	return g.memberships.ExistsApproved(ctx, groupID, userID)
}

// CanViewEvent delegates to the approved-membership check on the
// event's group.
func (g *Gate) CanViewEvent(ctx context.Context, userID uint, event *model.Event) (bool, error) {
	return g.CanViewGroup(ctx, userID, event.GroupID)
}

// CanCreateEvent is the same predicate as CanViewGroup: approved
// membership is the only requirement for creating an event.
func (g *Gate) CanCreateEvent(ctx context.Context, userID, groupID uint) (bool, error) {
	return g.CanViewGroup(ctx, userID, groupID)
}

// CanAddComment reports whether the user may comment on the event.
func (g *Gate) CanAddComment(ctx context.Context, userID uint, event *model.Event) (bool, error) {
	return g.CanViewGroup(ctx, userID, event.GroupID)
}

// CanViewComment checks membership of the group behind the comment's
// event. Replying is gated by the same predicate.
func (g *Gate) CanViewComment(ctx context.Context, userID uint, comment *model.Comment) (bool, error) {
	groupID, err := g.commentGroupID(ctx, comment)
	if err != nil {
		return false, err
	}
	return g.CanViewGroup(ctx, userID, groupID)
}

// CanReplyToComment delegates to CanViewComment.
func (g *Gate) CanReplyToComment(ctx context.Context, userID uint, comment *model.Comment) (bool, error) {
	return g.CanViewComment(ctx, userID, comment)
}

// CanReact is true when the user is an approved member and has not
// reacted to this comment yet.
func (g *Gate) CanReact(ctx context.Context, userID uint, comment *model.Comment) (bool, error) {
	ok, err := g.CanViewComment(ctx, userID, comment)
	if err != nil || !ok {
		return false, err
	}
	exists, err := g.reactions.Exists(ctx, comment.ID, userID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// CanRemoveReaction is the complement of CanReact for a member: true
// only when the user's reaction exists.
func (g *Gate) CanRemoveReaction(ctx context.Context, userID uint, comment *model.Comment) (bool, error) {
	ok, err := g.CanViewComment(ctx, userID, comment)
	if err != nil || !ok {
		return false, err
	}
	return g.reactions.Exists(ctx, comment.ID, userID)
}

// CanParticipateInEvent is true for approved group members with no
// participation row for the event yet.
func (g *Gate) CanParticipateInEvent(ctx context.Context, userID uint, event *model.Event) (bool, error) {
	ok, err := g.CanViewGroup(ctx, userID, event.GroupID)
	if err != nil || !ok {
		return false, err
	}
	exists, err := g.participations.Exists(ctx, event.ID, userID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// CanLeaveEvent is true for approved group members whose participation
// row exists.
func (g *Gate) CanLeaveEvent(ctx context.Context, userID uint, event *model.Event) (bool, error) {
	ok, err := g.CanViewGroup(ctx, userID, event.GroupID)
	if err != nil || !ok {
		return false, err
	}
	return g.participations.Exists(ctx, event.ID, userID)
}

// CanAddEventImages requires both an approved group membership and a
// participation row for the event.
func (g *Gate) CanAddEventImages(ctx context.Context, userID uint, event *model.Event) (bool, error) {
	ok, err := g.CanViewGroup(ctx, userID, event.GroupID)
	if err != nil || !ok {
		return false, err
	}
	return g.participations.Exists(ctx, event.ID, userID)
}

// CanDeleteImage looks only at upload ownership; group and event
// context play no part.
func (g *Gate) CanDeleteImage(userID uint, image *model.Image) bool {
	return image.OwnerID == userID
}

// CanUpdateMembershipStatus permits only the invited user to settle
// their own pending invitation.
func (g *Gate) CanUpdateMembershipStatus(userID uint, m *model.Membership) bool {
	return m.Status == model.StatusPending && m.Invited && m.UserID == userID
}

func (g *Gate) commentGroupID(ctx context.Context, comment *model.Comment) (uint, error) {
	if comment.Event != nil {
		return comment.Event.GroupID, nil
	}
	event, err := g.events.FindByID(ctx, comment.EventID)
	if err != nil {
		return 0, err
	}
	return event.GroupID, nil
}
