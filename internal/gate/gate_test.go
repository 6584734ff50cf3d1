package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortieapp/sortie/internal/model"
)

// stubMemberships answers ExistsApproved from a fixed set; the other
// methods are never reached by the predicates under test.
type stubMemberships struct {
	approved map[[2]uint]bool
}

func (s *stubMemberships) Create(context.Context, *model.Membership) error { return nil }
func (s *stubMemberships) Find(context.Context, uint, uint) (*model.Membership, error) {
	return nil, nil
}
func (s *stubMemberships) ExistsApproved(_ context.Context, groupID, userID uint) (bool, error) {
	return s.approved[[2]uint{groupID, userID}], nil
}
func (s *stubMemberships) ApproveIfPending(context.Context, uint, uint) (bool, error) {
	return false, nil
}
func (s *stubMemberships) DeletePendingInvite(context.Context, uint, uint) (bool, error) {
	return false, nil
}
func (s *stubMemberships) DeleteApprovedNonCreator(context.Context, uint, uint) (bool, error) {
	return false, nil
}
func (s *stubMemberships) ListGroupMembers(context.Context, uint, string) ([]model.Membership, error) {
	return nil, nil
}
func (s *stubMemberships) ListUserGroups(context.Context, uint, string) ([]model.Group, error) {
	return nil, nil
}

type stubReactions struct {
	existing map[[2]uint]bool
}

func (s *stubReactions) CreateWithLikes(context.Context, *model.Reaction) error { return nil }
func (s *stubReactions) Exists(_ context.Context, commentID, userID uint) (bool, error) {
	return s.existing[[2]uint{commentID, userID}], nil
}
func (s *stubReactions) DeleteWithLikes(context.Context, uint, uint) (bool, error) {
	return false, nil
}

type stubParticipations struct {
	existing map[[2]uint]bool
}

func (s *stubParticipations) Create(context.Context, *model.Participation) error { return nil }
func (s *stubParticipations) Find(context.Context, uint, uint) (*model.Participation, error) {
	return nil, nil
}
func (s *stubParticipations) Exists(_ context.Context, eventID, userID uint) (bool, error) {
	return s.existing[[2]uint{eventID, userID}], nil
}
func (s *stubParticipations) Delete(context.Context, uint, uint) (bool, error) { return false, nil }
func (s *stubParticipations) ListParticipants(context.Context, uint) ([]model.Participation, error) {
	return nil, nil
}

type stubEvents struct{}

func (stubEvents) Create(context.Context, *model.Event) error { return nil }
func (stubEvents) FindByID(context.Context, uint) (*model.Event, error) {
	return nil, nil
}
func (stubEvents) ListByGroup(context.Context, uint) ([]model.Event, error) { return nil, nil }
func (stubEvents) ListByUser(context.Context, uint) ([]model.Event, error)  { return nil, nil }
func (stubEvents) Update(context.Context, *model.Event) error               { return nil }
func (stubEvents) Delete(context.Context, uint) error                       { return nil }

func newTestGate(approved, reacted, participating map[[2]uint]bool) *Gate {
	return New(
		&stubMemberships{approved: approved},
		&stubParticipations{existing: participating},
		&stubReactions{existing: reacted},
		stubEvents{},
	)
}

func TestCanDeleteImage(t *testing.T) {
	g := newTestGate(nil, nil, nil)

	image := &model.Image{OwnerID: 7}
	assert.True(t, g.CanDeleteImage(7, image))
	assert.False(t, g.CanDeleteImage(8, image))
}

func TestCanUpdateMembershipStatus(t *testing.T) {
	g := newTestGate(nil, nil, nil)

	invite := &model.Membership{UserID: 5, Status: model.StatusPending, Invited: true}
	assert.True(t, g.CanUpdateMembershipStatus(5, invite))

	// someone else's invitation
	assert.False(t, g.CanUpdateMembershipStatus(6, invite))

	// plain join request
	request := &model.Membership{UserID: 5, Status: model.StatusPending, Invited: false}
	assert.False(t, g.CanUpdateMembershipStatus(5, request))

	// already settled
	settled := &model.Membership{UserID: 5, Status: model.StatusApproved, Invited: true}
	assert.False(t, g.CanUpdateMembershipStatus(5, settled))
}

func TestCanViewGroup(t *testing.T) {
	g := newTestGate(map[[2]uint]bool{{1, 10}: true}, nil, nil)
	ctx := context.Background()

	ok, err := g.CanViewGroup(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.CanViewGroup(ctx, 11, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

// CanReact and CanRemoveReaction must be complements for any group
// member: exactly one of them is true at any moment.
func TestReactionPredicatesComplement(t *testing.T) {
	ctx := context.Background()
	event := &model.Event{ID: 3, GroupID: 1}
	comment := &model.Comment{ID: 2, EventID: 3, Event: event}

	cases := []struct {
		name    string
		userID  uint
		reacted bool
	}{
		{"member without reaction", 10, false},
		{"member with reaction", 10, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reacted := map[[2]uint]bool{}
			if tc.reacted {
				reacted[[2]uint{2, tc.userID}] = true
			}
			g := newTestGate(map[[2]uint]bool{{1, tc.userID}: true}, reacted, nil)

			canReact, err := g.CanReact(ctx, tc.userID, comment)
			require.NoError(t, err)
			canRemove, err := g.CanRemoveReaction(ctx, tc.userID, comment)
			require.NoError(t, err)

			assert.NotEqual(t, canReact, canRemove)
			assert.Equal(t, tc.reacted, canRemove)
		})
	}

	t.Run("non-member can do neither", func(t *testing.T) {
		g := newTestGate(nil, nil, nil)

		canReact, err := g.CanReact(ctx, 99, comment)
		require.NoError(t, err)
		canRemove, err := g.CanRemoveReaction(ctx, 99, comment)
		require.NoError(t, err)

		assert.False(t, canReact)
		assert.False(t, canRemove)
	})
}

func TestEventParticipationPredicates(t *testing.T) {
	ctx := context.Background()
	event := &model.Event{ID: 3, GroupID: 1}

	t.Run("member not participating", func(t *testing.T) {
		g := newTestGate(map[[2]uint]bool{{1, 10}: true}, nil, nil)

		ok, err := g.CanParticipateInEvent(ctx, 10, event)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.CanLeaveEvent(ctx, 10, event)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = g.CanAddEventImages(ctx, 10, event)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("participating member", func(t *testing.T) {
		g := newTestGate(
			map[[2]uint]bool{{1, 10}: true},
			nil,
			map[[2]uint]bool{{3, 10}: true},
		)

		ok, err := g.CanParticipateInEvent(ctx, 10, event)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = g.CanLeaveEvent(ctx, 10, event)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.CanAddEventImages(ctx, 10, event)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stranger", func(t *testing.T) {
		g := newTestGate(nil, nil, map[[2]uint]bool{{3, 99}: true})

		ok, err := g.CanParticipateInEvent(ctx, 99, event)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
