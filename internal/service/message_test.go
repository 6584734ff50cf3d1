package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortieapp/sortie/internal/gate"
	"github.com/sortieapp/sortie/internal/model"
)

type messageFixture struct {
	notifier *recordingNotifier
	svc      IMessageService

	groupID    uint
	memberID   uint
	otherID    uint
	strangerID uint
}

func setupMessages(t *testing.T) *messageFixture {
	t.Helper()

	memberships := newFakeMembershipRepo()
	groups := newFakeGroupRepo()
	messages := newFakeMessageRepo()
	notifier := &recordingNotifier{}

	g := gate.New(memberships, newFakeParticipationRepo(), newFakeReactionRepo(), newFakeEventRepo())
	svc := NewMessageService(messages, groups, g, notifier)

	ctx := context.Background()
	group := &model.Group{Name: "chat"}
	require.NoError(t, groups.Create(ctx, group))
	require.NoError(t, memberships.Create(ctx, &model.Membership{
		GroupID: group.ID, UserID: 1, Status: model.StatusApproved,
	}))
	require.NoError(t, memberships.Create(ctx, &model.Membership{
		GroupID: group.ID, UserID: 2, Status: model.StatusApproved,
	}))

	return &messageFixture{
		notifier:   notifier,
		svc:        svc,
		groupID:    group.ID,
		memberID:   1,
		otherID:    2,
		strangerID: 9,
	}
}

func TestMessageAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("member posts and event is published", func(t *testing.T) {
		fx := setupMessages(t)

		m, err := fx.svc.Add(ctx, fx.memberID, fx.groupID, &MessageRequest{Body: "hello"})
		require.NoError(t, err)
		assert.Equal(t, fx.memberID, m.UserID)
		assert.Contains(t, fx.notifier.keys(), "message.created")
	})

	t.Run("broker failure does not fail the post", func(t *testing.T) {
		fx := setupMessages(t)
		fx.notifier.err = assert.AnError

		m, err := fx.svc.Add(ctx, fx.memberID, fx.groupID, &MessageRequest{Body: "hello"})
		require.NoError(t, err)
		assert.NotZero(t, m.ID)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		fx := setupMessages(t)

		_, err := fx.svc.Add(ctx, fx.strangerID, fx.groupID, &MessageRequest{Body: "hi"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown group", func(t *testing.T) {
		fx := setupMessages(t)

		_, err := fx.svc.Add(ctx, fx.memberID, 404, &MessageRequest{Body: "hi"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGroupMessagesPagination(t *testing.T) {
	ctx := context.Background()
	fx := setupMessages(t)

	for i := 0; i < 5; i++ {
		_, err := fx.svc.Add(ctx, fx.memberID, fx.groupID, &MessageRequest{Body: fmt.Sprintf("msg %d", i)})
		require.NoError(t, err)
	}

	page1, total, err := fx.svc.GroupMessages(ctx, fx.otherID, fx.groupID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, "msg 4", page1[0].Body)

	page3, _, err := fx.svc.GroupMessages(ctx, fx.otherID, fx.groupID, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	_, _, err = fx.svc.GroupMessages(ctx, fx.strangerID, fx.groupID, 1, 2)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMessageUpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("author edits", func(t *testing.T) {
		fx := setupMessages(t)

		m, err := fx.svc.Add(ctx, fx.memberID, fx.groupID, &MessageRequest{Body: "typo"})
		require.NoError(t, err)

		updated, err := fx.svc.Update(ctx, fx.memberID, m.ID, &MessageRequest{Body: "fixed"})
		require.NoError(t, err)
		assert.Equal(t, "fixed", updated.Body)
	})

	t.Run("non-author cannot edit", func(t *testing.T) {
		fx := setupMessages(t)

		m, err := fx.svc.Add(ctx, fx.memberID, fx.groupID, &MessageRequest{Body: "mine"})
		require.NoError(t, err)

		_, err = fx.svc.Update(ctx, fx.otherID, m.ID, &MessageRequest{Body: "hijack"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("author deletes", func(t *testing.T) {
		fx := setupMessages(t)

		m, err := fx.svc.Add(ctx, fx.memberID, fx.groupID, &MessageRequest{Body: "gone"})
		require.NoError(t, err)

		require.NoError(t, fx.svc.Delete(ctx, fx.memberID, m.ID))

		_, err = fx.svc.Update(ctx, fx.memberID, m.ID, &MessageRequest{Body: "?"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
