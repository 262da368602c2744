package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"interviewhub/internal/domain"
	"interviewhub/internal/observability"
	"interviewhub/internal/service"
)

type routerFixture struct {
	users         *MockUserRepo
	groups        *MockGroupRepo
	messages      *MockMessageRepo
	groupMessages *MockGroupMessageRepo
	registry      *MockRegistry
	router        *service.DeliveryRouter
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		users:         new(MockUserRepo),
		groups:        new(MockGroupRepo),
		messages:      new(MockMessageRepo),
		groupMessages: new(MockGroupMessageRepo),
		registry:      new(MockRegistry),
	}
	f.router = service.NewDeliveryRouter(
		f.users, f.groups, f.messages, f.groupMessages, f.registry,
		observability.NewMetrics(prometheus.NewRegistry()), zerolog.Nop(),
	)
	return f
}

func TestSendDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsThenPushesToRecipientAndSender", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Alice", Avatar: "a.png"}, nil)
		f.users.On("GetByID", ctx, "u2").Return(&domain.User{ID: "u2", Name: "Bob"}, nil)
		f.messages.On("AppendDirect", ctx, mock.AnythingOfType("*domain.DirectMessage")).
			Run(func(args mock.Arguments) {
				m := args.Get(1).(*domain.DirectMessage)
				m.ID = "m1"
				m.Timestamp = time.Now().UTC()
			}).Return(nil)
		f.registry.On("SendToUser", "u2", mock.Anything).Return(true)
		f.registry.On("SendToUser", "u1", mock.Anything).Return(true)

		msg, err := f.router.SendDirect(ctx, service.DirectSendInput{
			SenderID: "u1", RecipientID: "u2", Content: "hi",
		})

		require.NoError(t, err)
		assert.Equal(t, "m1", msg.ID)
		assert.Equal(t, "Alice", msg.SenderName)
		assert.False(t, msg.Read)
		f.registry.AssertCalled(t, "SendToUser", "u2", mock.Anything)
		f.registry.AssertCalled(t, "SendToUser", "u1", mock.Anything)
	})

	t.Run("StoreFailureAbortsWithoutPush", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Alice"}, nil)
		f.users.On("GetByID", ctx, "u2").Return(&domain.User{ID: "u2", Name: "Bob"}, nil)
		f.messages.On("AppendDirect", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := f.router.SendDirect(ctx, service.DirectSendInput{
			SenderID: "u1", RecipientID: "u2", Content: "hi",
		})

		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		f.registry.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything)
	})

	t.Run("EmptyContentRejectedBeforePersistence", func(t *testing.T) {
		f := newRouterFixture()

		_, err := f.router.SendDirect(ctx, service.DirectSendInput{
			SenderID: "u1", RecipientID: "u2", Content: "",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
		f.messages.AssertNotCalled(t, "AppendDirect", mock.Anything, mock.Anything)
	})

	t.Run("UnknownRecipientRejected", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Alice"}, nil)
		f.users.On("GetByID", ctx, "ghost").Return(nil, domain.ErrNotFound)

		_, err := f.router.SendDirect(ctx, service.DirectSendInput{
			SenderID: "u1", RecipientID: "ghost", Content: "hi",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
		f.messages.AssertNotCalled(t, "AppendDirect", mock.Anything, mock.Anything)
	})

	t.Run("SelfMessagePushedOnce", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Alice"}, nil)
		f.messages.On("AppendDirect", ctx, mock.Anything).Return(nil)
		f.registry.On("SendToUser", "u1", mock.Anything).Return(true)

		_, err := f.router.SendDirect(ctx, service.DirectSendInput{
			SenderID: "u1", RecipientID: "u1", Content: "note to self",
		})

		require.NoError(t, err)
		f.registry.AssertNumberOfCalls(t, "SendToUser", 1)
	})

	t.Run("OfflineRecipientStillPersists", func(t *testing.T) {
		f := newRouterFixture()
		f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Alice"}, nil)
		f.users.On("GetByID", ctx, "u2").Return(&domain.User{ID: "u2", Name: "Bob"}, nil)
		f.messages.On("AppendDirect", ctx, mock.Anything).Return(nil)
		f.registry.On("SendToUser", mock.Anything, mock.Anything).Return(false)

		msg, err := f.router.SendDirect(ctx, service.DirectSendInput{
			SenderID: "u1", RecipientID: "u2", Content: "hi",
		})

		require.NoError(t, err)
		assert.NotNil(t, msg)
	})
}

func TestSendGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("MemberSendFansOut", func(t *testing.T) {
		f := newRouterFixture()
		f.groups.On("MembersOf", ctx, "g1").Return([]string{"u1", "u2", "u3"}, nil)
		f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Alice"}, nil)
		f.groupMessages.On("AppendGroup", ctx, mock.AnythingOfType("*domain.GroupMessage")).
			Run(func(args mock.Arguments) {
				m := args.Get(1).(*domain.GroupMessage)
				m.ID = "gm1"
				m.Timestamp = time.Now().UTC()
			}).Return(nil)
		f.registry.On("BroadcastToGroup", "g1", mock.Anything).Return()

		msg, err := f.router.SendGroup(ctx, service.GroupSendInput{
			SenderID: "u1", GroupID: "g1", Content: "hello all",
		})

		require.NoError(t, err)
		assert.Equal(t, "gm1", msg.ID)
		f.registry.AssertCalled(t, "BroadcastToGroup", "g1", mock.Anything)
	})

	t.Run("NonMemberForbiddenAndNothingAppended", func(t *testing.T) {
		f := newRouterFixture()
		f.groups.On("MembersOf", ctx, "g1").Return([]string{"u2", "u3"}, nil)

		_, err := f.router.SendGroup(ctx, service.GroupSendInput{
			SenderID: "u1", GroupID: "g1", Content: "hello all",
		})

		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.groupMessages.AssertNotCalled(t, "AppendGroup", mock.Anything, mock.Anything)
		f.registry.AssertNotCalled(t, "BroadcastToGroup", mock.Anything, mock.Anything)
	})

	t.Run("UnknownGroupNotFound", func(t *testing.T) {
		f := newRouterFixture()
		f.groups.On("MembersOf", ctx, "nope").Return(nil, domain.ErrNotFound)

		_, err := f.router.SendGroup(ctx, service.GroupSendInput{
			SenderID: "u1", GroupID: "nope", Content: "hi",
		})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("StoreFailureAbortsWithoutFanOut", func(t *testing.T) {
		f := newRouterFixture()
		f.groups.On("MembersOf", ctx, "g1").Return([]string{"u1"}, nil)
		f.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Name: "Alice"}, nil)
		f.groupMessages.On("AppendGroup", ctx, mock.Anything).Return(errors.New("down"))

		_, err := f.router.SendGroup(ctx, service.GroupSendInput{
			SenderID: "u1", GroupID: "g1", Content: "hi",
		})

		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		f.registry.AssertNotCalled(t, "BroadcastToGroup", mock.Anything, mock.Anything)
	})
}

func TestTyping(t *testing.T) {
	t.Run("ForwardedToRecipient", func(t *testing.T) {
		f := newRouterFixture()
		f.registry.On("SendToUser", "u2", mock.Anything).Return(true)

		f.router.Typing("u1", "u2")

		f.registry.AssertCalled(t, "SendToUser", "u2", mock.Anything)
		f.messages.AssertNotCalled(t, "AppendDirect", mock.Anything, mock.Anything)
	})

	t.Run("DroppedWhenRecipientOffline", func(t *testing.T) {
		f := newRouterFixture()
		f.registry.On("SendToUser", "u2", mock.Anything).Return(false)

		f.router.Typing("u1", "u2")
	})

	t.Run("MissingIdsIgnored", func(t *testing.T) {
		f := newRouterFixture()

		f.router.Typing("", "u2")
		f.router.Typing("u1", "")

		f.registry.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything)
	})
}
