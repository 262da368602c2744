package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"interviewhub/internal/domain"
	"interviewhub/internal/observability"
)

// Registry is the live-connection surface the router delivers through. The
// websocket hub implements it.
type Registry interface {
	SendToUser(userID string, v any) bool
	BroadcastToGroup(groupID string, v any)
}

type receiveMessageEvent struct {
	Type    string `json:"type"`
	Message any    `json:"message"`
}

type typingEvent struct {
	Type string `json:"type"`
	From string `json:"from"`
}

// DeliveryRouter is the single orchestration point for sending a message:
// validate, persist, then fan out. Nothing is pushed to a connection before
// the record is durable, and push failures are swallowed; history remains
// the source of truth.
type DeliveryRouter struct {
	users         domain.UserRepository
	groups        domain.GroupRepository
	messages      domain.MessageRepository
	groupMessages domain.GroupMessageRepository
	registry      Registry

	validate *validator.Validate
	metrics  *observability.Metrics
	log      zerolog.Logger
}

func NewDeliveryRouter(
	users domain.UserRepository,
	groups domain.GroupRepository,
	messages domain.MessageRepository,
	groupMessages domain.GroupMessageRepository,
	registry Registry,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *DeliveryRouter {
	return &DeliveryRouter{
		users:         users,
		groups:        groups,
		messages:      messages,
		groupMessages: groupMessages,
		registry:      registry,
		validate:      validator.New(),
		metrics:       metrics,
		log:           log,
	}
}

type DirectSendInput struct {
	SenderID    string `validate:"required"`
	RecipientID string `validate:"required"`
	Content     string `validate:"required,max=5000"`
}

// SendDirect persists a direct message and pushes it to the recipient's live
// connection and back to the sender as an echo, so the sender's UI shows the
// server-assigned id and timestamp.
func (r *DeliveryRouter) SendDirect(ctx context.Context, in DirectSendInput) (*domain.DirectMessage, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	sender, err := r.users.GetByID(ctx, in.SenderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidPayload
		}
		return nil, err
	}
	if _, err := r.users.GetByID(ctx, in.RecipientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidPayload
		}
		return nil, err
	}

	msg := &domain.DirectMessage{
		SenderID:     in.SenderID,
		RecipientID:  in.RecipientID,
		Content:      in.Content,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
	}
	if err := r.messages.AppendDirect(ctx, msg); err != nil {
		r.log.Error().Err(err).Str("sender_id", in.SenderID).Msg("append direct message")
		return nil, domain.ErrStoreUnavailable
	}

	event := receiveMessageEvent{Type: "receive_message", Message: msg}
	if r.registry.SendToUser(in.RecipientID, event) {
		r.metrics.MessagesDelivered.WithLabelValues("direct").Inc()
	}
	// A self-message already reached the sender as the recipient push.
	if in.SenderID != in.RecipientID {
		r.registry.SendToUser(in.SenderID, event)
	}

	return msg, nil
}

type GroupSendInput struct {
	SenderID string `validate:"required"`
	GroupID  string `validate:"required"`
	Content  string `validate:"required,max=5000"`
}

// SendGroup persists a group message and fans it out to every member's live
// connection via the group room; absent members catch up from history.
func (r *DeliveryRouter) SendGroup(ctx context.Context, in GroupSendInput) (*domain.GroupMessage, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	members, err := r.groups.MembersOf(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(members, in.SenderID) {
		return nil, domain.ErrForbidden
	}

	sender, err := r.users.GetByID(ctx, in.SenderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidPayload
		}
		return nil, err
	}

	msg := &domain.GroupMessage{
		GroupID:      in.GroupID,
		SenderID:     in.SenderID,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
		Content:      in.Content,
	}
	if err := r.groupMessages.AppendGroup(ctx, msg); err != nil {
		r.log.Error().Err(err).Str("group_id", in.GroupID).Msg("append group message")
		return nil, domain.ErrStoreUnavailable
	}

	r.registry.BroadcastToGroup(in.GroupID, receiveMessageEvent{
		Type:    "receive_group_message",
		Message: msg,
	})
	r.metrics.MessagesDelivered.WithLabelValues("group").Inc()

	return msg, nil
}

// Typing forwards an ephemeral typing signal to the recipient's live
// connection. Nothing is persisted and nothing is acknowledged.
func (r *DeliveryRouter) Typing(fromUserID, toUserID string) {
	if fromUserID == "" || toUserID == "" {
		return
	}
	if r.registry.SendToUser(toUserID, typingEvent{Type: "typing", From: fromUserID}) {
		r.metrics.MessagesDelivered.WithLabelValues("typing").Inc()
	}
}
