package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"interviewhub/internal/domain"
)

// ConversationReader serves persisted history alongside the live stream:
// paginated direct history, full group history, the read-receipt mutation
// and hard deletes.
type ConversationReader struct {
	messages      domain.MessageRepository
	groupMessages domain.GroupMessageRepository
	groups        domain.GroupRepository

	defaultPageSize int
	maxPageSize     int
	log             zerolog.Logger
}

func NewConversationReader(
	messages domain.MessageRepository,
	groupMessages domain.GroupMessageRepository,
	groups domain.GroupRepository,
	defaultPageSize, maxPageSize int,
	log zerolog.Logger,
) *ConversationReader {
	return &ConversationReader{
		messages:        messages,
		groupMessages:   groupMessages,
		groups:          groups,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		log:             log,
	}
}

// DirectHistoryPage is one page of a direct conversation, oldest message
// first, with HasMore signalling older pages past this one.
type DirectHistoryPage struct {
	Messages []*domain.DirectMessage `json:"messages"`
	HasMore  bool                    `json:"hasMore"`
}

// GetDirectHistory returns page N (1-based) of the conversation between the
// two users. Pages count back from the newest message; messages inside a
// page are ascending.
func (s *ConversationReader) GetDirectHistory(ctx context.Context, userID, peerID string, page, pageSize int) (*DirectHistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	total, err := s.messages.CountDirect(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.messages.QueryDirectPage(ctx, userID, peerID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	// The repo returns the page newest-first; flip to chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	if msgs == nil {
		msgs = []*domain.DirectMessage{}
	}

	return &DirectHistoryPage{
		Messages: msgs,
		HasMore:  page*pageSize < total,
	}, nil
}

// GetGroupHistory returns the full group history oldest-first. Only members
// may read it; the same rule that gates group sends gates the history.
func (s *ConversationReader) GetGroupHistory(ctx context.Context, userID, groupID string) ([]*domain.GroupMessage, error) {
	members, err := s.groups.MembersOf(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(members, userID) {
		return nil, domain.ErrForbidden
	}
	return s.groupMessages.ListForGroup(ctx, groupID)
}

// GroupsFor returns the groups the user belongs to, for the conversation
// list and for clients that want to open group rooms.
func (s *ConversationReader) GroupsFor(ctx context.Context, userID string) ([]*domain.Group, error) {
	return s.groups.GroupsOf(ctx, userID)
}

// MarkAsRead flags every unread message from senderID to recipientID as
// read. Read receipts are pulled, not pushed: no live event is emitted.
func (s *ConversationReader) MarkAsRead(ctx context.Context, senderID, recipientID string) error {
	if senderID == "" || recipientID == "" {
		return domain.ErrInvalidPayload
	}
	return s.messages.MarkRead(ctx, senderID, recipientID)
}

// DeleteDirectMessage hard-deletes by id; absent ids succeed.
func (s *ConversationReader) DeleteDirectMessage(ctx context.Context, id string) error {
	return s.messages.DeleteByID(ctx, id)
}

// DeleteGroupMessage hard-deletes a group message by id; absent ids succeed.
func (s *ConversationReader) DeleteGroupMessage(ctx context.Context, id string) error {
	return s.groupMessages.DeleteByID(ctx, id)
}
