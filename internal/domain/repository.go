package domain

import (
	"context"
	"time"
)

// UserRepository resolves user identities. Account creation and credential
// management live in the auth collaborator, not here.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// GroupRepository is the read-only membership directory. Membership mutation
// is an external concern; the core only computes join lists at connection
// time and authorizes group sends against it.
type GroupRepository interface {
	GroupsOf(ctx context.Context, userID string) ([]*Group, error)
	// MembersOf returns the member ids of a group, or ErrNotFound when the
	// group does not exist.
	MembersOf(ctx context.Context, groupID string) ([]string, error)
}

// MessageRepository persists direct messages. AppendDirect assigns the
// message id and the server timestamp, filling them in on the passed record.
type MessageRepository interface {
	AppendDirect(ctx context.Context, m *DirectMessage) error
	// QueryDirectPage returns one page of the conversation between userA and
	// userB, newest page first, messages inside the page in descending order.
	QueryDirectPage(ctx context.Context, userA, userB string, offset, limit int) ([]*DirectMessage, error)
	// QueryDirectBefore returns at most limit messages strictly older than
	// the cursor, ascending within the page.
	QueryDirectBefore(ctx context.Context, userA, userB string, before time.Time, limit int) ([]*DirectMessage, error)
	CountDirect(ctx context.Context, userA, userB string) (int, error)
	// MarkRead flips is_read on every unread message from senderID to
	// recipientID. Idempotent.
	MarkRead(ctx context.Context, senderID, recipientID string) error
	// DeleteByID hard-deletes; deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// GroupMessageRepository persists group messages.
type GroupMessageRepository interface {
	AppendGroup(ctx context.Context, m *GroupMessage) error
	// ListForGroup returns the full group history oldest-first, or
	// ErrNotFound when the group does not exist.
	ListForGroup(ctx context.Context, groupID string) ([]*GroupMessage, error)
	DeleteByID(ctx context.Context, id string) error
}
