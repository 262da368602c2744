package domain

import "time"

// User is the identity the core receives from the auth collaborator. The core
// never mutates it; it is a lookup key plus display fields.
type User struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Avatar     string    `db:"avatar" json:"avatar"`
	Department string    `db:"department" json:"department,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Group is a chat room whose membership is managed outside the messaging core
// (registration assigns users to their department's group).
type Group struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Avatar    string    `db:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DirectMessage is a one-to-one persisted chat record. ID and Timestamp are
// assigned by the store at append time; Read flips false->true exactly once
// when the recipient acknowledges.
type DirectMessage struct {
	ID           string    `db:"id" json:"id"`
	SenderID     string    `db:"sender_id" json:"senderId"`
	RecipientID  string    `db:"recipient_id" json:"recipientId"`
	Content      string    `db:"content" json:"content"`
	SenderName   string    `db:"sender_name" json:"senderName"`
	SenderAvatar string    `db:"sender_avatar" json:"senderAvatar,omitempty"`
	Timestamp    time.Time `db:"created_at" json:"timestamp"`
	Read         bool      `db:"is_read" json:"read"`
}

// GroupMessage is a persisted chat record broadcast to all members of a group.
// Group reads are not tracked per recipient.
type GroupMessage struct {
	ID           string    `db:"id" json:"id"`
	GroupID      string    `db:"group_id" json:"groupId"`
	SenderID     string    `db:"sender_id" json:"senderId"`
	SenderName   string    `db:"sender_name" json:"senderName"`
	SenderAvatar string    `db:"sender_avatar" json:"senderAvatar,omitempty"`
	Content      string    `db:"content" json:"content"`
	Timestamp    time.Time `db:"created_at" json:"timestamp"`
}
