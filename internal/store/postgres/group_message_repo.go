package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/domain"
)

type GroupMessageRepo struct {
	db *sql.DB
}

func NewGroupMessageRepo(db *sql.DB) *GroupMessageRepo {
	return &GroupMessageRepo{db: db}
}

var _ domain.GroupMessageRepository = (*GroupMessageRepo)(nil)

func (r *GroupMessageRepo) AppendGroup(ctx context.Context, m *domain.GroupMessage) error {
	m.ID = uuid.NewString()
	m.Timestamp = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO group_messages (id, group_id, sender_id, sender_name, sender_avatar, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.GroupID, m.SenderID, m.SenderName, m.SenderAvatar, m.Content, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert group message: %w", err)
	}
	return nil
}

func (r *GroupMessageRepo) ListForGroup(ctx context.Context, groupID string) ([]*domain.GroupMessage, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check group: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, group_id, sender_id, sender_name, sender_avatar, content, created_at
		FROM group_messages
		WHERE group_id = $1
		ORDER BY created_at ASC, id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.GroupMessage
	for rows.Next() {
		m := &domain.GroupMessage{}
		if err := rows.Scan(
			&m.ID, &m.GroupID, &m.SenderID, &m.SenderName, &m.SenderAvatar, &m.Content, &m.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan group message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *GroupMessageRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM group_messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete group message: %w", err)
	}
	return nil
}
