package sqlite

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

	query := `
		INSERT INTO group_messages (id, group_id, sender_id, sender_name, sender_avatar, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		m.ID, m.GroupID, m.SenderID, m.SenderName, m.SenderAvatar, m.Content, m.Timestamp,
	); err != nil {
		return fmt.Errorf("insert group message: %w", err)
	}
	return nil
}

func (r *GroupMessageRepo) ListForGroup(ctx context.Context, groupID string) ([]*domain.GroupMessage, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups WHERE id = ?`, groupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check group: %w", err)
	}
	if exists == 0 {
		return nil, domain.ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, group_id, sender_id, sender_name, sender_avatar, content, created_at
		FROM group_messages
		WHERE group_id = ?
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
	if _, err := r.db.ExecContext(ctx, `DELETE FROM group_messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete group message: %w", err)
	}
	return nil
}
