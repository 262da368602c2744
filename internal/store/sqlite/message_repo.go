package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

const directMessageColumns = `id, sender_id, recipient_id, content, sender_name, sender_avatar, created_at, is_read`

// AppendDirect assigns the id and server timestamp before inserting, so the
// caller gets back the authoritative record without a re-query.
func (r *MessageRepo) AppendDirect(ctx context.Context, m *domain.DirectMessage) error {
	m.ID = uuid.NewString()
	m.Timestamp = time.Now().UTC()
	m.Read = false

	query := `
		INSERT INTO direct_messages (` + directMessageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`
	if _, err := r.db.ExecContext(ctx, query,
		m.ID, m.SenderID, m.RecipientID, m.Content, m.SenderName, m.SenderAvatar, m.Timestamp,
	); err != nil {
		return fmt.Errorf("insert direct message: %w", err)
	}
	return nil
}

func (r *MessageRepo) QueryDirectPage(ctx context.Context, userA, userB string, offset, limit int) ([]*domain.DirectMessage, error) {
	query := `
		SELECT ` + directMessageColumns + `
		FROM direct_messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, userA, userB, userB, userA, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query direct page: %w", err)
	}
	return scanDirectMessages(rows)
}

func (r *MessageRepo) QueryDirectBefore(ctx context.Context, userA, userB string, before time.Time, limit int) ([]*domain.DirectMessage, error) {
	query := `
		SELECT ` + directMessageColumns + `
		FROM direct_messages
		WHERE ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))
		  AND created_at < ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, userA, userB, userB, userA, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query direct before: %w", err)
	}
	msgs, err := scanDirectMessages(rows)
	if err != nil {
		return nil, err
	}
	// The page is selected newest-first; callers expect ascending order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *MessageRepo) CountDirect(ctx context.Context, userA, userB string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM direct_messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
	`, userA, userB, userB, userA).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count direct messages: %w", err)
	}
	return count, nil
}

func (r *MessageRepo) MarkRead(ctx context.Context, senderID, recipientID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE direct_messages SET is_read = 1
		WHERE sender_id = ? AND recipient_id = ? AND is_read = 0
	`, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *MessageRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM direct_messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete direct message: %w", err)
	}
	return nil
}

func scanDirectMessages(rows *sql.Rows) ([]*domain.DirectMessage, error) {
	defer rows.Close()

	var res []*domain.DirectMessage
	for rows.Next() {
		m := &domain.DirectMessage{}
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.RecipientID, &m.Content,
			&m.SenderName, &m.SenderAvatar, &m.Timestamp, &m.Read,
		); err != nil {
			return nil, fmt.Errorf("scan direct message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
