package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the messaging schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			avatar     TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS groups (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			avatar     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id  TEXT NOT NULL REFERENCES groups(id),
			user_id   TEXT NOT NULL REFERENCES users(id),
			joined_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (group_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS direct_messages (
			id            TEXT PRIMARY KEY,
			sender_id     TEXT NOT NULL,
			recipient_id  TEXT NOT NULL,
			content       TEXT NOT NULL,
			sender_name   TEXT NOT NULL DEFAULT '',
			sender_avatar TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			is_read       BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS group_messages (
			id            TEXT PRIMARY KEY,
			group_id      TEXT NOT NULL REFERENCES groups(id),
			sender_id     TEXT NOT NULL,
			sender_name   TEXT NOT NULL DEFAULT '',
			sender_avatar TEXT NOT NULL DEFAULT '',
			content       TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_dm_pair_created ON direct_messages(sender_id, recipient_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_dm_recipient_unread ON direct_messages(recipient_id, is_read);`,
		`CREATE INDEX IF NOT EXISTS idx_gm_group_created ON group_messages(group_id, created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
