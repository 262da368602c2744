package store

import (
	"database/sql"
	"fmt"

	"interviewhub/internal/config"
	"interviewhub/internal/domain"
	"interviewhub/internal/store/postgres"
	"interviewhub/internal/store/sqlite"
)

// Repositories bundles the persistence interfaces the rest of the
// application depends on.
type Repositories struct {
	Users         domain.UserRepository
	Groups        domain.GroupRepository
	Messages      domain.MessageRepository
	GroupMessages domain.GroupMessageRepository
}

// Open connects to the configured backend, runs migrations and returns the
// repository set. The caller owns the *sql.DB.
func Open(cfg *config.Config) (*sql.DB, *Repositories, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresURL())
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, &Repositories{
			Users:         postgres.NewUserRepo(db),
			Groups:        postgres.NewGroupRepo(db),
			Messages:      postgres.NewMessageRepo(db),
			GroupMessages: postgres.NewGroupMessageRepo(db),
		}, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, &Repositories{
			Users:         sqlite.NewUserRepo(db),
			Groups:        sqlite.NewGroupRepo(db),
			Messages:      sqlite.NewMessageRepo(db),
			GroupMessages: sqlite.NewGroupMessageRepo(db),
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}
