package wire

import (
	"context"
	"fmt"

	pgdb "github.com/alanyang/mission-control/internal/adapter/postgres"
	pgactivity "github.com/alanyang/mission-control/internal/adapter/postgres/activity"
	pgagent "github.com/alanyang/mission-control/internal/adapter/postgres/agent"
	pgdocument "github.com/alanyang/mission-control/internal/adapter/postgres/document"
	pgmessage "github.com/alanyang/mission-control/internal/adapter/postgres/message"
	pgnotification "github.com/alanyang/mission-control/internal/adapter/postgres/notification"
	pgtask "github.com/alanyang/mission-control/internal/adapter/postgres/task"
	pguser "github.com/alanyang/mission-control/internal/adapter/postgres/user"
	sqlitedb "github.com/alanyang/mission-control/internal/adapter/sqlite"
	sqliteactivity "github.com/alanyang/mission-control/internal/adapter/sqlite/activity"
	sqliteagent "github.com/alanyang/mission-control/internal/adapter/sqlite/agent"
	sqlitedocument "github.com/alanyang/mission-control/internal/adapter/sqlite/document"
	sqlitemessage "github.com/alanyang/mission-control/internal/adapter/sqlite/message"
	sqlitenotification "github.com/alanyang/mission-control/internal/adapter/sqlite/notification"
	sqlitetask "github.com/alanyang/mission-control/internal/adapter/sqlite/task"
	sqliteuser "github.com/alanyang/mission-control/internal/adapter/sqlite/user"
	"github.com/alanyang/mission-control/internal/config"
	portactivity "github.com/alanyang/mission-control/internal/port/activity"
	portagent "github.com/alanyang/mission-control/internal/port/agent"
	portdocument "github.com/alanyang/mission-control/internal/port/document"
	portmessage "github.com/alanyang/mission-control/internal/port/message"
	portnotification "github.com/alanyang/mission-control/internal/port/notification"
	porttask "github.com/alanyang/mission-control/internal/port/task"
	portuser "github.com/alanyang/mission-control/internal/port/user"
)

// Store is an open database handle together with every repository built on
// it. The caller owns it and must Close it.
type Store struct {
	Tasks         porttask.Repository
	Agents        portagent.Repository
	Messages      portmessage.Repository
	Activities    portactivity.Repository
	Notifications portnotification.Repository
	Documents     portdocument.Repository
	Users         portuser.Repository

	close func()
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects to the configured driver and applies its schema.
func OpenStore(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlitedb.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return &Store{
			Tasks:         sqlitetask.New(db),
			Agents:        sqliteagent.New(db),
			Messages:      sqlitemessage.New(db),
			Activities:    sqliteactivity.New(db),
			Notifications: sqlitenotification.New(db),
			Documents:     sqlitedocument.New(db),
			Users:         sqliteuser.New(db),
			close:         func() { _ = db.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		return &Store{
			Tasks:         pgtask.New(pool),
			Agents:        pgagent.New(pool),
			Messages:      pgmessage.New(pool),
			Activities:    pgactivity.New(pool),
			Notifications: pgnotification.New(pool),
			Documents:     pgdocument.New(pool),
			Users:         pguser.New(pool),
			close:         pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown db_driver %q", cfg.DBDriver)
	}
}
