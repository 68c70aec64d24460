package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// schema holds the dashboard tables. The whatsmeow session tables live in the
// same database and are managed by the sqlstore container.
const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id     SERIAL PRIMARY KEY,
	server TEXT NOT NULL,
	name   TEXT NOT NULL DEFAULT '',
	number TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id      SERIAL PRIMARY KEY,
	message JSONB NOT NULL DEFAULT '[]'::jsonb
);

CREATE TABLE IF NOT EXISTS labels (
	id    SERIAL PRIMARY KEY,
	name  TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS groups (
	id        SERIAL PRIMARY KEY,
	jid       TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

type Postgres struct {
	db        *sql.DB
	container *sqlstore.Container
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// The whatsmeow device store shares the connection pool.
	logger := waLog.Stdout("Database", "INFO", true)
	container := sqlstore.NewWithDB(db, "postgres", logger)

	if err := container.Upgrade(ctx); err != nil {
		return nil, fmt.Errorf("failed to run session store migrations: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to run dashboard migrations: %w", err)
	}

	log.Info().Msg("Database store initialized successfully")

	return &Postgres{
		db:        db,
		container: container,
	}, nil
}

func (p *Postgres) Container() *sqlstore.Container {
	return p.container
}

func (p *Postgres) DB() *sql.DB {
	return p.db
}

func (p *Postgres) Ping() error {
	return p.db.Ping()
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
