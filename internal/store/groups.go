package store

import (
	"context"
	"database/sql"
	"fmt"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

func (s *GroupStore) Insert(ctx context.Context, jid, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (jid, name) VALUES ($1, $2)", jid, name)
	if err != nil {
		return fmt.Errorf("failed to insert group %s: %w", jid, err)
	}
	return nil
}

func (s *GroupStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return count, nil
}
