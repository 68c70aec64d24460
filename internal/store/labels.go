package store

import (
	"context"
	"database/sql"
	"fmt"
)

// LabelStore only feeds the dashboard's pass-through counter; labels are
// managed by the CRM side of the system.
type LabelStore struct {
	db *sql.DB
}

func NewLabelStore(db *sql.DB) *LabelStore {
	return &LabelStore{db: db}
}

func (s *LabelStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM labels").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count labels: %w", err)
	}
	return count, nil
}
