package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Contact is one row of the contacts table. Number is the phone number in
// canonical form without symbols and is the join key against message records;
// the schema does not enforce its uniqueness.
type Contact struct {
	ID     int64  `json:"id"`
	Server string `json:"server"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

type ContactStore struct {
	db *sql.DB
}

func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) FindAll(ctx context.Context) ([]Contact, error) {
	return s.find(ctx, "SELECT id, server, name, number FROM contacts ORDER BY id")
}

// FindByNumber matches the stored number exactly, without normalization.
// Duplicates are possible and all of them are returned.
func (s *ContactStore) FindByNumber(ctx context.Context, number string) ([]Contact, error) {
	return s.find(ctx, "SELECT id, server, name, number FROM contacts WHERE number = $1 ORDER BY id", number)
}

func (s *ContactStore) find(ctx context.Context, query string, args ...interface{}) ([]Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Server, &c.Name, &c.Number); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}

	return contacts, nil
}

// InsertMany inserts row by row and is deliberately not wrapped in a
// transaction; a mid-batch failure leaves the earlier rows in place.
func (s *ContactStore) InsertMany(ctx context.Context, contacts []Contact) error {
	for _, c := range contacts {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO contacts (server, name, number) VALUES ($1, $2, $3)",
			c.Server, c.Name, c.Number)
		if err != nil {
			return fmt.Errorf("failed to insert contact %s: %w", c.Number, err)
		}
	}
	return nil
}

func (s *ContactStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}
