package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Turn is one exchange unit inside a conversation's message document, in the
// shape the bot historically stored: an object with a single "information"
// envelope.
type Turn struct {
	Information TurnInfo `json:"information"`
}

type TurnInfo struct {
	// To is the raw recipient identifier, a phone number suffixed with the
	// messaging domain tag (e.g. "6281234567890@c.us").
	To        string `json:"to"`
	From      string `json:"from,omitempty"`
	Timestamp string `json:"timestamp"`
	FromMe    string `json:"fromMe"`
	Body      string `json:"body"`
}

// MessageRecord is one conversation: an ordered sequence of turns, oldest
// first. The last turn represents the conversation's most recent state.
type MessageRecord struct {
	ID    int64  `json:"id"`
	Turns []Turn `json:"message"`
}

// LastTurn returns the most recent turn, or false for a record with no
// content.
func (r MessageRecord) LastTurn() (Turn, bool) {
	if len(r.Turns) == 0 {
		return Turn{}, false
	}
	return r.Turns[len(r.Turns)-1], true
}

type MessageStore struct {
	db *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

// SelectAll decodes every message document application-side so callers can
// filter with plain predicates instead of database JSON expressions.
func (s *MessageStore) SelectAll(ctx context.Context) ([]MessageRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, message FROM messages ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var records []MessageRecord
	for rows.Next() {
		var (
			record MessageRecord
			doc    []byte
		)
		if err := rows.Scan(&record.ID, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan message record: %w", err)
		}
		if err := json.Unmarshal(doc, &record.Turns); err != nil {
			return nil, fmt.Errorf("failed to decode message record %d: %w", record.ID, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return records, nil
}

// CountNonEmpty counts conversations with at least one turn; records with an
// empty turn sequence carry no content and are excluded.
func (s *MessageStore) CountNonEmpty(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE jsonb_array_length(message) <> 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// AppendTurn appends a turn to the conversation whose first turn targets the
// given raw recipient identifier, creating the record on first contact.
func (s *MessageStore) AppendTurn(ctx context.Context, to string, turn Turn) error {
	encoded, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to encode turn: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM messages WHERE message->0->'information'->>'to' = $1", to).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		doc, err := json.Marshal([]Turn{turn})
		if err != nil {
			return fmt.Errorf("failed to encode message record: %w", err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO messages (message) VALUES ($1)", doc); err != nil {
			return fmt.Errorf("failed to insert message record: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up conversation: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE messages SET message = message || $2::jsonb WHERE id = $1", id, encoded); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}
