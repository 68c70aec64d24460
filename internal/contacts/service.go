// Package contacts synchronizes the contact table from the live WhatsApp
// session and answers contact lookups.
package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
	"github.com/rs/zerolog/log"
)

// ServerIndividual is the connection-type tag of an individual contact in
// the legacy WhatsApp-Web form; group and broadcast entries carry other tags
// and are never stored.
const ServerIndividual = "c.us"

// ErrNoContacts signals an empty result: nothing known to the chat client
// (or nothing left after filtering), or a lookup with zero rows.
var ErrNoContacts = errors.New("no contacts found")

// ChatContact is one entry of the chat client's contact snapshot.
type ChatContact struct {
	Server string
	Name   string
	Number string
}

type ChatClient interface {
	GetContacts(ctx context.Context) ([]ChatContact, error)
}

type ContactStore interface {
	FindAll(ctx context.Context) ([]store.Contact, error)
	FindByNumber(ctx context.Context, number string) ([]store.Contact, error)
	InsertMany(ctx context.Context, contacts []store.Contact) error
}

type Service struct {
	chat  ChatClient
	store ContactStore
}

func NewService(chat ChatClient, contactStore ContactStore) *Service {
	return &Service{chat: chat, store: contactStore}
}

// Sync pulls the chat client's contact snapshot, keeps individual contacts
// only and bulk-inserts them. The insert is not transactional; a mid-batch
// failure leaves a partial set behind. Returns the number of rows inserted.
func (s *Service) Sync(ctx context.Context) (int, error) {
	snapshot, err := s.chat.GetContacts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch contacts from chat client: %w", err)
	}

	var filtered []store.Contact
	for _, c := range snapshot {
		if c.Server != ServerIndividual {
			continue
		}
		filtered = append(filtered, store.Contact{
			Server: c.Server,
			Name:   c.Name,
			Number: c.Number,
		})
	}

	if len(filtered) == 0 {
		return 0, ErrNoContacts
	}

	if err := s.store.InsertMany(ctx, filtered); err != nil {
		return 0, fmt.Errorf("failed to insert contacts: %w", err)
	}

	log.Info().
		Int("fetched", len(snapshot)).
		Int("inserted", len(filtered)).
		Msg("Contact sync completed")

	return len(filtered), nil
}

// Query returns stored contacts, filtered by exact number match when
// phoneNumber is non-empty. An empty result yields ErrNoContacts.
func (s *Service) Query(ctx context.Context, phoneNumber string) ([]store.Contact, error) {
	var (
		rows []store.Contact
		err  error
	)
	if phoneNumber != "" {
		rows, err = s.store.FindByNumber(ctx, phoneNumber)
	} else {
		rows, err = s.store.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrNoContacts
	}

	return rows, nil
}
