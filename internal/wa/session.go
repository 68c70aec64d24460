package wa

import (
	"context"
	"fmt"

	"github.com/rrzkmlnaa/whatsapp-api-1/internal/contacts"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// Session wraps the single whatsmeow client this service runs: the bot's own
// WhatsApp account. Device credentials persist in the shared Postgres
// database via the sqlstore container.
type Session struct {
	client   *whatsmeow.Client
	recorder *TurnRecorder
}

func NewSession(ctx context.Context, db *store.Postgres, recorder *TurnRecorder) (*Session, error) {
	device, err := db.Container().GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	logger := waLog.Stdout("Client", "INFO", true)
	client := whatsmeow.NewClient(device, logger)

	s := &Session{
		client:   client,
		recorder: recorder,
	}
	client.AddEventHandler(s.handleEvent)

	return s, nil
}

// Connect establishes the WhatsApp connection. An unpaired device logs QR
// codes for scanning instead of failing.
func (s *Session) Connect(ctx context.Context) error {
	if s.client.Store.ID == nil {
		qrChan, err := s.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("failed to get QR channel: %w", err)
		}
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}

		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					log.Info().Str("code", evt.Code).Msg("Scan QR code to pair WhatsApp session")
				} else {
					log.Info().Str("event", evt.Event).Msg("QR channel event")
				}
			}
		}()
		return nil
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

func (s *Session) Disconnect() {
	s.client.Disconnect()
	log.Info().Msg("WhatsApp session disconnected")
}

func (s *Session) IsConnected() bool {
	return s.client.IsConnected()
}

func (s *Session) IsLoggedIn() bool {
	return s.client.IsLoggedIn()
}

func (s *Session) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		log.Info().Msg("WhatsApp session connected")
	case *events.Disconnected:
		log.Warn().Msg("WhatsApp session disconnected")
	case *events.LoggedOut:
		log.Warn().Str("reason", v.Reason.String()).Msg("WhatsApp session logged out")
	case *events.StreamReplaced:
		log.Warn().Msg("WhatsApp stream replaced (logged in from another device)")
	case *events.PairSuccess:
		log.Info().Str("jid", v.ID.String()).Msg("WhatsApp pairing successful")
	default:
		s.recorder.HandleEvent(evt)
	}
}

// GetContacts snapshots the session's contact list in the shape the sync
// service expects, with JID servers mapped to the legacy WhatsApp-Web tags
// the contact table stores.
func (s *Session) GetContacts(ctx context.Context) ([]contacts.ChatContact, error) {
	all, err := s.client.Store.Contacts.GetAllContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session contacts: %w", err)
	}

	snapshot := make([]contacts.ChatContact, 0, len(all))
	for jid, info := range all {
		name := info.FullName
		if name == "" {
			name = info.PushName
		}
		snapshot = append(snapshot, contacts.ChatContact{
			Server: legacyServerTag(jid.Server),
			Name:   name,
			Number: jid.User,
		})
	}

	return snapshot, nil
}

func legacyServerTag(server string) string {
	switch server {
	case types.DefaultUserServer:
		return "c.us"
	case types.GroupServer:
		return "g.us"
	default:
		return server
	}
}
