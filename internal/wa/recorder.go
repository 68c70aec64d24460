package wa

import (
	"context"
	"strconv"
	"time"

	"github.com/rrzkmlnaa/whatsapp-api-1/internal/dashboard"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types/events"
)

// legacyUserSuffix is the domain tag stored on raw recipient identifiers.
const legacyUserSuffix = "@c.us"

type MessageRecorder interface {
	AppendTurn(ctx context.Context, to string, turn store.Turn) error
}

type GroupRecorder interface {
	Insert(ctx context.Context, jid, name string) error
}

// TurnRecorder persists conversation turns and joined groups from live
// WhatsApp events. The dashboard reads what it writes.
type TurnRecorder struct {
	messages MessageRecorder
	groups   GroupRecorder
	seen     *IdempotencyStore
}

func NewTurnRecorder(messages MessageRecorder, groups GroupRecorder, seen *IdempotencyStore) *TurnRecorder {
	return &TurnRecorder{
		messages: messages,
		groups:   groups,
		seen:     seen,
	}
}

func (r *TurnRecorder) HandleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		r.recordMessage(v)
	case *events.JoinedGroup:
		r.recordGroup(v)
	}
}

func (r *TurnRecorder) recordMessage(evt *events.Message) {
	info := evt.Info

	// Group chatter never feeds the conversation table; only individual
	// conversations appear on the dashboard.
	if info.IsGroup {
		return
	}

	body := extractText(evt.Message)
	if body == "" {
		return
	}

	if r.seen.Seen(info.ID) {
		log.Debug().
			Str("message_id", info.ID).
			Msg("Duplicate message event ignored")
		return
	}

	to := info.Chat.User + legacyUserSuffix

	turn := store.Turn{
		Information: store.TurnInfo{
			To:        to,
			From:      info.Sender.User + legacyUserSuffix,
			Timestamp: dashboard.FormatTurnTimestamp(info.Timestamp),
			FromMe:    strconv.FormatBool(info.IsFromMe),
			Body:      body,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.messages.AppendTurn(ctx, to, turn); err != nil {
		log.Error().
			Err(err).
			Str("message_id", info.ID).
			Str("chat", info.Chat.String()).
			Msg("Failed to record turn")
		return
	}

	log.Debug().
		Str("message_id", info.ID).
		Str("chat", info.Chat.String()).
		Bool("from_me", info.IsFromMe).
		Msg("Recorded conversation turn")
}

func (r *TurnRecorder) recordGroup(evt *events.JoinedGroup) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.groups.Insert(ctx, evt.JID.String(), evt.Name); err != nil {
		log.Error().
			Err(err).
			Str("group_jid", evt.JID.String()).
			Msg("Failed to record joined group")
		return
	}

	log.Info().
		Str("group_jid", evt.JID.String()).
		Str("name", evt.Name).
		Msg("Recorded joined group")
}

func extractText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if text := msg.GetConversation(); text != "" {
		return text
	}
	return msg.GetExtendedTextMessage().GetText()
}
