package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
	"github.com/rs/zerolog/log"
)

type ContactSource interface {
	FindAll(ctx context.Context) ([]store.Contact, error)
	Count(ctx context.Context) (int, error)
}

type MessageSource interface {
	SelectAll(ctx context.Context) ([]store.MessageRecord, error)
	CountNonEmpty(ctx context.Context) (int, error)
}

type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Snapshot is one conversation joined to its contact, projected down to the
// last turn. HasFollowUp carries the last turn's fromMe flag verbatim.
type Snapshot struct {
	HasFollowUp string        `json:"hasFollowUp"`
	Contact     store.Contact `json:"contact"`
	Message     store.Turn    `json:"message"`
}

// Summary is the full dashboard payload, recomputed from scratch on every
// request.
type Summary struct {
	TotalContact            int        `json:"totalContact"`
	TotalMessage            int        `json:"totalMessage"`
	TotalLabel              int        `json:"totalLabel"`
	TotalGroup              int        `json:"totalGroup"`
	TotalAllMessageToday    int        `json:"totalAllMessageToday"`
	TotalNewMessageToday    int        `json:"totalNewMessageToday"`
	TotalMessageTodayFromMe int        `json:"totalMessageTodayFromMe"`
	Last7Days               []Snapshot `json:"last7Days"`
	Morning                 []Snapshot `json:"morning"`
	Afternoon               []Snapshot `json:"afternoon"`
	Evening                 []Snapshot `json:"evening"`
}

// Engine computes the dashboard summary. All filtering operates on each
// conversation's last turn only: the dashboard answers "which conversations
// need attention right now", for which only the most recent exchange matters.
type Engine struct {
	contacts ContactSource
	messages MessageSource
	labels   Counter
	groups   Counter
	now      func() time.Time
}

func NewEngine(contacts ContactSource, messages MessageSource, labels, groups Counter) *Engine {
	return &Engine{
		contacts: contacts,
		messages: messages,
		labels:   labels,
		groups:   groups,
		now:      time.Now,
	}
}

// Compute aggregates counters and time-bucketed conversation snapshots.
// Any store error aborts the whole computation; there is no partial-result
// mode.
func (e *Engine) Compute(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		Last7Days: []Snapshot{},
		Morning:   []Snapshot{},
		Afternoon: []Snapshot{},
		Evening:   []Snapshot{},
	}

	var err error
	if summary.TotalContact, err = e.contacts.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	if summary.TotalMessage, err = e.messages.CountNonEmpty(ctx); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	if summary.TotalLabel, err = e.labels.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count labels: %w", err)
	}
	if summary.TotalGroup, err = e.groups.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count groups: %w", err)
	}

	records, err := e.messages.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	contacts, err := e.contacts.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	// First row wins on duplicate numbers so each record joins to exactly
	// one contact.
	byNumber := make(map[string]store.Contact, len(contacts))
	for _, c := range contacts {
		if _, ok := byNumber[c.Number]; !ok {
			byNumber[c.Number] = c
		}
	}

	now := e.now()

	for _, record := range records {
		last, ok := record.LastTurn()
		if !ok {
			continue
		}

		ts, err := ParseTurnTimestamp(last.Information.Timestamp)
		if err != nil {
			log.Warn().
				Int64("message_id", record.ID).
				Str("timestamp", last.Information.Timestamp).
				Err(err).
				Msg("Skipping record with unparsable last-turn timestamp")
			continue
		}

		if sameDate(ts, now) {
			summary.TotalAllMessageToday++
			switch last.Information.FromMe {
			case "false":
				summary.TotalNewMessageToday++
			case "true":
				summary.TotalMessageTodayFromMe++
			}
		}

		// Inner join: a record whose normalized phone has no matching
		// contact is dropped, not surfaced with a null contact.
		contact, ok := byNumber[NormalizePhone(last.Information.To)]
		if !ok {
			continue
		}

		snapshot := Snapshot{
			HasFollowUp: last.Information.FromMe,
			Contact:     contact,
			Message:     last,
		}

		if withinLastDays(ts, now, 7) {
			summary.Last7Days = append(summary.Last7Days, snapshot)
		}
		if sameDate(ts, now) {
			switch {
			case morningWindow.contains(ts):
				summary.Morning = append(summary.Morning, snapshot)
			case afternoonWindow.contains(ts):
				summary.Afternoon = append(summary.Afternoon, snapshot)
			case eveningWindow.contains(ts):
				summary.Evening = append(summary.Evening, snapshot)
			}
		}
	}

	return summary, nil
}
