package wa

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// idempotencyTTL is how long processed message IDs are remembered.
	idempotencyTTL = 24 * time.Hour
	// cleanupInterval is how often expired records are dropped.
	cleanupInterval = 1 * time.Hour
)

// IdempotencyStore remembers WhatsApp message IDs so redelivered events are
// recorded exactly once.
type IdempotencyStore struct {
	records      map[string]time.Time
	mu           sync.Mutex
	cleanupTimer *time.Ticker
	stopChan     chan struct{}
}

func NewIdempotencyStore() *IdempotencyStore {
	store := &IdempotencyStore{
		records:  make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}

	store.cleanupTimer = time.NewTicker(cleanupInterval)
	go store.cleanup()

	log.Info().Msg("Idempotency store initialized")

	return store
}

// Seen marks a message ID as processed and reports whether it had been seen
// before. An empty ID is never deduplicated.
func (is *IdempotencyStore) Seen(messageID string) bool {
	if messageID == "" {
		return false
	}

	is.mu.Lock()
	defer is.mu.Unlock()

	if _, exists := is.records[messageID]; exists {
		return true
	}

	is.records[messageID] = time.Now()
	return false
}

func (is *IdempotencyStore) cleanup() {
	for {
		select {
		case <-is.cleanupTimer.C:
			is.performCleanup()
		case <-is.stopChan:
			is.cleanupTimer.Stop()
			return
		}
	}
}

func (is *IdempotencyStore) performCleanup() {
	is.mu.Lock()
	defer is.mu.Unlock()

	threshold := time.Now().Add(-idempotencyTTL)
	cleaned := 0

	for id, seenAt := range is.records {
		if seenAt.Before(threshold) {
			delete(is.records, id)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Info().
			Int("cleaned", cleaned).
			Int("remaining", len(is.records)).
			Msg("Idempotency store cleanup completed")
	}
}

func (is *IdempotencyStore) Stop() {
	close(is.stopChan)
}
