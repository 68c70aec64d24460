package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/contacts"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/metrics"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
	"github.com/rs/zerolog/log"
)

type ContactService interface {
	Sync(ctx context.Context) (int, error)
	Query(ctx context.Context, phoneNumber string) ([]store.Contact, error)
}

type ContactHandler struct {
	service ContactService
}

func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// GetContacts lists stored contacts, filtered to an exact phone-number match
// when ?phoneNumber= is supplied.
func (h *ContactHandler) GetContacts(c *gin.Context) {
	requestID := c.GetString("request_id")
	phoneNumber := c.Query("phoneNumber")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	rows, err := h.service.Query(ctx, phoneNumber)
	if errors.Is(err, contacts.ErrNoContacts) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "not_found",
			"message":    "no contacts found",
			"request_id": requestID,
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to fetch contacts")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "contacts_fetch_failed",
			"message":    "failed to fetch contacts",
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts":   rows,
		"count":      len(rows),
		"request_id": requestID,
	})
}

// InitContacts pulls the chat client's contact snapshot and stores the
// individual contacts.
func (h *ContactHandler) InitContacts(c *gin.Context) {
	requestID := c.GetString("request_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	inserted, err := h.service.Sync(ctx)
	if errors.Is(err, contacts.ErrNoContacts) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "not_found",
			"message":    "no contacts found",
			"request_id": requestID,
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Contact sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "sync_failed",
			"message":    "failed to sync contacts",
			"request_id": requestID,
		})
		return
	}

	metrics.ContactsSynced.Add(float64(inserted))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"inserted":   inserted,
		"request_id": requestID,
	})
}
