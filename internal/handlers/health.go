package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/wa"
)

func HealthCheck(dbStore *store.Postgres) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := dbStore.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	}
}

func ReadinessCheck(session *wa.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"connected": session.IsConnected(),
			"logged_in": session.IsLoggedIn(),
		})
	}
}
