package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(perMinute int) (*gin.Engine, *RateLimiter) {
		rl := NewRateLimiter(perMinute)
		router := gin.New()
		router.POST("/sync", rl.Limit(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router, rl
	}

	do := func(router *gin.Engine, ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.RemoteAddr = ip + ":1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("allows up to the per-minute budget", func(t *testing.T) {
		router, rl := newRouter(2)
		defer rl.Stop()

		if code := do(router, "10.0.0.1"); code != http.StatusOK {
			t.Errorf("first request = %d, want 200", code)
		}
		if code := do(router, "10.0.0.1"); code != http.StatusOK {
			t.Errorf("second request = %d, want 200", code)
		}
		if code := do(router, "10.0.0.1"); code != http.StatusTooManyRequests {
			t.Errorf("third request = %d, want 429", code)
		}
	})

	t.Run("budgets are per client IP", func(t *testing.T) {
		router, rl := newRouter(1)
		defer rl.Stop()

		if code := do(router, "10.0.0.1"); code != http.StatusOK {
			t.Errorf("first client = %d, want 200", code)
		}
		if code := do(router, "10.0.0.2"); code != http.StatusOK {
			t.Errorf("second client = %d, want 200", code)
		}
	})
}
