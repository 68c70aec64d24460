package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/dashboard"
)

type fakeEngine struct {
	summary *dashboard.Summary
	err     error
}

func (f *fakeEngine) Compute(ctx context.Context) (*dashboard.Summary, error) {
	return f.summary, f.err
}

func newDashboardRouter(engine DashboardComputer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/dashboard", NewDashboardHandler(engine).GetDashboard)
	return router
}

func TestGetDashboard(t *testing.T) {
	t.Run("returns the summary as the response body", func(t *testing.T) {
		engine := &fakeEngine{summary: &dashboard.Summary{
			TotalContact:         4,
			TotalMessage:         9,
			TotalAllMessageToday: 2,
			Last7Days:            []dashboard.Snapshot{},
			Morning:              []dashboard.Snapshot{},
			Afternoon:            []dashboard.Snapshot{},
			Evening:              []dashboard.Snapshot{},
		}}
		router := newDashboardRouter(engine)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body map[string]json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}

		for _, field := range []string{
			"totalContact", "totalMessage", "totalLabel", "totalGroup",
			"totalAllMessageToday", "totalNewMessageToday", "totalMessageTodayFromMe",
			"last7Days", "morning", "afternoon", "evening",
		} {
			if _, ok := body[field]; !ok {
				t.Errorf("response is missing field %q", field)
			}
		}

		if string(body["morning"]) != "[]" {
			t.Errorf("empty bucket encoded as %s, want []", body["morning"])
		}
	})

	t.Run("aggregation failure is a generic 500", func(t *testing.T) {
		router := newDashboardRouter(&fakeEngine{err: errors.New("pq: relation messages does not exist")})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "relation") {
			t.Error("raw error text leaked into the response")
		}
	})
}
