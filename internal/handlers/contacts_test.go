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
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/contacts"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/store"
)

type fakeContactService struct {
	rows     []store.Contact
	inserted int
	queryErr error
	syncErr  error
	gotQuery string
}

func (f *fakeContactService) Sync(ctx context.Context) (int, error) {
	return f.inserted, f.syncErr
}

func (f *fakeContactService) Query(ctx context.Context, phoneNumber string) ([]store.Contact, error) {
	f.gotQuery = phoneNumber
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func newContactRouter(service ContactService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewContactHandler(service)
	router.GET("/v1/contacts", h.GetContacts)
	router.POST("/v1/contacts/init", h.InitContacts)
	return router
}

func TestGetContacts(t *testing.T) {
	t.Run("returns stored rows", func(t *testing.T) {
		service := &fakeContactService{rows: []store.Contact{
			{ID: 1, Server: "c.us", Name: "A", Number: "111"},
		}}
		router := newContactRouter(service)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/contacts", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			Contacts []store.Contact `json:"contacts"`
			Count    int             `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if body.Count != 1 || len(body.Contacts) != 1 {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("passes phoneNumber filter through", func(t *testing.T) {
		service := &fakeContactService{rows: []store.Contact{{Number: "111"}}}
		router := newContactRouter(service)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/contacts?phoneNumber=111", nil)
		router.ServeHTTP(w, req)

		if service.gotQuery != "111" {
			t.Errorf("service received filter %q, want %q", service.gotQuery, "111")
		}
	})

	t.Run("empty result is 404", func(t *testing.T) {
		router := newContactRouter(&fakeContactService{queryErr: contacts.ErrNoContacts})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/contacts?phoneNumber=999", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		router := newContactRouter(&fakeContactService{queryErr: errors.New("pq: connection refused")})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/contacts", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "connection refused") {
			t.Error("raw error text leaked into the response")
		}
	})
}

func TestInitContacts(t *testing.T) {
	t.Run("reports inserted count", func(t *testing.T) {
		router := newContactRouter(&fakeContactService{inserted: 7})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/contacts/init", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			Success  bool `json:"success"`
			Inserted int  `json:"inserted"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if !body.Success || body.Inserted != 7 {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("no contacts is 404", func(t *testing.T) {
		router := newContactRouter(&fakeContactService{syncErr: contacts.ErrNoContacts})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/contacts/init", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("upstream failure is a generic 500", func(t *testing.T) {
		router := newContactRouter(&fakeContactService{syncErr: errors.New("websocket closed")})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/contacts/init", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "websocket") {
			t.Error("raw error text leaked into the response")
		}
	})
}
