package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/sharkescape/internal/store"
)

func setupHandler(t *testing.T, n int) (*SessionHandler, []*store.Session) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	var sessions []*store.Session
	for i := 0; i < n; i++ {
		s := &store.Session{Steering: "follow", ScreenWidth: 1280, ScreenHeight: 720}
		if err := st.Sessions().Create(s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		sessions = append(sessions, s)
	}
	return NewSessionHandler(st), sessions
}

func TestSessionHandler_List(t *testing.T) {
	h, _ := setupHandler(t, 3)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantLen  int
	}{
		{"default limit", "", http.StatusOK, 3},
		{"limit 2", "?limit=2", http.StatusOK, 2},
		{"large limit capped", "?limit=100000", http.StatusOK, 3},
		{"zero", "?limit=0", http.StatusBadRequest, 0},
		{"not a number", "?limit=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions"+tt.query, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp listSessionsResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(resp.Sessions) != tt.wantLen {
				t.Errorf("sessions = %d, want %d", len(resp.Sessions), tt.wantLen)
			}
		})
	}
}

func TestSessionHandler_ListEmpty(t *testing.T) {
	h, _ := setupHandler(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

	if body := rec.Body.String(); body != "{\"sessions\":[]}\n" {
		t.Errorf("body = %q, want an empty array", body)
	}
}

func TestSessionHandler_Get(t *testing.T) {
	h, sessions := setupHandler(t, 1)
	id := sessions[0].ID

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != id || resp.ScreenWidth != 1280 {
		t.Errorf("response = %+v", resp)
	}
	if resp.EndedAt != "" {
		t.Errorf("running session ended_at = %q, want empty", resp.EndedAt)
	}
}

func TestSessionHandler_Routes(t *testing.T) {
	h, sessions := setupHandler(t, 1)
	id := sessions[0].ID

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"unknown id", http.MethodGet, "/api/sessions/nope", http.StatusNotFound},
		{"windows of unknown id", http.MethodGet, "/api/sessions/nope/windows", http.StatusNotFound},
		{"windows", http.MethodGet, "/api/sessions/" + id + "/windows", http.StatusOK},
		{"unknown sub-resource", http.MethodGet, "/api/sessions/" + id + "/frames", http.StatusNotFound},
		{"post to list", http.MethodPost, "/api/sessions", http.StatusMethodNotAllowed},
		{"put to session", http.MethodPut, "/api/sessions/" + id, http.StatusMethodNotAllowed},
		{"delete unknown", http.MethodDelete, "/api/sessions/nope", http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/sessions/" + id, http.StatusNoContent},
		{"gone after delete", http.MethodGet, "/api/sessions/" + id, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantCode)
			}
		})
	}
}
