package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ziadkadry99/streamly/internal/assistant"
	"github.com/ziadkadry99/streamly/internal/catalog"
	"github.com/ziadkadry99/streamly/internal/conversation"
	"github.com/ziadkadry99/streamly/internal/db"
	"github.com/ziadkadry99/streamly/internal/llm/llmtest"
	"github.com/ziadkadry99/streamly/internal/usage"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := usage.NewStore(database)

	doc := catalog.Load("../../data/streamlit_updates.json")
	responder := assistant.NewResponder(llmtest.NewMockProvider("mock"), assistant.Options{})
	manager := assistant.NewManager(responder, doc, conversation.Preamble{Name: "Streamly", Framework: "Streamlit"}, store)
	return New(cfg, manager, store)
}

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0}, nil, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true}, nil, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestRoutesMounted(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/updates/search?q=toggle", nil))
	if w.Code != http.StatusOK {
		t.Errorf("updates search: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/updates/latest", nil))
	if !strings.Contains(w.Body.String(), "Here are the latest highlights from Streamlit:") {
		t.Errorf("updates latest: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", w.Code)
	}
	var sess struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &sess)

	body, _ := json.Marshal(map[string]string{"content": "what's new?"})
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+sess.ID+"/messages", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/usage", nil))
	var sum usage.Summary
	json.Unmarshal(w.Body.Bytes(), &sum)
	if w.Code != http.StatusOK || sum.Exchanges != 1 {
		t.Errorf("usage: status %d, summary %+v", w.Code, sum)
	}
}
