package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/streamly/internal/llm/llmtest"
)

func setupServer(t *testing.T) (*httptest.Server, *llmtest.MockProvider, *Manager) {
	t.Helper()
	mock := llmtest.NewMockProvider("mock")
	m := NewManager(NewResponder(mock, Options{}), testDocument(t), testPersona, nil)

	r := chi.NewRouter()
	RegisterRoutes(r, m)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, mock, m
}

func createSession(t *testing.T, srv *httptest.Server) sessionView {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/sessions: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var view sessionView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return view
}

func submit(t *testing.T, srv *httptest.Server, id, content string) (int, messagesResponse) {
	t.Helper()
	body, _ := json.Marshal(submitRequest{Content: content})
	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST messages: %v", err)
	}
	defer resp.Body.Close()
	var out messagesResponse
	json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCreateSessionRoute(t *testing.T) {
	srv, _, m := setupServer(t)
	view := createSession(t, srv)

	if view.ID == "" || !strings.HasPrefix(view.Greeting, "Hello! I am Streamly.") {
		t.Errorf("unexpected session view: %+v", view)
	}
	if !strings.Contains(view.GreetingHTML, "<h3") {
		t.Errorf("greeting not rendered: %q", view.GreetingHTML)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", m.Len())
	}
}

func TestSubmitAndTailRoutes(t *testing.T) {
	srv, mock, _ := setupServer(t)
	id := createSession(t, srv).ID

	status, out := submit(t, srv, id, "How do I cache?")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(out.Messages) != 2 || out.Messages[1].Content != "mock response" {
		t.Errorf("unexpected messages: %+v", out.Messages)
	}
	if out.Phase != "idle" {
		t.Errorf("phase = %q", out.Phase)
	}

	submit(t, srv, id, "Latest updates")
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", mock.CallCount())
	}

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/messages?tail=2&format=html")
	if err != nil {
		t.Fatalf("GET messages: %v", err)
	}
	defer resp.Body.Close()
	var tail messagesResponse
	json.NewDecoder(resp.Body).Decode(&tail)
	if len(tail.Messages) != 2 {
		t.Fatalf("expected 2 tail messages, got %d", len(tail.Messages))
	}
	if tail.Messages[0].Content != "latest updates" {
		t.Errorf("tail[0] = %+v", tail.Messages[0])
	}
	if !strings.Contains(tail.Messages[1].HTML, "<strong>Version X</strong>") {
		t.Errorf("expected rendered HTML, got %q", tail.Messages[1].HTML)
	}
}

func TestSubmitProviderFailureRoute(t *testing.T) {
	srv, mock, _ := setupServer(t)
	id := createSession(t, srv).ID
	submit(t, srv, id, "first")

	mock.Fail(errors.New("rate limited"))
	status, out := submit(t, srv, id, "second")
	if status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", status)
	}
	if out.Error != "Provider error (mock): rate limited" {
		t.Errorf("error = %q", out.Error)
	}
	if len(out.Messages) != 2 {
		t.Errorf("expected unchanged display log of 2, got %d", len(out.Messages))
	}
}

func TestSubmitValidationRoutes(t *testing.T) {
	srv, _, _ := setupServer(t)
	id := createSession(t, srv).ID

	if status, _ := submit(t, srv, id, "   "); status != http.StatusBadRequest {
		t.Errorf("empty utterance: expected 400, got %d", status)
	}
	if status, _ := submit(t, srv, "missing", "hi"); status != http.StatusNotFound {
		t.Errorf("unknown session: expected 404, got %d", status)
	}

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/messages?tail=abc")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad tail: expected 400, got %d", resp.StatusCode)
	}
}

func TestEndSessionRoute(t *testing.T) {
	srv, _, m := setupServer(t)
	id := createSession(t, srv).ID

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if m.Len() != 0 {
		t.Error("session not discarded")
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func dialChat(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req chatRequest) chatResponse {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestWebSocketChat(t *testing.T) {
	srv, mock, m := setupServer(t)
	conn := dialChat(t, srv)

	first := roundTrip(t, conn, chatRequest{Type: "message", Content: "hello"})
	if first.Type != "response" || first.Content != "mock response" || first.SessionID == "" {
		t.Fatalf("unexpected response: %+v", first)
	}

	second := roundTrip(t, conn, chatRequest{Type: "message", SessionID: first.SessionID, Content: "the latest updates"})
	if second.SessionID != first.SessionID || !strings.HasPrefix(second.Content, "Here are the latest highlights from Streamlit:") {
		t.Errorf("unexpected response: %+v", second)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", mock.CallCount())
	}

	s, err := m.Get(first.SessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(s.DisplayTail(0)) != 4 {
		t.Errorf("expected 4 display turns, got %d", len(s.DisplayTail(0)))
	}
}

func TestWebSocketErrors(t *testing.T) {
	srv, mock, _ := setupServer(t)
	conn := dialChat(t, srv)

	latest := roundTrip(t, conn, chatRequest{Type: "latest"})
	if latest.Type != "response" || !strings.Contains(latest.HTML, "<li>") {
		t.Errorf("latest = %+v", latest)
	}

	unknown := roundTrip(t, conn, chatRequest{Type: "ask", Content: "x"})
	if unknown.Type != "error" {
		t.Errorf("expected error frame, got %+v", unknown)
	}

	missing := roundTrip(t, conn, chatRequest{Type: "message", SessionID: "nope", Content: "x"})
	if missing.Type != "error" || missing.Content != ErrSessionNotFound.Error() {
		t.Errorf("missing session = %+v", missing)
	}

	mock.Fail(errors.New("boom"))
	failed := roundTrip(t, conn, chatRequest{Type: "message", Content: "x"})
	if failed.Type != "error" || failed.Content != "Provider error (mock): boom" {
		t.Errorf("provider failure = %+v", failed)
	}
}

func TestWebSocketEndsOwnedSessions(t *testing.T) {
	srv, _, m := setupServer(t)
	kept := m.Create()

	for i := 0; i < 3; i++ {
		conn := dialChat(t, srv)
		if resp := roundTrip(t, conn, chatRequest{Type: "message", Content: "hello"}); resp.Type != "response" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		// Joining an existing session does not take ownership of it.
		roundTrip(t, conn, chatRequest{Type: "message", SessionID: kept.ID(), Content: "hello"})
		conn.Close()
	}

	conn := dialChat(t, srv)
	blank := roundTrip(t, conn, chatRequest{Type: "message", Content: "   "})
	if blank.Type != "error" || blank.Content != ErrEmptyUtterance.Error() || blank.SessionID != "" {
		t.Errorf("blank frame = %+v", blank)
	}
	if m.Len() > 4 {
		t.Errorf("blank frame created a session: %d live", m.Len())
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for m.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if m.Len() != 1 {
		t.Fatalf("expected only the REST-created session to survive, got %d live", m.Len())
	}
	if _, err := m.Get(kept.ID()); err != nil {
		t.Errorf("joined session was ended: %v", err)
	}
}
