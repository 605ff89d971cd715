package assistant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/streamly/internal/llm"
	"github.com/ziadkadry99/streamly/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "message" or "latest"
	SessionID string `json:"session_id"` // empty starts a new session
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
}

func handleWebSocket(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("assistant: websocket upgrade", "error", err)
			return
		}
		defer conn.Close()

		// Sessions started on this connection end with it.
		var owned []string
		defer func() {
			for _, id := range owned {
				m.End(id)
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Warn("assistant: websocket read", "error", err)
				}
				return
			}

			var req chatRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendError(conn, "", "invalid message format")
				continue
			}

			switch req.Type {
			case "message":
				if id := handleChatMessage(conn, r, m, req); id != "" {
					owned = append(owned, id)
				}
			case "latest":
				content := m.LatestUpdates()
				sendResponse(conn, chatResponse{
					Type:      "response",
					SessionID: req.SessionID,
					Content:   content,
					HTML:      render.Fragment(content),
				})
			default:
				sendError(conn, req.SessionID, "unknown message type: "+req.Type)
			}
		}
	}
}

// handleChatMessage answers one message frame and returns the id of the
// session it created, if any.
func handleChatMessage(conn *websocket.Conn, r *http.Request, m *Manager, req chatRequest) string {
	if Normalize(req.Content) == "" {
		sendError(conn, req.SessionID, ErrEmptyUtterance.Error())
		return ""
	}

	var (
		s       *Session
		created string
		err     error
	)
	if req.SessionID == "" {
		s = m.Create()
		created = s.ID()
	} else if s, err = m.Get(req.SessionID); err != nil {
		sendError(conn, req.SessionID, err.Error())
		return ""
	}

	turns, err := s.SubmitUtterance(r.Context(), req.Content)
	if err != nil {
		msg := err.Error()
		var pe *llm.ProviderError
		if errors.As(err, &pe) {
			msg = pe.UserMessage()
		}
		sendError(conn, s.ID(), msg)
		return created
	}

	reply := turns[len(turns)-1].Content
	sendResponse(conn, chatResponse{
		Type:      "response",
		SessionID: s.ID(),
		Content:   reply,
		HTML:      render.Fragment(reply),
	})
	return created
}

func sendResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		slog.Warn("assistant: websocket write", "error", err)
	}
}

func sendError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		slog.Warn("assistant: websocket write error", "error", err)
	}
}
