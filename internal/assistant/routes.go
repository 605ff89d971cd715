package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/streamly/internal/conversation"
	"github.com/ziadkadry99/streamly/internal/llm"
	"github.com/ziadkadry99/streamly/internal/render"
)

// RegisterRoutes mounts session endpoints under /api/sessions and the chat
// socket at /ws/chat.
func RegisterRoutes(r chi.Router, m *Manager) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreate(m))
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", handleEnd(m))
			r.Get("/messages", handleMessages(m))
			r.Post("/messages", handleSubmit(m))
		})
	})
	r.Get("/ws/chat", handleWebSocket(m))
}

type sessionView struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Greeting     string    `json:"greeting"`
	GreetingHTML string    `json:"greeting_html"`
}

type messageView struct {
	Role    conversation.Role `json:"role"`
	Content string            `json:"content"`
	HTML    string            `json:"html,omitempty"`
}

type messagesResponse struct {
	SessionID string        `json:"session_id"`
	Phase     string        `json:"phase"`
	Messages  []messageView `json:"messages"`
	Error     string        `json:"error,omitempty"`
}

type submitRequest struct {
	Content string `json:"content"`
}

func handleCreate(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := m.Create()
		writeJSON(w, http.StatusCreated, sessionView{
			ID:           s.ID(),
			CreatedAt:    s.CreatedAt(),
			Greeting:     s.Greeting(),
			GreetingHTML: render.Fragment(s.Greeting()),
		})
	}
}

func handleEnd(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.End(chi.URLParam(r, "id")); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleMessages(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		tail := 0
		if v := r.URL.Query().Get("tail"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "tail must be an integer")
				return
			}
			tail = n
		}
		withHTML := r.URL.Query().Get("format") == "html"

		writeJSON(w, http.StatusOK, messagesResponse{
			SessionID: s.ID(),
			Phase:     s.Phase().String(),
			Messages:  views(s.DisplayTail(tail), withHTML),
		})
	}
}

func handleSubmit(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		withHTML := r.URL.Query().Get("format") == "html"

		turns, err := s.SubmitUtterance(r.Context(), req.Content)
		resp := messagesResponse{
			SessionID: s.ID(),
			Phase:     s.Phase().String(),
			Messages:  views(turns, withHTML),
		}

		var pe *llm.ProviderError
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, resp)
		case errors.Is(err, ErrEmptyUtterance):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &pe):
			resp.Error = pe.UserMessage()
			writeJSON(w, http.StatusBadGateway, resp)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func views(turns []conversation.Turn, withHTML bool) []messageView {
	out := make([]messageView, len(turns))
	for i, t := range turns {
		out[i] = messageView{Role: t.Role, Content: t.Content}
		if withHTML {
			out[i].HTML = render.Fragment(t.Content)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
