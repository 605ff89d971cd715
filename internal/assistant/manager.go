package assistant

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ziadkadry99/streamly/internal/catalog"
	"github.com/ziadkadry99/streamly/internal/conversation"
)

// ErrSessionNotFound is returned for unknown or ended session ids.
var ErrSessionNotFound = errors.New("session not found")

// Manager creates and tracks sessions. Sessions never share state; only the
// responder and the read-only document are common.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	responder *Responder
	doc       *catalog.Document
	persona   conversation.Preamble
	recorder  Recorder
}

// NewManager creates a Manager. recorder may be nil.
func NewManager(responder *Responder, doc *catalog.Document, persona conversation.Preamble, recorder Recorder) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		responder: responder,
		doc:       doc,
		persona:   persona,
		recorder:  recorder,
	}
}

// Create starts a new session with a fresh id.
func (m *Manager) Create() *Session {
	s := NewSession(uuid.New().String(), m.responder, m.doc, m.persona, m.recorder)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End discards a session and its conversation.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LatestUpdates summarizes the highlights for the managed persona.
func (m *Manager) LatestUpdates() string {
	return catalog.SummarizeHighlightsFor(m.doc, m.persona.Framework)
}

// Framework returns the product the assistant answers about.
func (m *Manager) Framework() string {
	return m.persona.Framework
}

// Document returns the shared update document.
func (m *Manager) Document() *catalog.Document {
	return m.doc
}
