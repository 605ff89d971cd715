package assistant

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ziadkadry99/streamly/internal/catalog"
	"github.com/ziadkadry99/streamly/internal/conversation"
	"github.com/ziadkadry99/streamly/internal/llm"
	"github.com/ziadkadry99/streamly/internal/usage"
)

// Recorder receives one exchange per handled utterance, failed ones included.
type Recorder interface {
	Record(ctx context.Context, e usage.Exchange) error
}

// Session owns one conversation. Utterances are handled one at a time.
type Session struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	phase     atomic.Int32
	state     *conversation.State
	responder *Responder
	doc       *catalog.Document
	recorder  Recorder
}

// NewSession seeds a conversation for the given persona. recorder may be nil.
func NewSession(id string, responder *Responder, doc *catalog.Document, persona conversation.Preamble, recorder Recorder) *Session {
	greeting := catalog.Greeting(doc, persona.Name, persona.Framework)
	return &Session{
		id:        id,
		createdAt: time.Now(),
		state:     conversation.Initialize(persona, greeting),
		responder: responder,
		doc:       doc,
		recorder:  recorder,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// State exposes the underlying conversation for read access.
func (s *Session) State() *conversation.State { return s.state }

// Phase reports what the session is doing right now.
func (s *Session) Phase() Phase {
	return Phase(s.phase.Load())
}

// Greeting returns the seed assistant message.
func (s *Session) Greeting() string {
	return s.state.Greeting()
}

// SubmitUtterance answers text and returns the display log afterwards. On a
// provider failure the returned log is unchanged from before the call and
// the error is a *llm.ProviderError.
func (s *Session) SubmitUtterance(ctx context.Context, text string) ([]conversation.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	reply, err := s.responder.handle(ctx, s.state, text, s.doc, s.setPhase)
	if errors.Is(err, ErrEmptyUtterance) {
		return s.state.DisplayLog(), err
	}
	s.record(ctx, reply, err, time.Since(start), Decide(Normalize(text)))

	if err != nil {
		slog.Warn("assistant: reply failed", "session", s.id, "error", err)
		return s.state.DisplayLog(), err
	}
	slog.Debug("assistant: reply", "session", s.id, "path", reply.Path, "model", reply.Model,
		"input_tokens", reply.InputTokens, "output_tokens", reply.OutputTokens)
	return s.state.DisplayLog(), nil
}

// DisplayTail returns the last n display turns; n <= 0 returns all of them.
func (s *Session) DisplayTail(n int) []conversation.Turn {
	return s.state.Tail(n)
}

// LatestUpdates summarizes the highlights without touching the conversation.
func (s *Session) LatestUpdates() string {
	return catalog.SummarizeHighlightsFor(s.doc, s.state.Framework())
}

func (s *Session) setPhase(p Phase) {
	s.phase.Store(int32(p))
}

func (s *Session) record(ctx context.Context, reply *Reply, err error, elapsed time.Duration, path Path) {
	if s.recorder == nil {
		return
	}

	e := usage.Exchange{
		SessionID: s.id,
		Path:      string(path),
		LatencyMS: elapsed.Milliseconds(),
	}
	if reply != nil {
		e.Provider = reply.Provider
		e.Model = reply.Model
		e.InputTokens = reply.InputTokens
		e.OutputTokens = reply.OutputTokens
		e.CostUSD = reply.CostUSD
	}
	if err != nil {
		e.Error = err.Error()
		var pe *llm.ProviderError
		if errors.As(err, &pe) {
			e.Provider = pe.Provider
		}
	}

	if rerr := s.recorder.Record(context.WithoutCancel(ctx), e); rerr != nil {
		slog.Warn("assistant: recording exchange", "session", s.id, "error", rerr)
	}
}
