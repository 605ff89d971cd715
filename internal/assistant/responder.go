// Package assistant decides how each utterance is answered and owns the
// conversations that presentation layers drive.
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ziadkadry99/streamly/internal/catalog"
	"github.com/ziadkadry99/streamly/internal/conversation"
	"github.com/ziadkadry99/streamly/internal/llm"
	"github.com/ziadkadry99/streamly/internal/usage"
)

// LatestUpdatesKeyword routes an utterance to the local highlights summary.
const LatestUpdatesKeyword = "latest updates"

var (
	// ErrEmptyUtterance is returned for blank input. State is not touched.
	ErrEmptyUtterance = errors.New("utterance is empty")
	// ErrNoProvider is wrapped in a ProviderError when a delegated answer is
	// needed but no backend is configured.
	ErrNoProvider = errors.New("no completion provider configured")
)

// Path is the way a reply was produced.
type Path string

const (
	PathDirect    Path = usage.PathDirect
	PathDelegated Path = usage.PathDelegated
)

// Reply is a successfully produced assistant turn.
type Reply struct {
	Path         Path          `json:"path"`
	Content      string        `json:"content"`
	Provider     string        `json:"provider,omitempty"`
	Model        string        `json:"model,omitempty"`
	InputTokens  int           `json:"input_tokens,omitempty"`
	OutputTokens int           `json:"output_tokens,omitempty"`
	CostUSD      float64       `json:"cost_usd,omitempty"`
	Latency      time.Duration `json:"latency"`
}

// Options tune delegated answers.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// MaxContextTurns bounds the conversational turns sent to the provider.
	// Zero sends the whole instruction log.
	MaxContextTurns int
}

// Responder answers utterances against a conversation. It holds no
// per-conversation state and may be shared by every session.
type Responder struct {
	provider llm.Provider
	opts     Options
}

// NewResponder creates a Responder. A nil provider still serves direct
// answers; delegated ones fail with ErrNoProvider.
func NewResponder(provider llm.Provider, opts Options) *Responder {
	return &Responder{provider: provider, opts: opts}
}

// Provider returns the configured backend, which may be nil.
func (r *Responder) Provider() llm.Provider {
	return r.provider
}

// Normalize trims and lower-cases an utterance.
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

// Decide picks the answer path for a normalized utterance.
func Decide(normalized string) Path {
	if strings.Contains(normalized, LatestUpdatesKeyword) {
		return PathDirect
	}
	return PathDelegated
}

// Handle answers one utterance. The normalized question is appended to the
// instruction log before answering; the reply is appended only on success.
// Provider failures are returned as *llm.ProviderError.
func (r *Responder) Handle(ctx context.Context, state *conversation.State, utterance string, doc *catalog.Document) (*Reply, error) {
	return r.handle(ctx, state, utterance, doc, nil)
}

func (r *Responder) handle(ctx context.Context, state *conversation.State, utterance string, doc *catalog.Document, observe func(Phase)) (*Reply, error) {
	if observe == nil {
		observe = func(Phase) {}
	}
	defer observe(PhaseIdle)

	normalized := Normalize(utterance)
	if normalized == "" {
		return nil, ErrEmptyUtterance
	}

	observe(PhaseAwaitingDecision)
	state.AppendUser(normalized)

	var (
		reply *Reply
		err   error
	)
	switch Decide(normalized) {
	case PathDirect:
		observe(PhaseDirectAnswer)
		reply = &Reply{Path: PathDirect, Content: catalog.SummarizeHighlightsFor(doc, state.Framework())}
	default:
		observe(PhaseDelegatedAnswer)
		reply, err = r.delegate(ctx, state)
		if err != nil {
			return nil, err
		}
	}

	state.AppendAssistant(reply.Content)
	return reply, nil
}

func (r *Responder) delegate(ctx context.Context, state *conversation.State) (*Reply, error) {
	if r.provider == nil {
		return nil, &llm.ProviderError{Provider: "none", Err: ErrNoProvider}
	}

	window := state.Window(r.opts.MaxContextTurns)
	messages := make([]llm.Message, len(window))
	for i, t := range window {
		messages[i] = llm.Message{Role: llm.Role(t.Role), Content: t.Content}
	}

	start := time.Now()
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Model:       r.opts.Model,
		Messages:    messages,
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
	})
	if err != nil {
		return nil, llm.WrapError(r.provider.Name(), err)
	}

	reply := &Reply{
		Path:         PathDelegated,
		Content:      resp.Content,
		Provider:     r.provider.Name(),
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Latency:      time.Since(start),
	}
	if reply.Model == "" {
		reply.Model = r.opts.Model
	}
	if reply.InputTokens == 0 && reply.OutputTokens == 0 {
		for _, m := range messages {
			reply.InputTokens += llm.EstimateTokens(m.Content)
		}
		reply.OutputTokens = llm.EstimateTokens(resp.Content)
	}
	reply.CostUSD = llm.EstimateCost(reply.Model, reply.InputTokens, reply.OutputTokens)
	return reply, nil
}
