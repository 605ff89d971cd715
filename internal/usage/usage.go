// Package usage keeps a ledger of handled turns: which answer path was
// taken, what the provider charged, and whether the call failed. Turn
// content is never stored.
package usage

import "time"

// Answer paths recorded for an exchange.
const (
	PathDirect    = "direct"
	PathDelegated = "delegated"
)

// Exchange is one handled utterance.
type Exchange struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	Path         string    `json:"path"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	LatencyMS    int64     `json:"latency_ms"`
	Error        string    `json:"error,omitempty"`
}

// Failed reports whether the provider call behind the exchange failed.
func (e Exchange) Failed() bool {
	return e.Error != ""
}

// Summary aggregates the ledger.
type Summary struct {
	Exchanges    int     `json:"exchanges"`
	Direct       int     `json:"direct"`
	Delegated    int     `json:"delegated"`
	Failed       int     `json:"failed"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// QueryFilter controls which exchanges are returned by Recent.
type QueryFilter struct {
	SessionID string
	Path      string
	Limit     int
}
