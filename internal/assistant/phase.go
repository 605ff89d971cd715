package assistant

// Phase is where a session is in handling an utterance.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseAwaitingDecision
	PhaseDirectAnswer
	PhaseDelegatedAnswer
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingDecision:
		return "awaiting_decision"
	case PhaseDirectAnswer:
		return "direct_answer"
	case PhaseDelegatedAnswer:
		return "delegated_answer"
	default:
		return "unknown"
	}
}
