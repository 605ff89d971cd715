package conversation

import (
	"sync"

	"github.com/elliotchance/pie/v2"
)

// State holds one conversation: the instruction log sent to the model and
// the display log shown to the user. Both logs are append-only.
//
// A user turn enters the instruction log as soon as it is asked, but only
// reaches the display log together with its reply, so the display log never
// shows a question whose answer failed.
type State struct {
	mu sync.RWMutex

	instruction []Turn
	display     []Turn
	pending     *Turn
	preamble    int
	greeting    string
	framework   string
}

// Initialize seeds a new conversation with the system preamble followed by
// the assistant greeting. The display log starts empty.
func Initialize(p Preamble, greeting string) *State {
	system := p.SystemTurns()

	s := &State{
		instruction: make([]Turn, 0, len(system)+1),
		greeting:    greeting,
		framework:   p.Framework,
	}
	s.instruction = append(s.instruction, system...)
	s.instruction = append(s.instruction, Turn{Role: RoleAssistant, Content: greeting})
	s.preamble = len(s.instruction)

	return s
}

// Greeting returns the seed assistant turn.
func (s *State) Greeting() string {
	return s.greeting
}

// Framework returns the product the conversation is about.
func (s *State) Framework() string {
	return s.framework
}

// AppendUser records a question in the instruction log.
func (s *State) AppendUser(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{Role: RoleUser, Content: text}
	s.instruction = append(s.instruction, turn)
	s.pending = &turn
}

// AppendAssistant records a reply in both logs, first moving the question it
// answers into the display log.
func (s *State) AppendAssistant(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{Role: RoleAssistant, Content: text}
	s.instruction = append(s.instruction, turn)

	if s.pending != nil {
		s.display = append(s.display, *s.pending)
		s.pending = nil
	}
	s.display = append(s.display, turn)
}

// Tail returns the last n display turns in order. A non-positive n returns
// the whole display log.
func (s *State) Tail(n int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n >= len(s.display) {
		return clone(s.display)
	}
	return clone(s.display[len(s.display)-n:])
}

// DisplayLog returns a copy of the display log.
func (s *State) DisplayLog() []Turn {
	return s.Tail(0)
}

// InstructionLog returns a copy of the full instruction log.
func (s *State) InstructionLog() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.instruction)
}

// Conversational returns the instruction turns that follow the preamble and
// greeting, including a dangling unanswered question.
func (s *State) Conversational() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.instruction[s.preamble:])
}

// Window returns what is sent to the model. With maxTurns <= 0 it is the whole
// instruction log. Otherwise the system turns and greeting stay pinned and only
// the newest maxTurns conversational turns follow them. The log itself is not
// trimmed.
func (s *State) Window(maxTurns int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rest := s.instruction[s.preamble:]
	if maxTurns <= 0 || len(rest) <= maxTurns {
		return clone(s.instruction)
	}

	out := make([]Turn, 0, s.preamble+maxTurns)
	out = append(out, s.instruction[:s.preamble]...)
	out = append(out, rest[len(rest)-maxTurns:]...)
	return out
}

// SystemTurns returns only the system preamble.
func (s *State) SystemTurns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pie.Filter(s.instruction[:s.preamble], func(t Turn) bool {
		return t.Role == RoleSystem
	})
}

func clone(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
