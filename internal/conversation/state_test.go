package conversation

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func testPreamble() Preamble {
	return Preamble{Name: "Streamly", Framework: "Streamlit", Version: "1.28"}
}

func TestInitializeSeedsInstructionLogOnly(t *testing.T) {
	s := Initialize(testPreamble(), "Hello!")

	log := s.InstructionLog()
	if len(log) != 5 {
		t.Fatalf("expected 4 system turns + greeting, got %d", len(log))
	}
	for i, turn := range log[:4] {
		if turn.Role != RoleSystem {
			t.Errorf("turn %d: expected system role, got %q", i, turn.Role)
		}
	}
	if last := log[4]; last.Role != RoleAssistant || last.Content != "Hello!" {
		t.Errorf("expected greeting last, got %+v", last)
	}
	if s.Framework() != "Streamlit" {
		t.Errorf("Framework = %q", s.Framework())
	}
	if !strings.Contains(log[0].Content, "Streamly") || !strings.Contains(log[0].Content, "1.28") {
		t.Errorf("persona turn = %q", log[0].Content)
	}

	if n := len(s.DisplayLog()); n != 0 {
		t.Errorf("display log should start empty, has %d turns", n)
	}
	if s.Greeting() != "Hello!" {
		t.Errorf("Greeting = %q", s.Greeting())
	}
}

func TestKnowledgeCutoffAddsSystemTurn(t *testing.T) {
	p := testPreamble()
	p.KnowledgeCutoff = "October 2023"

	s := Initialize(p, "hi")
	system := s.SystemTurns()
	if len(system) != 5 {
		t.Fatalf("expected 5 system turns, got %d", len(system))
	}
	if !strings.Contains(system[4].Content, "October 2023") {
		t.Errorf("cutoff turn = %q", system[4].Content)
	}
}

func TestAppendUserDoesNotTouchDisplayLog(t *testing.T) {
	s := Initialize(testPreamble(), "hi")
	s.AppendUser("question")

	if n := len(s.DisplayLog()); n != 0 {
		t.Errorf("display log should be empty until a reply, has %d", n)
	}
	conv := s.Conversational()
	if len(conv) != 1 || conv[0] != (Turn{Role: RoleUser, Content: "question"}) {
		t.Errorf("conversational = %+v", conv)
	}
}

func TestAppendAssistantPairsWithQuestion(t *testing.T) {
	s := Initialize(testPreamble(), "hi")

	const n = 4
	for i := 0; i < n; i++ {
		s.AppendUser(fmt.Sprintf("q%d", i))
		s.AppendAssistant(fmt.Sprintf("a%d", i))
	}

	display := s.DisplayLog()
	if len(display) != 2*n {
		t.Fatalf("expected %d display turns, got %d", 2*n, len(display))
	}
	for i, turn := range display {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if turn.Role != want {
			t.Errorf("display[%d] role = %q, want %q", i, turn.Role, want)
		}
	}
	if len(s.Conversational()) != 2*n {
		t.Errorf("conversational length = %d", len(s.Conversational()))
	}
}

func TestDanglingQuestionStaysHidden(t *testing.T) {
	s := Initialize(testPreamble(), "hi")

	s.AppendUser("q0")
	s.AppendAssistant("a0")
	s.AppendUser("failed question")

	if got := len(s.DisplayLog()); got != 2 {
		t.Errorf("display log = %d turns, want 2", got)
	}
	if got := len(s.Conversational()); got != 3 {
		t.Errorf("conversational = %d turns, want 3", got)
	}

	// The next successful exchange shows only the new question.
	s.AppendUser("q1")
	s.AppendAssistant("a1")

	display := s.DisplayLog()
	if len(display) != 4 {
		t.Fatalf("display log = %d turns, want 4", len(display))
	}
	if display[2].Content != "q1" || display[3].Content != "a1" {
		t.Errorf("unexpected display tail: %+v", display[2:])
	}
	for _, turn := range display {
		if turn.Content == "failed question" {
			t.Error("failed question leaked into display log")
		}
	}
}

func TestTail(t *testing.T) {
	s := Initialize(testPreamble(), "hi")
	for i := 0; i < 3; i++ {
		s.AppendUser(fmt.Sprintf("q%d", i))
		s.AppendAssistant(fmt.Sprintf("a%d", i))
	}

	tests := []struct {
		n     int
		want  int
		first string
	}{
		{0, 6, "q0"},
		{-1, 6, "q0"},
		{2, 2, "q2"},
		{3, 3, "a1"},
		{100, 6, "q0"},
	}
	for _, tt := range tests {
		got := s.Tail(tt.n)
		if len(got) != tt.want {
			t.Errorf("Tail(%d) length = %d, want %d", tt.n, len(got), tt.want)
			continue
		}
		if got[0].Content != tt.first {
			t.Errorf("Tail(%d)[0] = %q, want %q", tt.n, got[0].Content, tt.first)
		}
	}
}

func TestTailReturnsCopy(t *testing.T) {
	s := Initialize(testPreamble(), "hi")
	s.AppendUser("q")
	s.AppendAssistant("a")

	tail := s.Tail(0)
	tail[0].Content = "mutated"

	if s.DisplayLog()[0].Content != "q" {
		t.Error("Tail should not expose internal storage")
	}
}

func TestWindow(t *testing.T) {
	s := Initialize(testPreamble(), "hi")
	for i := 0; i < 5; i++ {
		s.AppendUser(fmt.Sprintf("q%d", i))
		s.AppendAssistant(fmt.Sprintf("a%d", i))
	}
	full := s.InstructionLog()

	if got := s.Window(0); len(got) != len(full) {
		t.Errorf("Window(0) = %d turns, want %d", len(got), len(full))
	}

	got := s.Window(3)
	if len(got) != 5+3 {
		t.Fatalf("Window(3) = %d turns, want 8", len(got))
	}
	for i := 0; i < 4; i++ {
		if got[i].Role != RoleSystem {
			t.Errorf("Window(3)[%d] should be pinned system turn, got %+v", i, got[i])
		}
	}
	if got[4].Content != "hi" {
		t.Errorf("greeting should stay pinned, got %+v", got[4])
	}
	if got[5].Content != "a3" || got[7].Content != "a4" {
		t.Errorf("unexpected window tail: %+v", got[5:])
	}

	if len(s.InstructionLog()) != len(full) {
		t.Error("Window must not trim the instruction log")
	}
}

func TestConcurrentReadersDuringWrites(t *testing.T) {
	s := Initialize(testPreamble(), "hi")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.AppendUser("q")
			s.AppendAssistant("a")
		}
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Tail(20)
				_ = s.Window(10)
			}
		}()
	}
	wg.Wait()

	if got := len(s.DisplayLog()); got != 200 {
		t.Errorf("display log = %d turns, want 200", got)
	}
}
