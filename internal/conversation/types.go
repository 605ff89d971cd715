package conversation

// Role tags who produced a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single role-tagged message. Turns are values and never change
// once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Preamble describes the assistant persona declared to the model in the
// system turns that open every instruction log.
type Preamble struct {
	Name            string
	Framework       string
	Version         string
	KnowledgeCutoff string
	UpdatesSource   string
}

// SystemTurns renders the fixed system preamble.
func (p Preamble) SystemTurns() []Turn {
	persona := "You are " + p.Name + ", a specialized AI assistant trained in " + p.Framework
	if p.Version != "" {
		persona += " and the current update and version " + p.Version
	}
	persona += "."

	source := p.UpdatesSource
	if source == "" {
		source = "the local updates document"
	}

	turns := []Turn{
		{Role: RoleSystem, Content: persona},
		{Role: RoleSystem, Content: "Refer to conversation history to provide context to your response."},
		{Role: RoleSystem, Content: "Use " + source + " to look up the latest " + p.Framework + " feature updates."},
		{Role: RoleSystem, Content: "When responding, provide code examples, links to documentation, and code examples from the " + p.Framework + " API to help the user."},
	}
	if p.KnowledgeCutoff != "" {
		turns = append(turns, Turn{Role: RoleSystem, Content: "Your knowledge of " + p.Framework + " is current as of " + p.KnowledgeCutoff + "."})
	}
	return turns
}
