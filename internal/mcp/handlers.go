package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/streamly/internal/assistant"
	"github.com/ziadkadry99/streamly/internal/catalog"
	"github.com/ziadkadry99/streamly/internal/conversation"
	"github.com/ziadkadry99/streamly/internal/llm"
)

// handleLookupUpdate runs a keyword lookup over the catalog.
func (s *Server) handleLookupUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := request.RequireString("keyword")
	if err != nil || strings.TrimSpace(keyword) == "" {
		return mcp.NewToolResultError("missing required parameter: keyword"), nil
	}
	return mcp.NewToolResultText(catalog.Lookup(keyword, s.doc)), nil
}

// handleLatestHighlights returns the highlights summary.
func (s *Server) handleLatestHighlights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.session.LatestUpdates()), nil
}

// handleListUpdates lists catalog entries as Markdown.
func (s *Server) handleListUpdates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.doc.Entries()
	if section := request.GetString("section", ""); section != "" {
		if !pie.Contains(catalog.Sections, section) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown section %q", section)), nil
		}
		entries = pie.Filter(entries, func(l catalog.Located) bool {
			return l.Section == section
		})
	}

	if len(entries) == 0 {
		return mcp.NewToolResultText(catalog.NoUpdatesFound), nil
	}
	return mcp.NewToolResultText(formatEntries(entries)), nil
}

// handleAskAssistant submits a question to the shared session.
func (s *Server) handleAskAssistant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	turns, err := s.session.SubmitUtterance(ctx, question)
	if err != nil {
		var pe *llm.ProviderError
		switch {
		case errors.As(err, &pe):
			return mcp.NewToolResultError(pe.UserMessage()), nil
		case errors.Is(err, assistant.ErrEmptyUtterance):
			return mcp.NewToolResultError("missing required parameter: question"), nil
		default:
			return nil, err
		}
	}

	return mcp.NewToolResultText(turns[len(turns)-1].Content), nil
}

// handleConversationHistory renders the display log tail.
func (s *Server) handleConversationHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	turns := s.session.DisplayTail(request.GetInt("tail", 0))
	if len(turns) == 0 {
		return mcp.NewToolResultText("No conversation yet."), nil
	}

	lines := pie.Map(turns, func(t conversation.Turn) string {
		return fmt.Sprintf("**%s**: %s", t.Role, t.Content)
	})
	return mcp.NewToolResultText(strings.Join(lines, "\n\n")), nil
}

func formatEntries(entries []catalog.Located) string {
	var b strings.Builder
	current := ""
	for _, l := range entries {
		if l.Section != current {
			if current != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "## %s\n", l.Section)
			current = l.Section
		}
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", l.Entry.Title, l.SubCategory, l.Entry.Description)
	}
	return b.String()
}
