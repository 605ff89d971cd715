package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/streamly/internal/catalog"
)

// lookupUpdateTool defines the lookup_update MCP tool.
var lookupUpdateTool = mcp.NewTool("lookup_update",
	mcp.WithDescription("Find the first release-note entry whose title or description contains a keyword (case-insensitive)."),
	mcp.WithString("keyword",
		mcp.Required(),
		mcp.Description("Keyword to search for, e.g. \"caching\""),
	),
)

// latestHighlightsTool defines the latest_highlights MCP tool.
var latestHighlightsTool = mcp.NewTool("latest_highlights",
	mcp.WithDescription("Summarize the Highlights section of the latest release notes as a Markdown list."),
)

// listUpdatesTool defines the list_updates MCP tool.
var listUpdatesTool = mcp.NewTool("list_updates",
	mcp.WithDescription("List release-note entries, optionally restricted to one section."),
	mcp.WithString("section",
		mcp.Description("Section to list"),
		mcp.Enum(catalog.Sections...),
	),
)

// askAssistantTool defines the ask_assistant MCP tool.
var askAssistantTool = mcp.NewTool("ask_assistant",
	mcp.WithDescription("Ask the Streamly assistant a question. The conversation is kept across calls."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to ask"),
	),
)

// conversationHistoryTool defines the conversation_history MCP tool.
var conversationHistoryTool = mcp.NewTool("conversation_history",
	mcp.WithDescription("Return the most recent turns of the assistant conversation."),
	mcp.WithNumber("tail",
		mcp.Description("Number of turns to return (default: all)"),
	),
)
