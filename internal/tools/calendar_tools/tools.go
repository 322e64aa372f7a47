package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"agendabot/internal/server"
	"agendabot/internal/tools/common"
)

// RegisterCalendarTools registers the calendar tool with the MCP server.
// One tool with an action selector keeps the surface identical to the CLI:
// today fetches the digest, auth drives authorization, create inserts an
// event.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	calendarTool := mcp.NewTool("calendar",
		mcp.WithDescription("Check Google Calendar events, authorize, or create new events."),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Enum("today", "auth", "create"),
			mcp.Description("Action to perform: fetch today's events, authorize, or create event"),
		),
		mcp.WithBoolean("json_output",
			mcp.Description("If true, return event list as JSON output for action=today"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Request timeout in seconds (1-600)"),
		),
		mcp.WithNumber("retries",
			mcp.Description("Retry attempts for transient failures (0-10)"),
		),
		mcp.WithString("title",
			mcp.Description("Event title for action=create"),
		),
		mcp.WithString("start",
			mcp.Description("Start datetime in ISO format with timezone, e.g. 2026-02-11T17:30:00+08:00"),
		),
		mcp.WithString("end",
			mcp.Description("End datetime in ISO format with timezone, e.g. 2026-02-11T19:00:00+08:00"),
		),
		mcp.WithString("location",
			mcp.Description("Optional event location for action=create"),
		),
		mcp.WithString("description",
			mcp.Description("Optional event description for action=create"),
		),
		mcp.WithString("text",
			mcp.Description("Optional natural-language input for action=create, e.g. '17:30-19:00跑步'"),
		),
		mcp.WithString("auth_code",
			mcp.Description("Authorization code for action=auth, obtained from the authorization URL"),
		),
	)

	s.AddTool(calendarTool, common.InstrumentedToolHandler("calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCalendar(ctx, request, sc)
		}))

	return nil
}
