package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"agendabot/internal/calendar"
	"agendabot/internal/errfmt"
	"agendabot/internal/googleauth"
	"agendabot/internal/instrumentation"
	"agendabot/internal/request"
	"agendabot/internal/server"
)

func handleCalendar(ctx context.Context, req mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	action, _ := args["action"].(string)
	switch action {
	case "today":
		return handleToday(ctx, args, sc)
	case "auth":
		return handleAuth(ctx, args, sc)
	case "create":
		return handleCreate(ctx, args, sc)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q, must be one of: today, auth, create", action)), nil
	}
}

func handleToday(ctx context.Context, args map[string]interface{}, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	policy, err := policyFromArgs(sc.DefaultPolicy(), args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	events, err := sc.CalendarClient().ListDay(ctx, policy, time.Now())
	sc.Metrics().RecordCalendarOperation(ctx, "list_day", statusOf(err), time.Since(start))
	if err != nil {
		return mcp.NewToolResultError(errfmt.Format(err)), nil
	}

	if jsonOutput, _ := args["json_output"].(bool); jsonOutput {
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding events: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	return mcp.NewToolResultText(calendar.Formatter{}.Digest(events)), nil
}

// handleAuth runs the split authorization flow: without an auth_code it
// returns the URL to visit, with one it completes the exchange. The MCP
// transport has no terminal, so the interactive console flow cannot run here.
func handleAuth(ctx context.Context, args map[string]interface{}, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	code, _ := args["auth_code"].(string)
	if code != "" {
		if err := sc.Creds().SaveAuthCode(ctx, code); err != nil {
			sc.Metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
			return mcp.NewToolResultError(errfmt.Format(err)), nil
		}
		sc.Metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
		return mcp.NewToolResultText("Authorization successful. Token saved."), nil
	}

	authURL, err := sc.Creds().AuthURL()
	if err != nil {
		sc.Metrics().RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return mcp.NewToolResultError(errfmt.Format(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(`To authorize calendar access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account and grant calendar access
3. Copy the authorization code
4. Call this tool again with action="auth" and auth_code="<code>"

You only need to authorize once. The token is refreshed automatically.`, authURL)), nil
}

func handleCreate(ctx context.Context, args map[string]interface{}, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if !hasWriteScope(sc.Creds()) {
		return mcp.NewToolResultError("event creation requires read-write calendar access, restart the server with --yolo"), nil
	}

	policy, err := policyFromArgs(sc.DefaultPolicy(), args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := calendar.Payload{
		Title:       stringArg(args, "title"),
		Start:       stringArg(args, "start"),
		End:         stringArg(args, "end"),
		Location:    stringArg(args, "location"),
		Description: stringArg(args, "description"),
		Text:        stringArg(args, "text"),
	}

	ev, err := calendar.ResolvePayload(payload, sc.Resolver())
	if err != nil {
		return mcp.NewToolResultError(errfmt.Format(err)), nil
	}

	start := time.Now()
	created, err := sc.CalendarClient().CreateEvent(ctx, policy, ev)
	sc.Metrics().RecordCalendarOperation(ctx, "create_event", statusOf(err), time.Since(start))
	if err != nil {
		return mcp.NewToolResultError(errfmt.Format(err)), nil
	}

	return mcp.NewToolResultText(calendar.CreateConfirmation(created)), nil
}

// policyFromArgs overlays the per-call timeout and retries options onto the
// configured defaults. JSON numbers arrive as float64.
func policyFromArgs(base request.Policy, args map[string]interface{}) (request.Policy, error) {
	if v, ok := args["timeout"].(float64); ok {
		base.Timeout = time.Duration(v) * time.Second
	}
	if v, ok := args["retries"].(float64); ok {
		base.Retries = int(v)
	}
	if err := base.Validate(); err != nil {
		return request.Policy{}, err
	}
	return base, nil
}

func hasWriteScope(creds *googleauth.Store) bool {
	for _, scope := range creds.Scopes() {
		if scope == googleauth.ScopeReadWrite {
			return true
		}
	}
	return false
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func statusOf(err error) string {
	if err != nil {
		return instrumentation.StatusError
	}
	return instrumentation.StatusSuccess
}
