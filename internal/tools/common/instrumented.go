package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"agendabot/internal/instrumentation"
	"agendabot/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with invocation metrics and
// audit logging. The action argument, when present, becomes a metric label
// and an audit field.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("calendar", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := otel.Tracer("agendabot/tools").Start(ctx, "tool."+toolName)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)

		action := ""
		if v, ok := request.GetArguments()["action"].(string); ok {
			action = v
			invocation.WithAction(action)
			instrumentation.SpanAttributes(ctx, attribute.String("action", action))
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		// A handler error and an error-result both count as failures.
		success := err == nil && (result == nil || !result.IsError)
		invocation.Complete(success, err)
		instrumentation.RecordSpanError(ctx, err)

		sc.Metrics().RecordToolInvocation(ctx, toolName, action, invocation.Status(), duration)
		if audit := sc.Audit(); audit != nil {
			audit.LogToolInvocation(invocation)
		}

		return result, err
	}
}
