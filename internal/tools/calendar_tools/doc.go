// Package calendar_tools exposes the calendar tool over MCP: a single tool
// with an action selector for today's digest, authorization and event
// creation.
package calendar_tools
