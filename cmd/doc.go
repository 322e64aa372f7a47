// Package cmd implements the agendabot command line: the daily digest,
// event creation, the OAuth flow, a cron-driven watcher and the MCP server.
package cmd
