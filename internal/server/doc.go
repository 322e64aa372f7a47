// Package server holds the shared runtime state of the MCP server and the
// dedicated Prometheus metrics listener.
package server
