// Package mcpserver exposes the help menu as MCP tools over stdio.
//
// Each tool takes an optional "user" argument naming the chat user the
// agent acts for. Admin status comes from the configured admin list.
package mcpserver
