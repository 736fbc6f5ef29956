// Package menu is the caller-facing help menu service.
//
// Service.Query resolves "plugin [command]" text for a caller, builds the
// page document, and returns a rendered artifact from the render cache.
// Ambiguous text yields a disambiguation list instead of an error. Status
// and ClearCache are administrative and require the admin role. Message
// turns any error returned here into the text shown to users.
//
// Every surface (CLI, HTTP, MCP) drives the same Service.
package menu
