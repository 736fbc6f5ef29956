package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/config"
	"github.com/memoriass/astrbot-plugin-picmenu/menu"
)

// Surface is the surface name recorded on operations served over MCP.
const Surface = "mcp"

var userArg = mcp.WithString("user", mcp.Description("Chat user ID the request is made for; admin tools require an admin ID"))

var helpToolDef = mcp.NewTool("picmenu_help",
	mcp.WithDescription("Show the plugin help menu. Query with a plugin name, a command name or both (\"基础功能 help\"); numbers pick by position. An empty query shows the main menu."),
	mcp.WithString("query", mcp.Description("Plugin and optional command, e.g. \"基础功能\" or \"1 2\"")),
	mcp.WithNumber("page", mcp.Description("Listing page, starting at 1")),
	userArg,
)

var navigateToolDef = mcp.NewTool("picmenu_navigate",
	mcp.WithDescription("Resolve a command query inside one plugin's page."),
	mcp.WithString("plugin", mcp.Required(), mcp.Description("Plugin ID the caller is viewing")),
	mcp.WithString("query", mcp.Required(), mcp.Description("Command name, alias or position")),
	userArg,
)

var statusToolDef = mcp.NewTool("picmenu_status",
	mcp.WithDescription("Report index, cache and health status. Admin only."),
	userArg,
)

var clearCacheToolDef = mcp.NewTool("picmenu_clear_cache",
	mcp.WithDescription("Remove every cached help page. Admin only."),
	userArg,
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"picmenu_help": {
		def:     helpToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHelp },
	},
	"picmenu_navigate": {
		def:     navigateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNavigate },
	},
	"picmenu_status": {
		def:     statusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
	"picmenu_clear_cache": {
		def:     clearCacheToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClearCache },
	},
}

// ToolNames returns the names of all tools.
func ToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server with the picmenu tools registered.
func NewServer(svc *menu.Service, admins *auth.AdminList, version string) *server.MCPServer {
	s := server.NewMCPServer(
		config.AppName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	h := NewHandlers(svc, admins)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves the tools over stdio until the client disconnects.
func Run(svc *menu.Service, admins *auth.AdminList, version string) error {
	return server.ServeStdio(NewServer(svc, admins, version))
}
