package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/menu"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	svc    *menu.Service
	admins *auth.AdminList
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *menu.Service, admins *auth.AdminList) *Handlers {
	if admins == nil {
		admins = auth.NewAdminList()
	}
	return &Handlers{svc: svc, admins: admins}
}

// HelpRequest is the argument set of picmenu_help.
type HelpRequest struct {
	Query string `json:"query,omitempty"`
	Page  int    `json:"page,omitempty"`
	User  string `json:"user,omitempty"`
}

// NavigateRequest is the argument set of picmenu_navigate.
type NavigateRequest struct {
	Plugin string `json:"plugin"`
	Query  string `json:"query"`
	User   string `json:"user,omitempty"`
}

// UserRequest is the argument set of the admin tools.
type UserRequest struct {
	User string `json:"user,omitempty"`
}

// PageResult is a rendered help page.
type PageResult struct {
	Topic       string `json:"topic"`
	Page        int    `json:"page,omitempty"`
	TotalPages  int    `json:"total_pages,omitempty"`
	Restricted  bool   `json:"restricted,omitempty"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// ChoicesResult lists candidates for an ambiguous query.
type ChoicesResult struct {
	Message    string   `json:"message"`
	Candidates []Choice `json:"candidates"`
}

// Choice is one disambiguation candidate.
type Choice struct {
	Position   int    `json:"position"`
	Name       string `json:"name"`
	Plugin     string `json:"plugin"`
	Restricted bool   `json:"restricted,omitempty"`
}

// HandleHelp handles picmenu_help.
func (h *Handlers) HandleHelp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[HelpRequest](req)
	if err != nil {
		return invalidArgs(err), nil
	}
	if args.Page < 0 {
		return invalidArgs(errors.New("page must be positive")), nil
	}
	if args.Page == 0 {
		args.Page = 1
	}

	ctx = menu.WithSurface(ctx, Surface)
	resp, err := h.svc.Query(ctx, args.Query, h.caller(args.User), args.Page)
	if err != nil {
		return errorResult(err), nil
	}
	return responseResult(resp)
}

// HandleNavigate handles picmenu_navigate.
func (h *Handlers) HandleNavigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[NavigateRequest](req)
	if err != nil {
		return invalidArgs(err), nil
	}
	if strings.TrimSpace(args.Plugin) == "" || strings.TrimSpace(args.Query) == "" {
		return invalidArgs(errors.New("plugin and query are required")), nil
	}

	ctx = menu.WithSurface(ctx, Surface)
	resp, err := h.svc.Navigate(ctx, resolve.InPlugin(args.Plugin), args.Query, h.caller(args.User))
	if err != nil {
		return errorResult(err), nil
	}
	return responseResult(resp)
}

// HandleStatus handles picmenu_status.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[UserRequest](req)
	if err != nil {
		return invalidArgs(err), nil
	}
	st, err := h.svc.Status(menu.WithSurface(ctx, Surface), h.caller(args.User))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(st.Text()), nil
}

// HandleClearCache handles picmenu_clear_cache.
func (h *Handlers) HandleClearCache(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[UserRequest](req)
	if err != nil {
		return invalidArgs(err), nil
	}
	n, err := h.svc.ClearCache(menu.WithSurface(ctx, Surface), h.caller(args.User))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(menu.ClearedMessage(n)), nil
}

func (h *Handlers) caller(user string) *auth.Identity {
	return h.admins.Identify(user, auth.AuthMethodLocal)
}

func responseResult(resp *menu.Response) (*mcp.CallToolResult, error) {
	if resp.Kind == menu.ResponseDisambiguation {
		out := ChoicesResult{Message: resp.Text, Candidates: make([]Choice, 0, len(resp.Candidates))}
		for _, c := range resp.Candidates {
			out.Candidates = append(out.Candidates, Choice{
				Position:   c.Position,
				Name:       c.Entry.Name,
				Plugin:     c.Entry.PluginID,
				Restricted: c.Restricted,
			})
		}
		return mcp.NewToolResultJSON(out)
	}
	return mcp.NewToolResultJSON(PageResult{
		Topic:       resp.Topic,
		Page:        resp.Page,
		TotalPages:  resp.TotalPages,
		Restricted:  resp.Restricted,
		ContentType: resp.ContentType,
		Content:     string(resp.Artifact),
	})
}

// errorResult reports err with its user-facing message. Internal error
// details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	return textError(map[string]any{"error": menu.Message(err)})
}

func invalidArgs(err error) *mcp.CallToolResult {
	return textError(map[string]any{"error": "invalid arguments: " + err.Error()})
}

func textError(payload map[string]any) *mcp.CallToolResult {
	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}
