package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/health"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/menu"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

type candidateJSON struct {
	Position   int    `json:"position"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Plugin     string `json:"plugin"`
	Score      int    `json:"score"`
	Restricted bool   `json:"restricted,omitempty"`
}

type disambiguationJSON struct {
	Message    string          `json:"message"`
	Candidates []candidateJSON `json:"candidates"`
}

type statusJSON struct {
	*menu.Status
	Health health.Response `json:"health"`
	Text   string          `json:"text"`
}

type clearedJSON struct {
	Removed int    `json:"removed"`
	Message string `json:"message"`
}

type errorJSON struct {
	Error string `json:"error"`
}

// handleMenu handles GET /menu?q=&page=.
func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: err.Error()})
		return
	}
	resp, err := s.svc.Query(r.Context(), r.URL.Query().Get("q"), auth.CallerFromContext(r.Context()), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeResponse(w, resp)
}

// handleNavigate handles GET /menu/{plugin}?q=, resolving q among the
// commands of plugin.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "missing q"})
		return
	}
	nav := resolve.InPlugin(r.PathValue("plugin"))
	resp, err := s.svc.Navigate(r.Context(), nav, q, auth.CallerFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeResponse(w, resp)
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(r.Context(), auth.CallerFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusJSON{Status: st, Health: health.NewResponse(st.Health), Text: st.Text()})
}

// handleClearCache handles POST /api/cache/clear.
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.ClearCache(r.Context(), auth.CallerFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clearedJSON{Removed: n, Message: menu.ClearedMessage(n)})
}

// handleRebuild handles POST /api/rebuild.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.svc.Authorize(ctx, auth.CallerFromContext(ctx), auth.ActionRebuild); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Rebuild(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Holder().Stats())
}

func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errors.New("page must be a positive integer")
	}
	return page, nil
}

func writeResponse(w http.ResponseWriter, resp *menu.Response) {
	if resp.Kind == menu.ResponseDisambiguation {
		out := disambiguationJSON{Message: resp.Text, Candidates: make([]candidateJSON, 0, len(resp.Candidates))}
		for _, c := range resp.Candidates {
			out.Candidates = append(out.Candidates, candidateJSON{
				Position:   c.Position,
				Name:       c.Entry.Name,
				Kind:       c.Entry.Kind.String(),
				Plugin:     c.Entry.PluginID,
				Score:      c.Score,
				Restricted: c.Restricted,
			})
		}
		writeJSON(w, http.StatusMultipleChoices, out)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("X-Picmenu-Topic", resp.Topic)
	if resp.TotalPages > 0 {
		w.Header().Set("X-Picmenu-Page", strconv.Itoa(resp.Page)+"/"+strconv.Itoa(resp.TotalPages))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Artifact)
}

// writeError maps err to a status code and writes the user-facing message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			observe.F("path", r.URL.Path),
			observe.F("error", err),
		)
	}
	writeJSON(w, status, errorJSON{Error: menu.Message(err)})
}

func errorStatus(err error) int {
	var nf *resolve.NotFoundError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, resilience.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, index.ErrNotBuilt),
		errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, resilience.ErrBulkheadFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
