package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/health"
	"github.com/memoriass/astrbot-plugin-picmenu/menu"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
)

// Surface is the surface name recorded on operations served over HTTP.
const Surface = "http"

// DefaultShutdownTimeout bounds graceful shutdown in Run.
const DefaultShutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Authenticator identifies callers. Nil serves everyone anonymously.
	Authenticator auth.Authenticator

	// Limiter rate limits requests per caller. Nil disables rate limiting.
	Limiter *resilience.Limiter

	// Metrics, when set, is mounted at GET /metrics.
	Metrics http.Handler

	// Logger records one line per request.
	// Default: observe.NopLogger()
	Logger observe.Logger
}

// Server serves the help menu over HTTP.
type Server struct {
	svc     *menu.Service
	cfg     Config
	logger  observe.Logger
	handler http.Handler
}

// New creates a Server for svc.
func New(svc *menu.Service, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	s := &Server{svc: svc, cfg: cfg, logger: cfg.Logger}

	api := http.NewServeMux()
	api.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/menu", http.StatusFound)
	})
	api.HandleFunc("GET /menu", s.handleMenu)
	api.HandleFunc("GET /menu/{plugin}", s.handleNavigate)
	api.HandleFunc("GET /api/status", s.handleStatus)
	api.HandleFunc("POST /api/cache/clear", s.handleClearCache)
	api.HandleFunc("POST /api/rebuild", s.handleRebuild)

	var caller http.Handler = api
	caller = s.rateLimit(caller)
	caller = auth.Middleware(cfg.Authenticator)(caller)

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, svc.Health())
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	mux.Handle("/", caller)

	s.handler = s.logRequests(securityHeaders(mux))
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info(ctx, "http server listening", observe.F("addr", s.cfg.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
// Rendered pages carry their own inline stylesheet.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; img-src data:")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects callers that exceed the limiter with 429. Identified
// callers are keyed by principal, anonymous ones by remote address.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.cfg.Limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := limitKey(r)
		if !s.cfg.Limiter.Allow(key) {
			wait := s.cfg.Limiter.RetryAfter(key)
			secs := int(wait.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			s.writeError(w, r, resilience.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitKey(r *http.Request) string {
	if caller := auth.CallerFromContext(r.Context()); !caller.IsAnonymous() {
		return "user:" + caller.Principal
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(menu.WithSurface(r.Context(), Surface)))
		s.logger.Debug(r.Context(), "http request",
			observe.F("method", r.Method),
			observe.F("path", r.URL.Path),
			observe.F("status", rec.status),
			observe.F("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}
