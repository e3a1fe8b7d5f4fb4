package mock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/ncdc/pkg/httputil"
	"github.com/getmockd/ncdc/pkg/logging"
	"github.com/getmockd/ncdc/pkg/metrics"
	"github.com/getmockd/ncdc/pkg/problem"
)

// RequestIDHeader carries the id the server assigned to a request.
const RequestIDHeader = "X-Request-Id"

const shutdownTimeout = 5 * time.Second

// TypeValidator checks a value against a named type.
type TypeValidator interface {
	Validate(ctx context.Context, value any, typeName string) ([]problem.Problem, error)
}

// Server serves the contracts of its current Router.
type Server struct {
	router    atomic.Pointer[Router]
	validator TypeValidator
	log       *slog.Logger
	reporter  *metrics.Reporter
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithReporter counts served requests.
func WithReporter(r *metrics.Reporter) ServerOption {
	return func(s *Server) {
		s.reporter = r
	}
}

// NewServer creates a Server for router. v validates request bodies of
// contracts that declare a request type and may be nil when none do.
func NewServer(router *Router, v TypeValidator, opts ...ServerOption) *Server {
	s := &Server{
		validator: v,
		log:       logging.Nop(),
	}
	if router == nil {
		router = NewRouter(nil)
	}
	s.router.Store(router)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the router currently being served.
func (s *Server) Router() *Router {
	return s.router.Load()
}

// Swap replaces the whole routing table and returns the previous one.
// Requests already in flight finish against the table they started with.
func (s *Server) Swap(router *Router) *Router {
	if router == nil {
		router = NewRouter(nil)
	}
	return s.router.Swap(router)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := uuid.New().String()
	w.Header().Set(RequestIDHeader, id)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	attrs := s.serve(rec, r)

	s.reporter.MockRequest(r.Method, rec.status)
	args := append([]any{
		"id", id,
		"method", r.Method,
		"path", r.URL.RequestURI(),
		"status", rec.status,
		"duration", time.Since(start),
	}, attrs...)
	if rec.status >= http.StatusBadRequest {
		s.log.Warn("request", args...)
		return
	}
	s.log.Info("request", args...)
}

// serve answers one request and returns extra log attributes.
func (s *Server) serve(w http.ResponseWriter, r *http.Request) []any {
	router := s.router.Load()
	contract, err := router.Match(r.Method, r.URL.Path, r.URL.Query())
	if errors.Is(err, ErrNotConfigured) {
		httputil.WriteNotFound(w, "not_configured", fmt.Sprintf("no contract configured for %s %s", r.Method, r.URL.Path))
		return nil
	}

	attrs := []any{"contract", contract.Name}

	if contract.Request.Type != "" {
		data, err := httputil.ReadBody(r.Body)
		if err != nil {
			httputil.WriteBadRequest(w, "invalid_request", "failed to read request body")
			return append(attrs, "error", err)
		}
		if body := httputil.DecodeBody(data, r.Header.Get("Content-Type")); body != nil {
			problems, err := s.validate(r.Context(), body, contract.Request.Type)
			if err != nil {
				httputil.WriteInternalError(w, "schema_error", err.Error())
				return append(attrs, "error", err)
			}
			if len(problems) > 0 {
				httputil.WriteErrorWithDetails(w, http.StatusBadRequest, "invalid_request",
					fmt.Sprintf("request body does not match type %s", contract.Request.Type), problems)
				return append(attrs, logging.ProblemsAttr(problems))
			}
		}
	}

	httputil.WriteBody(w, statusOf(contract), contract.Response.Headers, contract.Response.Body)
	return attrs
}

func (s *Server) validate(ctx context.Context, body any, typeName string) ([]problem.Problem, error) {
	if s.validator == nil {
		return nil, fmt.Errorf("no schema source configured for type: %s", typeName)
	}
	return s.validator.Validate(ctx, body, typeName)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, when non-nil, receives the bound address once the
// listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return Serve(ctx, ln, s, ready, s.log)
}

// Serve runs handler on ln until ctx is done.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, ready func(net.Addr), log *slog.Logger) error {
	if log == nil {
		log = logging.Nop()
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info("listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
