// Package rest exposes the authentication core over HTTP/JSON: the
// register and login endpoints, the token-gated product resource and a
// health probe.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/logging"
	"github.com/dmitrijs2005/taskdesk/internal/server/auth"
	"github.com/dmitrijs2005/taskdesk/internal/server/models"
	"github.com/dmitrijs2005/taskdesk/internal/server/services"
)

// UserService is the slice of services.UserService the handlers need.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
}

// HealthChecker reports whether the backing store is reachable.
// *sql.DB satisfies it.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Options tune the HTTP server. Zero AuthRateLimit disables rate limiting.
type Options struct {
	Address         string
	CORSOrigin      string
	AuthRateLimit   float64
	AuthRateBurst   int
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	opts    Options
	users   UserService
	tokens  *auth.TokenManager
	health  HealthChecker
	limiter *clientLimiter
	logger  logging.Logger
}

// NewHTTPServer wires the handlers. health may be nil when the store has
// nothing to ping.
func NewHTTPServer(opts Options, l logging.Logger, us UserService, tokens *auth.TokenManager, health HealthChecker) (*HTTPServer, error) {
	if us == nil || tokens == nil {
		return nil, errors.New("user service and token manager are required")
	}

	s := &HTTPServer{
		opts:   opts,
		users:  us,
		tokens: tokens,
		health: health,
		logger: l.With("module", "http_server"),
	}
	if opts.AuthRateLimit > 0 {
		s.limiter = newClientLimiter(opts.AuthRateLimit, opts.AuthRateBurst)
	}
	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.rateLimit(s.Register))
	mux.HandleFunc("POST /auth/login", s.rateLimit(s.Login))
	mux.Handle("GET /products", s.accessTokenMiddleware(http.HandlerFunc(s.Products)))
	mux.HandleFunc("GET /health", s.Health)

	// last applied runs first
	var h http.Handler = mux
	h = s.recovery(h)
	h = s.accessLog(h)
	h = s.requestID(h)
	h = s.cors(h)
	return h
}

func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for up to ShutdownTimeout. Request contexts are not
// cancelled by ctx.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		timeout := s.opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
