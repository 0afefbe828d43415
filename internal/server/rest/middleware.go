package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/server/auth"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "request_id"

	requestIDHeader = "X-Request-ID"
)

// IdentityFromContext returns the identity attached by the access gate.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// extractToken returns the token from the Authorization header. The browser
// client sends the raw token, other clients may prefix it with "Bearer ".
func extractToken(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get(common.AuthorizationHeaderName))
	scheme := strings.TrimSpace(common.BearerPrefix)
	if len(h) >= len(scheme) && strings.EqualFold(h[:len(scheme)], scheme) &&
		(len(h) == len(scheme) || h[len(scheme)] == ' ') {
		h = strings.TrimSpace(h[len(scheme):])
	}
	if h == "" {
		return "", common.ErrorMissingToken
	}
	return h, nil
}

// accessTokenMiddleware verifies the session token once per request and
// attaches the decoded identity to the request context.
func (s *HTTPServer) accessTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := extractToken(r)
		if err != nil {
			s.writeFailure(ctx, w, http.StatusForbidden, msgTokenRequired)
			return
		}

		id, err := s.tokens.ParseToken(token)
		if err != nil {
			if !errors.Is(err, common.ErrTokenExpired) {
				s.logger.Debug(ctx, "token rejected", "error", err)
			}
			s.writeFailure(ctx, w, http.StatusUnauthorized, msgTokenInvalid)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, identityKey, id)))
	})
}

func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (s *HTTPServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", RequestIDFromContext(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

func (s *HTTPServer) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error(r.Context(), "panic recovered",
					"error", rec,
					"stack", string(debug.Stack()),
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
				)
				// response already started
				if rw.wroteHeader {
					return
				}
				s.writeFailure(r.Context(), w, http.StatusInternalServerError, msgServerError)
			}
		}()
		next.ServeHTTP(rw, r)
	})
}

// cors admits the configured browser origin with credentials. "*" reflects
// any origin.
func (s *HTTPServer) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origin != "" && (s.opts.CORSOrigin == "*" || origin == s.opts.CORSOrigin)

		if allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Expose-Headers", requestIDHeader)
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	clients   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterSweepInterval {
		for k, e := range l.clients {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.clients[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *HTTPServer) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			s.writeFailure(r.Context(), w, http.StatusTooManyRequests, msgTooMany)
			return
		}
		next(w, r)
	}
}
