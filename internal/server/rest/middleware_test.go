package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		err    error
	}{
		{"", "", common.ErrorMissingToken},
		{"   ", "", common.ErrorMissingToken},
		{"Bearer ", "", common.ErrorMissingToken},
		{"abc.def.ghi", "abc.def.ghi", nil},
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc.def.ghi", "abc.def.ghi", nil},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set(common.AuthorizationHeaderName, tc.header)
		}
		got, err := extractToken(r)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, tc.header)
			continue
		}
		require.NoError(t, err, tc.header)
		assert.Equal(t, tc.want, got)
	}
}

func TestAccessTokenMiddleware_AttachesIdentity(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	token, err := f.tokens.GenerateToken(auth.Identity{UserID: "u-1", Email: "a@example.com"})
	require.NoError(t, err)

	var got auth.Identity
	var ok bool
	h := f.srv.accessTokenMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	assert.Equal(t, auth.Identity{UserID: "u-1", Email: "a@example.com"}, got)
}

func TestAccessTokenMiddleware_Rejections(t *testing.T) {
	f := newFixture(t, Options{}, nil)

	stale, err := f.tokens.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) }).
		GenerateToken(auth.Identity{UserID: "u-1", Email: "a@example.com"})
	require.NoError(t, err)

	foreignMgr, err := auth.NewTokenManager("another-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := foreignMgr.GenerateToken(auth.Identity{UserID: "u-1", Email: "a@example.com"})
	require.NoError(t, err)

	reached := false
	h := f.srv.accessTokenMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		reached = true
	}))

	cases := map[string]struct {
		header string
		status int
	}{
		"missing":        {"", http.StatusForbidden},
		"expired":        {stale, http.StatusUnauthorized},
		"foreign secret": {foreign, http.StatusUnauthorized},
		"garbage":        {"not-a-token", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, decode[statusResponse](t, rec).Success)
		})
	}
	assert.False(t, reached)
}

func TestAccessTokenMiddleware_MissingTokenBodyIsStable(t *testing.T) {
	f := newFixture(t, Options{}, nil)

	a := f.do(http.MethodGet, "/products", "", nil)
	b := f.do(http.MethodGet, "/products", "", map[string]string{"Authorization": "Bearer "})

	assert.Equal(t, http.StatusForbidden, a.Code)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Body.String(), b.Body.String())
}

func TestRequestID(t *testing.T) {
	f := newFixture(t, Options{}, nil)

	rec := f.do(http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = f.do(http.MethodGet, "/health", "", map[string]string{requestIDHeader: "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
}

func TestRecovery(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	h := f.srv.recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgServerError, decode[statusResponse](t, rec).Message)
}

func TestRecovery_AfterHeaderWritten(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	h := f.srv.recovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestCORS(t *testing.T) {
	f := newFixture(t, Options{CORSOrigin: "http://localhost:5174"}, nil)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		rec := f.do(http.MethodOptions, "/auth/login", "", map[string]string{
			"Origin":                        "http://localhost:5174",
			"Access-Control-Request-Method": "POST",
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5174", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("other origin gets no grant", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/health", "", map[string]string{"Origin": "http://evil.example"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard reflects origin", func(t *testing.T) {
		w := newFixture(t, Options{CORSOrigin: "*"}, nil)
		rec := w.do(http.MethodGet, "/health", "", map[string]string{"Origin": "http://any.example"})
		assert.Equal(t, "http://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimit_AuthRoutes(t *testing.T) {
	f := newFixture(t, Options{AuthRateLimit: 0.001, AuthRateBurst: 2}, nil)

	for i := 0; i < 2; i++ {
		rec := f.do(http.MethodPost, "/auth/login", aliceLogin, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	rec := f.do(http.MethodPost, "/auth/login", aliceLogin, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, msgTooMany, decode[statusResponse](t, rec).Message)

	// other routes are not limited
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", nil).Code)
}

func TestClientLimiter_PerClientAndSweep(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newClientLimiter(0.001, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))

	now = now.Add(limiterIdleTTL + limiterSweepInterval + time.Second)
	assert.True(t, l.allow("10.0.0.3"))
	assert.Len(t, l.clients, 1)
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientKey(r))

	r.RemoteAddr = "weird"
	assert.Equal(t, "weird", clientKey(r))
}
