package middlewares

import (
	"context"
	"detection-service/internal/app/config"
	"detection-service/internal/app/services/shared/ratelimiter"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/utils"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddlewares() *Middlewares {
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{RequestBodyLimitInMegabyte: 1},
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddlewares()

	var seen string
	handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetRequestID(r.Context())
	}))

	t.Run("keeps client request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("generates request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.True(t, strings.HasPrefix(seen, constvars.REQUEST_ID_PREFIX))
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestSessionIDMiddleware(t *testing.T) {
	m := newTestMiddlewares()

	var seen string
	handler := m.SessionIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetSessionID(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{name: "header wins", header: "from-header", query: "from-query", want: "from-header"},
		{name: "query fallback", query: "from-query", want: "from-query"},
		{name: "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/"
			if tt.query != "" {
				target += "?" + constvars.URLParamSessionID + "=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set(constvars.HeaderXSessionID, tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if tt.want != "" {
				assert.Equal(t, tt.want, seen)
			} else {
				assert.NotEmpty(t, seen)
			}
			assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXSessionID))
		})
	}
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	m := newTestMiddlewares()
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestBodyLimitRejectsDeclaredOversizeBody(t *testing.T) {
	m := newTestMiddlewares()
	called := false
	handler := m.BodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", (1<<20)+1)))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(60, 2, zap.NewNop())
	limiter.now = func() time.Time { return now }

	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001").Code)

	rejected := send("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
	assert.Equal(t, "1", rejected.Header().Get(constvars.HeaderRetryAfter))

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code, "other clients keep their own budget")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1003").Code)

	now = now.Add(time.Hour)
	assert.Equal(t, 2, limiter.Cleanup(time.Minute))
}

type stubResourceLimiter struct {
	out   *ratelimiter.ApplyResourceLimiterOutput
	err   error
	input *ratelimiter.ApplyResourceLimiterInput
}

func (s *stubResourceLimiter) ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error) {
	s.input = in
	return s.out, s.err
}

func TestSubmissionQuota(t *testing.T) {
	m := NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		Detection: config.AppDetection{SubmissionsPerMinute: 5},
	})

	tests := []struct {
		name      string
		limiter   *stubResourceLimiter
		wantCode  int
		wantRetry string
	}{
		{name: "allowed", limiter: &stubResourceLimiter{out: &ratelimiter.ApplyResourceLimiterOutput{Allowed: true}}, wantCode: http.StatusOK},
		{name: "rejected", limiter: &stubResourceLimiter{out: &ratelimiter.ApplyResourceLimiterOutput{RetryAfterSecs: 12}}, wantCode: http.StatusTooManyRequests, wantRetry: "12"},
		{name: "store down", limiter: &stubResourceLimiter{err: errors.New("redis down")}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := m.SubmissionQuota(tt.limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = "10.1.1.1:4000"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantRetry, rr.Header().Get(constvars.HeaderRetryAfter))
			require.NotNil(t, tt.limiter.input)
			assert.Equal(t, "10.1.1.1", tt.limiter.input.ResourceName)
			assert.Equal(t, 5, tt.limiter.input.MaxQuota)
		})
	}
}
