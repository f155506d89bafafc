package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cacases/internal/errors"
	"cacases/internal/infrastructure"
	"cacases/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expectID string
	}{
		{name: "generated", header: ""},
		{name: "propagated", header: "req-123", expectID: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenReq, seenTrace string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenReq = GetRequestID(r.Context())
				seenTrace = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seenReq)
			assert.Equal(t, seenReq, seenTrace)
			assert.Equal(t, seenReq, rec.Header().Get(RequestIDHeader))
			if tt.expectID != "" {
				assert.Equal(t, tt.expectID, seenReq)
			}
		})
	}
}

func TestGetRequestIDFallsBackToTraceID(t *testing.T) {
	ctx := infrastructure.WithTraceID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestStructuredLogger(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	h := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "request completed")
	assert.True(t, handler.ContainsAttr("status", int64(http.StatusTeapot)))
	assert.True(t, handler.ContainsAttr("path", "/api/runs"))
}

func TestRecoverer(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	errorHandler := apperrors.NewErrorHandler(logger, false)

	h := RequestID(Recoverer(errorHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.Header.Set(RequestIDHeader, "req-panic")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.TypeInternal, body["type"])
	assert.Equal(t, "req-panic", body["trace_id"])
	testutil.AssertLogContains(t, handler, slog.LevelError, "panic recovered")
}

func TestRateLimiter(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.5, 2, logger)
	h := rl.Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
		codes = append(codes, rec.Code)
		last = rec
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, apperrors.TypeRateLimit, body["type"])
	assert.EqualValues(t, http.StatusTooManyRequests, body["status"])
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "rate limit exceeded")
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestTimeoutMapsToGatewayTimeout(t *testing.T) {
	errorHandler := apperrors.NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	h := Timeout(time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		errorHandler.HandleError(w, r, r.Context().Err())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestOTelMiddlewareRecordsRoute(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	om, err := NewOTelMiddleware(providers)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(om.Handler)
	r.Get("/api/runs/{run}", okHandler)
	r.Get("/api/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for _, path := range []string{"/api/runs/abc", "/api/runs/def", "/api/fail"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/api/runs/{run}"`)
	assert.Contains(t, body, `status_code="500"`)
	assert.NotContains(t, body, `route="/api/runs/abc"`)
}

func TestQueryParamValidator(t *testing.T) {
	v := NewQueryParamValidator(nil, apperrors.NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false))

	intTests := []struct {
		name   string
		query  string
		want   int
		wantOK bool
	}{
		{name: "default", query: "", want: 0, wantOK: true},
		{name: "in range", query: "?limit=10", want: 10, wantOK: true},
		{name: "not a number", query: "?limit=ten", wantOK: false},
		{name: "too large", query: "?limit=5000", wantOK: false},
	}

	for _, tt := range intTests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			got, ok := v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/api/runs"+tt.query, nil), "limit", 1, 1000, 0)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("string too long", func(t *testing.T) {
		rec := httptest.NewRecorder()
		_, ok := v.ValidateString(rec, httptest.NewRequest(http.MethodGet, "/api/entities?region=abcdef", nil), "region", 3)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
