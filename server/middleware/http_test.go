package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/server/middleware"
)

func TestRecovery(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name: "no panic",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			wantCode: http.StatusOK,
			wantBody: "ok",
		},
		{
			name:     "panic becomes envelope",
			handler:  func(http.ResponseWriter, *http.Request) { panic("segmenter exploded") },
			wantCode: http.StatusInternalServerError,
			wantBody: `"code":"INTERNAL_ERROR"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			middleware.Recovery(logger.Nop())(tc.handler).ServeHTTP(rr, httptest.NewRequest("GET", "/test", http.NoBody))
			if rr.Code != tc.wantCode || !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Fatalf("got %d %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRecovery_EnvelopeShape(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.Recovery(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})).ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/analyses", http.NoBody))

	var body struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			Retryable bool   `json:"retryable"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" || body.Error.Retryable {
		t.Errorf("unexpected envelope %+v", body.Error)
	}
	if strings.Contains(body.Error.Message, "boom") {
		t.Error("panic value must not leak to the client")
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	handler := middleware.Recovery(logger.Nop())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", http.NoBody))
}

func TestRequestID_GeneratesID(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("expected X-Request-Id in request headers")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id in response headers")
	}
}

func TestRequestID_StoresInContext(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if seen == "" || seen != rr.Header().Get(middleware.HeaderRequestID) {
		t.Fatalf("context id %q does not match response header %q", seen, rr.Header().Get(middleware.HeaderRequestID))
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("X-Request-Id", "custom-id-123")
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); got != "custom-id-123" {
		t.Fatalf("expected custom-id-123, got %s", got)
	}
}

func corsRequest(method, origin string, preflight bool) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/analyses", http.NoBody)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", "POST")
	}
	return req
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		AllowedOrigins: []string{"https://console.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "X-Provider-Key"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         600,
	}

	tests := []struct {
		name        string
		req         *http.Request
		wantCode    int
		wantHandler bool
		wantHeaders map[string]string
	}{
		{
			name:        "simple request from allowed origin",
			req:         corsRequest("POST", "https://console.example.com", false),
			wantCode:    http.StatusOK,
			wantHandler: true,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":   "https://console.example.com",
				"Access-Control-Expose-Headers": "X-Request-Id",
				"Access-Control-Allow-Methods":  "",
			},
		},
		{
			name:     "preflight from allowed origin",
			req:      corsRequest("OPTIONS", "https://console.example.com", true),
			wantCode: http.StatusNoContent,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Methods": "GET, POST",
				"Access-Control-Allow-Headers": "Content-Type, X-Provider-Key",
				"Access-Control-Max-Age":       "600",
			},
		},
		{
			name:     "preflight from disallowed origin",
			req:      corsRequest("OPTIONS", "https://evil.example.com", true),
			wantCode: http.StatusNoContent,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "",
				"Access-Control-Allow-Methods": "",
			},
		},
		{
			name:        "plain OPTIONS reaches the router",
			req:         corsRequest("OPTIONS", "https://console.example.com", false),
			wantCode:    http.StatusOK,
			wantHandler: true,
		},
		{
			name:        "no origin",
			req:         corsRequest("POST", "", false),
			wantCode:    http.StatusOK,
			wantHandler: true,
			wantHeaders: map[string]string{"Access-Control-Allow-Origin": ""},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, tc.req)

			if rr.Code != tc.wantCode || called != tc.wantHandler {
				t.Fatalf("code=%d handler=%v, want %d %v", rr.Code, called, tc.wantCode, tc.wantHandler)
			}
			for k, want := range tc.wantHeaders {
				if got := rr.Header().Get(k); got != want {
					t.Errorf("%s = %q, want %q", k, got, want)
				}
			}
			if rr.Header().Get("Vary") != "Origin" {
				t.Error("expected Vary: Origin")
			}
		})
	}
}

func TestCORS_WildcardWithCredentials(t *testing.T) {
	cfg := &middleware.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, corsRequest("GET", "https://app.example.com", false))

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected the origin to be echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials, got %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/v1/analyses", http.StatusOK, `"level":"debug"`},
		{"/api/v1/analyses", http.StatusBadRequest, `"level":"warn"`},
		{"/api/v1/analyses", http.StatusBadGateway, `"level":"error"`},
		{"/health", http.StatusOK, ""},
		{"/ready", http.StatusServiceUnavailable, ""},
	}
	for _, tc := range tests {
		t.Run(tc.path+"/"+http.StatusText(tc.status), func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
			handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("body"))
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest("POST", tc.path, http.NoBody))
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}

			out := buf.String()
			if tc.want == "" {
				if out != "" {
					t.Errorf("probe paths must not be logged, got %s", out)
				}
				return
			}
			for _, want := range []string{tc.want, `"path":"` + tc.path + `"`, `"bytes_out":4`} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %s in %s", want, out)
				}
			}
		})
	}
}

func TestBodySizeLimit_AppliesLimit(t *testing.T) {
	handler := middleware.BodySizeLimit("1KB")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		size int
		want int
	}{
		{"under limit", 512, http.StatusOK},
		{"at limit", 1024, http.StatusOK},
		{"over limit", 2048, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			body := bytes.NewReader(make([]byte, tc.size))
			handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/analyses", body))
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestBodySizeLimit_DeclaredLengthEnvelope(t *testing.T) {
	called := false
	handler := middleware.BodySizeLimit("1KB")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewReader(make([]byte, 4096))))

	if called {
		t.Error("handler must not run for a declared oversized body")
	}
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INVALID_INPUT" || body.Error.Details["limit_bytes"] != float64(1024) {
		t.Errorf("unexpected envelope %s", rr.Body.String())
	}
}

func TestBodySizeLimit_UnknownLengthStillCapped(t *testing.T) {
	handler := middleware.BodySizeLimit("bogus")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) || tooLarge.Limit != middleware.DefaultMaxBodySize {
			t.Errorf("expected MaxBytesError at the default limit, got %v", err)
		}
	}))

	req := httptest.NewRequest("POST", "/api/v1/analyses", io.MultiReader(bytes.NewReader(make([]byte, 25<<20)), bytes.NewReader([]byte("x"))))
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+">")
				next.ServeHTTP(w, r)
				order = append(order, "<"+name)
			})
		}
	}

	handler := middleware.Chain(mark("recovery"), mark("cors"), mark("log"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", http.NoBody))

	want := []string{"recovery>", "cors>", "log>", "handler", "<log", "<cors", "<recovery"}
	if !slices.Equal(order, want) {
		t.Errorf("got %v, want %v", order, want)
	}
}

type flushRecorder struct {
	*httptest.ResponseRecorder
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestRequestLogger_FlushReachesWriter(t *testing.T) {
	fr := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler := middleware.RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if err := http.NewResponseController(w).Flush(); err != nil {
			t.Errorf("Flush: %v", err)
		}
	}))

	handler.ServeHTTP(fr, httptest.NewRequest("GET", "/stream", http.NoBody))
	if !fr.flushed {
		t.Error("expected Flush to reach the underlying writer")
	}
}
