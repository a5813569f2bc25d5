package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JaimeStill/pulse/pkg/middleware"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order: got %v, want [first second handler]", order)
	}
}

func TestCORSDisabled(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: false, Origins: []string{"http://example.com"}}
	handler := middleware.CORS(cfg)(ok())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set when disabled")
	}
}

func corsConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	handler := middleware.CORS(corsConfig())(ok())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stats", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("allow-origin: got %s, want http://example.com", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	handler := middleware.CORS(corsConfig())(ok())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stats", nil)
	req.Header.Set("Origin", "http://evil.com")
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin: got %s, want empty", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := middleware.CORS(corsConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the handler")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/analyze", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
		t.Errorf("allow-methods: got %s, want POST", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "3600" {
		t.Errorf("max-age: got %s, want 3600", got)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health?x=1", nil))

	out := buf.String()
	for _, want := range []string{"method=GET", "uri=\"/health?x=1\"", "status=418", "bytes=15"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestDefaultStack(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stack := middleware.Default(logger, &middleware.CORSConfig{})

	t.Run("recovers panics", func(t *testing.T) {
		handler := stack.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rec.Code)
		}
	})

	t.Run("sets request id", func(t *testing.T) {
		var id string
		handler := stack.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id = chimw.GetReqID(r.Context())
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		if id == "" {
			t.Error("request id not set")
		}
	})
}

func TestJSONFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"item missing"}`))
	})
	h := middleware.JSONFallback(mux)

	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		wantBody  string
		wantAllow string
	}{
		{"unknown path", "GET", "/nope", http.StatusNotFound, `{"error":"endpoint not found"}`, ""},
		{"wrong method", "GET", "/items", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`, "POST"},
		{"route not found passes through", "GET", "/items/7", http.StatusNotFound, `{"error":"item missing"}`, ""},
		{"matched route", "POST", "/items", http.StatusCreated, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body: got %q, want %q", got, tt.wantBody)
			}
			if tt.wantBody != "" {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("content-type: got %s", ct)
				}
			}
			if tt.wantAllow != "" && !strings.Contains(rec.Header().Get("Allow"), tt.wantAllow) {
				t.Errorf("allow: got %q, want %s", rec.Header().Get("Allow"), tt.wantAllow)
			}
		})
	}
}
