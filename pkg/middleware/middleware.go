// Package middleware provides the HTTP middleware stack: ordered composition,
// request logging, and CORS.
package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// System manages an ordered stack of HTTP middleware.
// The first middleware added is the outermost wrapper.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type mw struct {
	stack []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &mw{
		stack: []func(http.Handler) http.Handler{},
	}
}

func (m *mw) Use(fn func(http.Handler) http.Handler) {
	m.stack = append(m.stack, fn)
}

func (m *mw) Apply(handler http.Handler) http.Handler {
	for i := len(m.stack) - 1; i >= 0; i-- {
		handler = m.stack[i](handler)
	}
	return handler
}

// Default builds the service stack. Recoverer sits inside Logger so a
// recovered panic is logged with its 500 status.
func Default(logger *slog.Logger, cors *CORSConfig) System {
	m := New()
	m.Use(chimw.RequestID)
	m.Use(chimw.RealIP)
	m.Use(Logger(logger))
	m.Use(chimw.Recoverer)
	m.Use(CORS(cors))
	return m
}
