package middleware

import (
	"net/http"

	"github.com/JaimeStill/pulse/pkg/handlers"
)

var fallbackMessages = map[int]string{
	http.StatusNotFound:         "endpoint not found",
	http.StatusMethodNotAllowed: "method not allowed",
}

// JSONFallback serves mux, answering requests that match no registered pattern
// with a JSON ErrorResponse instead of the mux's plain-text 404 and 405 bodies.
// Responses from matched routes pass through untouched.
func JSONFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(&fallbackWriter{ResponseWriter: w}, r)
	})
}

type fallbackWriter struct {
	http.ResponseWriter
	replaced bool
}

func (w *fallbackWriter) WriteHeader(status int) {
	msg, ok := fallbackMessages[status]
	if !ok {
		w.ResponseWriter.WriteHeader(status)
		return
	}

	w.replaced = true
	w.Header().Del("X-Content-Type-Options")
	handlers.RespondJSON(w.ResponseWriter, status, handlers.ErrorResponse{Error: msg})
}

func (w *fallbackWriter) Write(b []byte) (int, error) {
	if w.replaced {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
