package stats

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/pulse/pkg/handlers"
	"github.com/JaimeStill/pulse/pkg/routes"
)

// Handler serves the statistics endpoint.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler for sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "stats"),
	}
}

// Routes returns the route group definition for statistics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/stats",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
		},
	}
}

// Get computes fresh statistics from the store.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.sys.Compute(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, st)
}
