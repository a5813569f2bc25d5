package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/handlers"
	"github.com/JaimeStill/pulse/pkg/lifecycle"
	"github.com/JaimeStill/pulse/pkg/routes"
)

// Health is the body of GET /health.
type Health struct {
	Status      string    `json:"status"`
	ModelLoaded bool      `json:"model_loaded"`
	Model       string    `json:"model"`
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}

type counter interface {
	Count(ctx context.Context) (int, error)
}

type healthHandler struct {
	store      counter
	classifier sentiment.Classifier
	readiness  lifecycle.ReadinessChecker
	logger     *slog.Logger
}

func newHealthHandler(
	store counter,
	classifier sentiment.Classifier,
	readiness lifecycle.ReadinessChecker,
	logger *slog.Logger,
) *healthHandler {
	return &healthHandler{
		store:      store,
		classifier: classifier,
		readiness:  readiness,
		logger:     logger.With("handler", "health"),
	}
}

func (h *healthHandler) routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/health", Handler: h.health},
			{Method: "GET", Pattern: "/readyz", Handler: h.ready},
		},
	}
}

// health always answers 200; an unreachable store is reported as degraded.
func (h *healthHandler) health(w http.ResponseWriter, r *http.Request) {
	body := Health{
		Status:      "healthy",
		ModelLoaded: h.classifier.ModelLoaded(),
		Model:       h.classifier.Primary(),
		Timestamp:   time.Now().UTC(),
	}

	n, err := h.store.Count(r.Context())
	if err != nil {
		h.logger.Warn("record count unavailable", "error", err)
		body.Status = "degraded"
	}
	body.RecordCount = n

	handlers.RespondJSON(w, http.StatusOK, body)
}

func (h *healthHandler) ready(w http.ResponseWriter, r *http.Request) {
	if !h.readiness.Ready() {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
