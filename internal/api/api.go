// Package api assembles the HTTP surface with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/infrastructure"
	"github.com/JaimeStill/pulse/pkg/middleware"
)

// NewHandler creates the root HTTP handler with all domain routes and the
// default middleware stack applied.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	return middleware.Default(runtime.Logger, &cfg.API.CORS).Apply(middleware.JSONFallback(mux)), nil
}
