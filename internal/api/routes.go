package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/pkg/openapi"
	"github.com/JaimeStill/pulse/pkg/routes"
	"github.com/JaimeStill/pulse/web/app"
	"github.com/JaimeStill/pulse/web/scalar"
)

// DocsPath serves the interactive API reference.
const DocsPath = "/docs"

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	specBytes, err := openapi.MarshalJSON(BuildSpec(cfg, runtime.Limits))
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	dashboard, err := app.Routes(app.Sources{
		Analyses:      domain.Analyses,
		Stats:         domain.Stats,
		Model:         runtime.Classifier.Primary(),
		ModelLoaded:   runtime.Classifier.ModelLoaded(),
		MaxTextLength: runtime.Limits.MaxTextLength,
	}, runtime.Logger)
	if err != nil {
		return err
	}

	health := newHealthHandler(domain.Store, runtime.Classifier, runtime.Lifecycle, runtime.Logger)

	routes.Register(
		mux,
		health.routes(),
		domain.Analyses.Handler().Routes(),
		domain.Stats.Handler().Routes(),
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: SpecPath, Handler: openapi.ServeSpec(specBytes)},
			},
		},
		scalar.Routes(DocsPath, cfg.OpenAPI.Title, SpecPath),
		dashboard,
	)
	return nil
}
