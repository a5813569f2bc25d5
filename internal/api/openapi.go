package api

import (
	"github.com/JaimeStill/pulse/internal/analyses"
	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/stats"
	"github.com/JaimeStill/pulse/pkg/openapi"
)

// SpecPath serves the OpenAPI document.
const SpecPath = "/api"

// BuildSpec assembles the OpenAPI document for every route the API registers.
func BuildSpec(cfg *config.Config, limits analyses.Limits) *openapi.Spec {
	spec := openapi.NewSpec(cfg.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.OpenAPI.Description)
	spec.AddServer("/")

	spec.Components.AddSchemas(analyses.Schemas(limits))
	spec.Components.AddSchemas(stats.Schemas())
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Health": {
			Type:     "object",
			Required: []string{"status", "model_loaded", "record_count"},
			Properties: map[string]*openapi.Schema{
				"status":       {Type: "string", Enum: []any{"healthy", "degraded"}},
				"model_loaded": {Type: "boolean", Description: "False when only the keyword fallback is available"},
				"model":        {Type: "string"},
				"record_count": {Type: "integer"},
				"timestamp":    {Type: "string", Format: "date-time"},
			},
		},
	})

	spec.AddPaths(analyses.Paths())
	spec.AddPaths(stats.Paths())
	spec.AddPaths(map[string]*openapi.PathItem{
		"/health": {
			Get: &openapi.Operation{
				Summary: "Service health",
				Tags:    []string{"Service"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Health report", "Health"),
				},
			},
		},
		"/readyz": {
			Get: &openapi.Operation{
				Summary: "Readiness check",
				Tags:    []string{"Service"},
				Responses: map[int]*openapi.Response{
					200: {Description: "All subsystems started"},
					503: {Description: "Startup has not completed"},
				},
			},
		},
		SpecPath: {
			Get: &openapi.Operation{
				Summary: "This OpenAPI document",
				Tags:    []string{"Service"},
				Responses: map[int]*openapi.Response{
					200: {Description: "OpenAPI 3.1 document"},
				},
			},
		},
	})

	return spec
}
