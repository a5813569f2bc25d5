package api

import (
	"github.com/JaimeStill/pulse/internal/analyses"
	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/infrastructure"
	"github.com/JaimeStill/pulse/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Limits     analyses.Limits
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Database:   infra.Database,
			Classifier: infra.Classifier,
		},
		Pagination: cfg.API.Pagination,
		Limits:     LimitsFromConfig(&cfg.API),
	}
}

// LimitsFromConfig derives request limits from the API configuration.
func LimitsFromConfig(cfg *config.APIConfig) analyses.Limits {
	return analyses.Limits{
		MaxTextLength:    cfg.MaxTextLength,
		MaxBatchSize:     cfg.MaxBatchSize,
		BatchConcurrency: cfg.BatchConcurrency,
		MaxBodyBytes:     cfg.MaxBodySizeBytes(),
	}
}
