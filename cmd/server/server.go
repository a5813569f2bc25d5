package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/pulse/internal/api"
	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/infrastructure"
)

// Server owns the infrastructure and the HTTP listener for one process.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	handler, err := api.NewHandler(cfg, infra)
	if err != nil {
		return nil, fmt.Errorf("api init failed: %w", err)
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"classifier", infra.Classifier.Primary(),
		"model_loaded", infra.Classifier.ModelLoaded(),
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Start migrates the schema, opens the listener, and blocks until every
// subsystem reports ready or one of them fails.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	s.infra.Logger.Info("all subsystems ready")

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
