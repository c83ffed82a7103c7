package main

import (
	"time"

	"github.com/JaimeStill/promptdj/internal/api"
	"github.com/JaimeStill/promptdj/internal/config"
	"github.com/JaimeStill/promptdj/internal/infrastructure"
)

// Server owns the infrastructure, the domain, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	domain  *api.Domain
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	domain := api.NewDomain(api.NewRuntime(cfg, infra))
	modules, err := NewModules(cfg, infra, domain)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"storage", cfg.Storage.Backend,
		"midi", cfg.MIDI.IsEnabled(),
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:   infra,
		domain:  domain,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.domain.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("startup failed", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
