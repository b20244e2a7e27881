package main

import (
	"time"

	"github.com/talus-io/talus/internal/config"
	"github.com/talus-io/talus/internal/infrastructure"
	"github.com/talus-io/talus/internal/ingest"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	pool    *ingest.Pool
	reaper  *ingest.Reaper
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	pipeline := ingest.NewPipeline(
		modules.Domain.Batches,
		modules.Domain.Records,
		infra.Logger,
		cfg.Worker.LeaseDuration(),
	)

	pool := ingest.NewPool(
		modules.Domain.Batches,
		pipeline,
		infra.Logger,
		cfg.Worker.Count,
		cfg.Worker.PollIntervalDuration(),
		cfg.Worker.LeaseDuration(),
	)

	reaper := ingest.NewReaper(
		modules.Domain.Batches,
		infra.Logger,
		cfg.Worker.ReapSchedule,
		cfg.Worker.ReapTimeoutDuration(),
	)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"workers", cfg.Worker.Count,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		pool:    pool,
		reaper:  reaper,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.pool.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.reaper.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
