package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethpandaops/panda-wheel/pkg/discord"
	apihttp "github.com/ethpandaops/panda-wheel/pkg/http"
	"github.com/ethpandaops/panda-wheel/pkg/render"
	"github.com/ethpandaops/panda-wheel/pkg/scheduler"
	"github.com/ethpandaops/panda-wheel/pkg/store"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	metricsNamespace = "panda_wheel"
	storeHealthJob   = "store-health"
	discordTimeout   = 20 * time.Second
)

// Service runs the bot together with its store, scheduler and HTTP endpoints.
type Service struct {
	log           *logrus.Logger
	config        *Config
	repo          store.Repository
	cache         *store.Cache
	engine        *wheel.Engine
	renderer      *render.Renderer
	bot           discord.Bot
	scheduler     *scheduler.Scheduler
	metricsServer *http.Server
	healthServer  *http.Server
	storeHealthy  atomic.Bool
}

// NewService creates a new service.
func NewService(ctx context.Context, log *logrus.Logger, cfg *Config) (*Service, error) {
	storeMetrics := store.NewMetrics(metricsNamespace)

	// Durable home of every guild's wheel.
	repo, err := store.NewRepository(ctx, log, cfg.AsStoreConfig(), storeMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create wheel store: %w", err)
	}

	// Write-through cache in front of it, serialising updates per guild.
	cache := store.NewCache(log, repo, storeMetrics)

	engine := wheel.NewEngine(log, cache, wheel.WithMetrics(wheel.NewMetrics(metricsNamespace)))

	renderer, err := render.NewRenderer()
	if err != nil {
		_ = repo.Close()

		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	// And finally, our bot.
	bot, err := discord.NewBot(log, cfg.AsDiscordConfig(), engine, renderer, discord.NewMetrics(metricsNamespace))
	if err != nil {
		_ = repo.Close()

		return nil, fmt.Errorf("failed to create discord bot: %w", err)
	}

	// Measure every Discord REST call.
	bot.GetSession().Client = apihttp.NewClient(discordTimeout, apihttp.NewMetrics(metricsNamespace), log)

	return &Service{
		log:       log,
		config:    cfg,
		repo:      repo,
		cache:     cache,
		engine:    engine,
		renderer:  renderer,
		bot:       bot,
		scheduler: scheduler.NewScheduler(log, scheduler.NewMetrics(metricsNamespace)),
	}, nil
}

// Start starts the service.
func (s *Service) Start(ctx context.Context) error {
	if err := s.scheduler.AddJob(storeHealthJob, s.healthCheckSchedule(), s.checkStore); err != nil {
		return fmt.Errorf("failed to schedule store health check: %w", err)
	}

	// Prime the health status before anything is served.
	if err := s.scheduler.RunJob(ctx, storeHealthJob); err != nil {
		s.log.WithError(err).Warn("Wheel store is not reachable")
	}

	s.startMetricsServer()
	s.startHealthServer()

	s.log.Info("Starting Discord bot")

	if err := s.bot.Start(); err != nil {
		return fmt.Errorf("failed to start discord bot: %w", err)
	}

	s.log.Info("Starting scheduler")
	s.scheduler.Start()

	s.log.WithField("store", s.config.AsStoreConfig().Backend).Info("Service started successfully")

	return nil
}

// Stop stops the service.
func (s *Service) Stop(ctx context.Context) error {
	s.log.Info("Stopping service")

	var errs []error

	if err := s.bot.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop discord bot: %w", err))
	}

	s.scheduler.Stop()

	for _, srv := range []*http.Server{s.metricsServer, s.healthServer} {
		if srv == nil {
			continue
		}

		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown %s server: %w", srv.Addr, err))
		}
	}

	if err := s.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close wheel store: %w", err))
	}

	return errors.Join(errs...)
}

// checkStore pings the wheel store and records the result for /healthz.
func (s *Service) checkStore(ctx context.Context) error {
	err := s.repo.Ping(ctx)
	s.storeHealthy.Store(err == nil)

	if err != nil {
		return fmt.Errorf("failed to ping wheel store: %w", err)
	}

	s.log.WithField("cached_wheels", s.cache.Len()).Debug("Wheel store is healthy")

	return nil
}

func (s *Service) healthCheckSchedule() string {
	if s.config.HealthCheckSchedule == "" {
		return DefaultHealthCheckSchedule
	}

	return s.config.HealthCheckSchedule
}

func (s *Service) startMetricsServer() {
	addr := s.config.MetricsAddress
	if addr == "" {
		addr = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s.metricsServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.serve(s.metricsServer, "metrics")
}

func (s *Service) startHealthServer() {
	addr := s.config.HealthCheckAddress
	if addr == "" {
		addr = DefaultHealthCheckAddress
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	s.healthServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.serve(s.healthServer, "health")
}

func (s *Service) serve(srv *http.Server, name string) {
	s.log.WithField("address", srv.Addr).Infof("Starting %s server", name)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.WithError(err).Errorf("%s server failed", name)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.storeHealthy.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))

		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
