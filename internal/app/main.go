package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Egor213/LogBoard/internal/broker"
	kafkabroker "github.com/Egor213/LogBoard/internal/broker/kafka"
	"github.com/Egor213/LogBoard/internal/config"
	httpv1 "github.com/Egor213/LogBoard/internal/controller/http/v1"
	"github.com/Egor213/LogBoard/internal/metrics"
	"github.com/Egor213/LogBoard/internal/repo"
	"github.com/Egor213/LogBoard/internal/service"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	"github.com/Egor213/LogBoard/pkg/httpserver"
	"github.com/Egor213/LogBoard/pkg/logger"
	"github.com/Egor213/LogBoard/pkg/postgres"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	log "github.com/sirupsen/logrus"
)

func Run() {
	// Config
	cfg, err := config.New()
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}

	// Logger
	logger.SetupLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger has been set up")

	// Migrations
	if err := Migrate(cfg.PG.URL, cfg.PG.ConnAttempts); err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}

	// DB connecting
	log.Info("Connecting to DB")
	pg, err := postgres.New(cfg.PG.URL,
		postgres.MaxPoolSize(cfg.PG.MaxPoolSize),
		postgres.ConnAttempts(cfg.PG.ConnAttempts),
		postgres.ConnTimeout(cfg.PG.ConnTimeout),
		postgres.StatementTimeout(cfg.PG.StatementTimeout),
	)
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}
	defer pg.Close()
	log.Info("Connected to DB")

	// Repos
	repositories := repo.NewRepositories(pg)

	// Producer
	brokerProducer, closeProducer := newProducer(cfg.Kafka)
	defer closeProducer()

	// Services
	metricsCnt := metrics.New()
	deps := service.ServicesDependencies{
		Repos:          repositories,
		TxManager:      pg.TrManager,
		Counters:       metricsCnt,
		BrokerProducer: brokerProducer,
		PageLimits:     cfg.PageLimits(),
	}
	services := service.NewServices(deps)

	// API server
	log.Infof("Starting API server...")
	log.Debugf("API server port: %s", cfg.HTTP.Port)
	apiHandler := echo.New()
	apiHandler.HideBanner = true
	httpv1.SetupMiddleware(apiHandler, httpv1.MiddlewareConfig{
		Subsystem:      cfg.App.Name,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
		Registerer:     prometheus.DefaultRegisterer,
	})
	httpv1.ConfigureRouter(apiHandler, services, httpv1.NewHealthChecker(pg), httpv1.AppInfo{
		Name:        cfg.App.Name,
		Version:     cfg.App.Version,
		MetricsPath: metrics.Path,
	})
	apiServer := httpserver.New(apiHandler,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
		httpserver.IdleTimeout(2*time.Minute),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	)

	// Prometheus server
	log.Infof("Starting metrics server...")
	log.Debugf("Metrics server port: %s", cfg.Prometheus.Port)
	metricsHandler := echo.New()
	metricsHandler.HideBanner = true
	metrics.ConfigureRouter(metricsHandler)
	metricsServer := httpserver.New(metricsHandler, httpserver.Port(cfg.Prometheus.Port))

	log.Info("Configuring graceful shutdown...")

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info(errorsUtils.WrapPathErr(errors.New(s.String())))
	case err := <-metricsServer.Notify():
		log.Info(errorsUtils.WrapPathErr(err))
	case err := <-apiServer.Notify():
		log.Info(errorsUtils.WrapPathErr(err))
	}

	// Graceful shutdown
	shutdownApp(apiServer, metricsServer)
}

func newProducer(cfg config.Kafka) (broker.Producer, func()) {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info("Kafka is disabled, change events are not published")
		return broker.NopProducer{}, func() {}
	}

	p := kafkabroker.NewProducer(kafkabroker.ProducerConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		WriteTimeout: 5 * time.Second,
	})
	return p, func() {
		if err := p.Close(); err != nil {
			log.Error(errorsUtils.WrapPathErr(err))
		}
	}
}

func shutdownApp(servers ...*httpserver.Server) {
	log.Info("Shutting down...")
	for _, s := range servers {
		if err := s.Shutdown(); err != nil {
			log.Error(errorsUtils.WrapPathErr(err))
		}
	}
}
