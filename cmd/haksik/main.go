package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/handicapstudent/ppt-project/internal/config"
	"github.com/handicapstudent/ppt-project/internal/database"
	"github.com/handicapstudent/ppt-project/internal/domain"
	"github.com/handicapstudent/ppt-project/internal/events"
	"github.com/handicapstudent/ppt-project/internal/logging"
	"github.com/handicapstudent/ppt-project/internal/menu"
	"github.com/handicapstudent/ppt-project/internal/metrics"
	"github.com/handicapstudent/ppt-project/internal/models"
	"github.com/handicapstudent/ppt-project/internal/repository"
	"github.com/handicapstudent/ppt-project/internal/service"
	"github.com/handicapstudent/ppt-project/internal/session"
	"github.com/handicapstudent/ppt-project/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("database init failed")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, stateRepo := initStateRepository(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
		go backupService.Start(ctx)
	}

	eventBus := events.NewEventBus()

	announcer := worker.NewAnnounceWorker(
		worker.ExecSpeaker{Command: "espeak-ng"},
		cfg.Accessibility,
		worker.RetryPolicy{MaxRetries: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2},
		logger,
	)
	announcer.SubscribeBus(eventBus)
	go announcer.Start(ctx)

	app := &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		states:  stateRepo,
		bus:     eventBus,
		users:   service.NewUserService(db, stateRepo, logger),
		reviews: service.NewReviewService(db, eventBus, session.SystemClock{}, logger),
		menus:   menu.NewFetcher(cfg.Menu, logger),
		in:      os.Stdin,
		out:     os.Stdout,
	}

	logger.Info().Str("version", cfg.App.Version).Msg("haksik started")
	err = app.Run(ctx)
	logger.Info().Msg("shutdown complete")
	return err
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "haksik-main").Logger()
	return cfg, &logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("exports directory")
		return err
	}
	return nil
}

func initStateRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.StateRepository) {
	fallback := repository.NewMemoryStateRepository()
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil, fallback
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, falling back to memory state")
	}

	primary := repository.NewRedisStateRepository(client, time.Duration(models.DefaultStateTTL)*time.Second)
	return client, repository.NewFailoverStateRepository(primary, fallback, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Int("port", port).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
