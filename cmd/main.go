package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-alarm-session/internal/config"
	"github.com/KasumiMercury/primind-alarm-session/internal/handler"
	"github.com/KasumiMercury/primind-alarm-session/internal/health"
	"github.com/KasumiMercury/primind-alarm-session/internal/infra/repository"
	"github.com/KasumiMercury/primind-alarm-session/internal/infra/sessionrecorder"
	"github.com/KasumiMercury/primind-alarm-session/internal/infra/sound"
	"github.com/KasumiMercury/primind-alarm-session/internal/observability/metrics"
	"github.com/KasumiMercury/primind-alarm-session/internal/observability/middleware"
	"github.com/KasumiMercury/primind-alarm-session/internal/service/session"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	sessionMetrics, err := metrics.NewSessionMetrics()
	if err != nil {
		slog.Error("failed to initialize session metrics", slog.String("error", err.Error()))
		return 1
	}

	// Session result recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := sessionrecorder.LoadConfig()
	resultRecorder, err := sessionrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize session result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := resultRecorder.Close(); err != nil {
			slog.Warn("failed to close session result recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	settingsRepo := repository.NewSettingsRepository(redisClient)
	soundClient := sound.NewClient(cfg.PushRelayURL)

	manager := session.NewManager(
		session.NewActivationRegistry(),
		settingsRepo,
		taskQueue,
		soundClient,
		resultRecorder,
		sessionMetrics,
		session.Hooks{},
		session.Config{
			CountdownSeconds:     cfg.Session.CountdownSeconds,
			DefaultSnoozeMinutes: cfg.Session.DefaultSnoozeMinutes,
			AutoSnoozeMinutes:    cfg.Session.AutoSnoozeMinutes,
		},
	)
	defer func() {
		teardownCtx, teardownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer teardownCancel()
		if err := manager.Close(teardownCtx); err != nil {
			slog.Warn("failed to tear down alarm session", slog.String("error", err.Error()))
		}
	}()

	alarmHandler := handler.NewAlarmHandler(manager)
	settingsHandler := handler.NewSettingsHandler(settingsRepo)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		TracerName:  "github.com/KasumiMercury/primind-alarm-session/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, Version, func() bool {
		_, active := manager.ActiveSession()
		return active
	})
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/alarm/trigger", alarmHandler.HandleTrigger)
		v1.POST("/alarm/:sessionID/dismiss", alarmHandler.HandleDismiss)
		v1.POST("/alarm/:sessionID/snooze", alarmHandler.HandleSnooze)
		v1.POST("/alarm/:sessionID/snooze-minutes", alarmHandler.HandleAdjustSnooze)
		v1.GET("/alarm/active", alarmHandler.HandleActiveSession)
		v1.PUT("/settings/snooze", settingsHandler.HandleSaveSnoozeSettings)
		v1.GET("/settings/snooze", settingsHandler.HandleGetSnoozeSettings)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("countdown_seconds", cfg.Session.CountdownSeconds),
			slog.Int("default_snooze_minutes", cfg.Session.DefaultSnoozeMinutes),
			slog.Int("auto_snooze_minutes", cfg.Session.AutoSnoozeMinutes),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
