package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	// Application
	applicationPort "github.com/dreschagin/call-analytics-dashboard/internal/application/port"
	"github.com/dreschagin/call-analytics-dashboard/internal/application/usecase"

	// Domain
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"

	// Infrastructure
	natsInfra "github.com/dreschagin/call-analytics-dashboard/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/call-analytics-dashboard/internal/infrastructure/notification/websocket"
	redisStream "github.com/dreschagin/call-analytics-dashboard/internal/infrastructure/stream/redis"

	// Interfaces
	httpInterface "github.com/dreschagin/call-analytics-dashboard/internal/interfaces/http"
	"github.com/dreschagin/call-analytics-dashboard/internal/interfaces/http/handler"

	// Shared
	"github.com/dreschagin/call-analytics-dashboard/pkg/config"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Voice Call Analytics Dashboard")

	// 3. Подключаемся к Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// Не фатально: consumer сам переподключится, dashboard стартует пустым
		log.Warn("Redis is not reachable yet, stream consumer will keep retrying",
			"addr", cfg.Redis.Addr, "error", err.Error())
	} else {
		log.Info("Redis connected successfully", "addr", cfg.Redis.Addr)
	}
	pingCancel()

	// 4. Dependency Injection - Domain Layer

	aggregator := service.NewMetricsAggregator(time.Now())

	// 5. Dependency Injection - Infrastructure Layer

	// WebSocket Hub
	hub := wsInfra.NewHub(log.With("hub"))

	// Redis Streams consumer
	consumer := redisStream.NewConsumer(redisClient, aggregator, redisStream.Config{
		ConversationsStream: cfg.Redis.ConversationsStream,
		ErrorsStream:        cfg.Redis.ErrorsStream,
		ReadBlock:           cfg.Redis.ReadBlock,
		ReadCount:           cfg.Redis.ReadCount,
		BackoffMin:          cfg.Redis.BackoffMin,
		BackoffMax:          cfg.Redis.BackoffMax,
	}, log.With("consumer"))

	// NATS publisher для алертов о смене статуса
	var alertPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewPublisher(cfg.NATS.URL, log.With("nats"))
		if initErr != nil {
			log.Error("Failed to initialize NATS publisher", initErr)
			os.Exit(1)
		}
		defer publisherImpl.Close()
		alertPublisher = publisherImpl
		log.Info("NATS alert publisher initialized", "subject", cfg.NATS.AlertSubject)
	} else {
		log.Warn("NATS alert publishing is disabled")
	}

	// 6. Dependency Injection - Application Layer (Use Cases)

	broadcastUC := usecase.NewBroadcastSnapshotUseCase(aggregator, hub, alertPublisher, cfg.NATS.AlertSubject, log)
	injectErrorsUC := usecase.NewInjectErrorsUseCase(aggregator, broadcastUC, log)
	adjustCallsUC := usecase.NewAdjustActiveCallsUseCase(aggregator, broadcastUC, log)
	resetUC := usecase.NewResetDashboardUseCase(aggregator, broadcastUC, log)
	getErrorLogsUC := usecase.NewGetErrorLogsUseCase(aggregator, log)

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)

	websocketHandler := handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, log)
	healthAPIHandler := handler.NewHealthAPIHandler(aggregator, consumer, hub, log)
	logsAPIHandler := handler.NewLogsAPIHandler(getErrorLogsUC, log)
	demoAPIHandler := handler.NewDemoAPIHandler(injectErrorsUC, adjustCallsUC, resetUC, log)

	// Router
	router := httpInterface.NewRouter(
		websocketHandler,
		healthAPIHandler,
		logsAPIHandler,
		demoAPIHandler,
		cfg.Security,
		log,
	)

	// 8. Запускаем фоновые процессы

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем WebSocket hub
	go hub.Run(ctx)
	log.Info("WebSocket hub started")

	// Запускаем stream consumer
	go consumer.Run(ctx)
	log.Info("Stream consumer started",
		"conversations", cfg.Redis.ConversationsStream,
		"errors", cfg.Redis.ErrorsStream)

	// Периодический broadcast снимка dashboard
	go func() {
		ticker := time.NewTicker(cfg.Broadcast.Interval)
		defer ticker.Stop()

		log.Info("Snapshot broadcaster started",
			"interval", cfg.Broadcast.Interval.String())

		for {
			select {
			case <-ticker.C:
				broadcastUC.Execute(ctx)
			case <-ctx.Done():
				log.Info("Snapshot broadcaster stopped")
				return
			}
		}
	}()

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Dashboard available at http://localhost:" + cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Останавливаем consumer, hub и broadcaster
	cancel()

	// Даем время на завершение текущих операций
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped gracefully")
}
