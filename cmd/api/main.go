package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/adapter/auth"
	"blockpoints-bridge/internal/adapter/confirm"
	deliveryHttp "blockpoints-bridge/internal/adapter/delivery/http"
	"blockpoints-bridge/internal/adapter/events"
	httpHandler "blockpoints-bridge/internal/adapter/handler/http"
	"blockpoints-bridge/internal/adapter/jobs"
	"blockpoints-bridge/internal/adapter/scheduler"
	"blockpoints-bridge/internal/adapter/storage/chainfile"
	"blockpoints-bridge/internal/adapter/storage/memory"
	"blockpoints-bridge/internal/application"
	"blockpoints-bridge/internal/config"
	"blockpoints-bridge/internal/domain/entity"
	appLogger "blockpoints-bridge/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	logger, err := appLogger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Manual) ---
	logger.Info("Initializing dependencies...")

	seed := entity.DefaultChains()
	if cfg.Chains.Source != "" {
		loadCtx, cancel := context.WithTimeout(rootCtx, cfg.Chains.GetTimeout())
		seed, err = chainfile.NewRepository(cfg.Chains, logger).LoadChains(loadCtx)
		cancel()
		if err != nil {
			logger.Fatal("Failed to load chain catalog", zap.String("source", cfg.Chains.Source), zap.Error(err))
		}
	}
	chainRegistry, err := memory.NewChainRegistry(seed, logger)
	if err != nil {
		logger.Fatal("Failed to build chain registry", zap.Error(err))
	}
	transferRepo := memory.NewTransferRepository(logger)
	idempotencyRepo := memory.NewIdempotencyRepository(cfg.Idempotency, logger)

	// Event sinks: the in-memory log is written synchronously, everything else
	// goes through the async dispatcher.
	downstream := events.Fanout{events.NewZapPublisher(logger)}
	var closers []func() error

	if cfg.Events.RabbitMQ.Enabled {
		conn, err := events.DialRabbitMQ(rootCtx, cfg.Events.RabbitMQ, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		rabbit, err := events.NewRabbitPublisher(conn, cfg.Events.RabbitMQ.Queue, logger)
		if err != nil {
			logger.Fatal("Failed to create RabbitMQ publisher", zap.Error(err))
		}
		downstream = append(downstream, rabbit)
		closers = append(closers, rabbit.Close, conn.Close)
	}
	if cfg.Events.WebSocket.Enabled {
		ws := events.NewWebSocketPublisher(cfg.Events.WebSocket, logger)
		downstream = append(downstream, ws)
		closers = append(closers, ws.Close)
	}

	dispatcher := events.NewAsync(downstream, cfg.Events.LogBuffer, logger)
	dispatcherDone := make(chan struct{})
	go func() {
		dispatcher.Run(context.Background())
		close(dispatcherDone)
	}()

	publisher := events.Fanout{dispatcher}
	var eventReader httpHandler.EventReader
	if cfg.Events.LogEnabled {
		eventLog := events.NewLog(cfg.Events.LogBuffer)
		publisher = append(events.Fanout{eventLog}, publisher...)
		eventReader = eventLog
	}

	// Services
	bridgeService, err := application.NewBridgeService(application.Dependencies{
		Chains:      chainRegistry,
		Transfers:   transferRepo,
		Idempotency: idempotencyRepo,
		Scheduler:   scheduler.Real{},
		Confirmer:   confirm.NewSimulator(cfg.Bridge.FaultRate, logger),
		Authorizer:  auth.NewStaticAdmins(cfg.Bridge.Admins, logger),
		Publisher:   publisher,
	}, cfg.Bridge, logger)
	if err != nil {
		logger.Fatal("Failed to create bridge service", zap.Error(err))
	}

	// Jobs
	var snapshotJob *jobs.StatsSnapshot
	if cfg.Jobs.StatsSnapshot != "" {
		snapshotJob, err = jobs.NewStatsSnapshot(cfg.Jobs.StatsSnapshot, bridgeService, logger)
		if err != nil {
			logger.Fatal("Failed to schedule stats snapshot job", zap.Error(err))
		}
		snapshotJob.Start()
	}

	// Handlers
	bridgeHandler := httpHandler.NewBridgeHandler(bridgeService, eventReader, logger)

	// --- HTTP Router & Server ---
	logger.Info("Setting up HTTP router...")
	r := router.New()
	deliveryHttp.RegisterRoutes(r, bridgeHandler, logger)

	server := &fasthttp.Server{
		Handler: deliveryHttp.LoggingMiddleware(r.Handler, logger),
		Name:    cfg.App.Name,
	}
	serverAddr := ":" + cfg.Server.Port

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("version", cfg.App.Version))
		serverErr <- server.ListenAndServe(serverAddr)
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}

	// --- Graceful shutdown ---
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
	}
	bridgeService.Shutdown()
	if snapshotJob != nil {
		snapshotJob.Stop(shutdownCtx)
	}
	dispatcher.Close()
	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		logger.Warn("Event dispatcher did not drain before timeout")
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to close event sink", zap.Error(err))
		}
	}
	logger.Info("Shutdown complete")
}
