package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/spf13/cobra"

	"github.com/routinnet/routix-platform-ai/internal/config"
	"github.com/routinnet/routix-platform-ai/internal/handler"
	"github.com/routinnet/routix-platform-ai/internal/infrastructure/ai"
	infradb "github.com/routinnet/routix-platform-ai/internal/infrastructure/database"
	"github.com/routinnet/routix-platform-ai/internal/router"
	"github.com/routinnet/routix-platform-ai/internal/storage"
	"github.com/routinnet/routix-platform-ai/internal/usecase"
	"github.com/routinnet/routix-platform-ai/internal/worker"
	"github.com/routinnet/routix-platform-ai/internal/ws"
	"github.com/routinnet/routix-platform-ai/pkg/logger"
)

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "routix-server",
	Short: "Routix API server for AI-assisted thumbnail generation",
	Long: `Routix API server is a high-performance HTTP API server built with the Hertz framework.
It provides chat conversations, AI-driven thumbnail generation with credit billing,
and per-conversation websocket streaming.`,
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("config loaded successfully", "config_file", cfgFile)
	slog.Info("Routix API server starting...",
		"version", version,
		"config", cfgFile,
	)

	// Setup Hertz to use slog
	hertzLogger := logger.NewHertzSlogAdapter(slog.Default())
	hlog.SetLogger(hertzLogger)
	hlog.SetLevel(hlog.LevelDebug)

	// Initialize database
	db, err := infradb.Open(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	slog.Info("database connected successfully", "driver", cfg.Database.Driver)

	// Repositories
	userRepo := infradb.NewUserRepository(db)
	convRepo := infradb.NewConversationRepository(db)
	genRepo := infradb.NewGenerationRepository(db)
	algoRepo := infradb.NewAlgorithmRepository(db)
	creditRepo := infradb.NewCreditRepository(db)

	// File storage for uploads and generated results
	store, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize file storage", "error", err)
		os.Exit(1)
	}

	// Websocket hub; also the event broadcaster for the whole app
	hub := ws.NewHub(slog.Default())

	// AI components
	assistant := ai.NewClient(cfg.Assistant, slog.Default())
	generator, err := ai.NewGenerator(cfg.Generation.StepDelay, store.BaseDir(), slog.Default())
	if err != nil {
		slog.Error("failed to initialize generator", "error", err)
		os.Exit(1)
	}

	// Background worker pool for generation jobs
	pool := worker.NewPool(
		genRepo,
		algoRepo,
		userRepo,
		creditRepo,
		generator,
		hub,
		cfg.Generation.Workers,
		cfg.Generation.QueueSize,
		slog.Default(),
	)
	pool.Start(context.Background())

	slog.Info("worker pool started",
		"workers", cfg.Generation.Workers,
		"queue_size", cfg.Generation.QueueSize,
	)

	// Usecases
	userUsecase := usecase.NewUserUsecase(userRepo, creditRepo, cfg.Generation.SignupCredits, slog.Default())
	generationUsecase := usecase.NewGenerationUsecase(genRepo, algoRepo, userRepo, creditRepo, pool, hub, slog.Default())
	chatUsecase := usecase.NewChatUsecase(convRepo, assistant, generationUsecase, hub, slog.Default())
	creditUsecase := usecase.NewCreditUsecase(userRepo, creditRepo, slog.Default())

	// Handlers
	userHandler := handler.NewUserHandler(userUsecase, cfg.JWT, slog.Default())
	chatHandler := handler.NewChatHandler(chatUsecase, slog.Default())
	generationHandler := handler.NewGenerationHandler(generationUsecase, creditUsecase, slog.Default())
	fileHandler := handler.NewFileHandler(store, slog.Default())
	wsHandler := handler.NewWSHandler(hub, chatUsecase, slog.Default())
	healthHandler := handler.NewHealthHandler(db)

	slog.Info("handlers initialized")

	// Create Hertz server with performance optimization
	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.Server.ReadTimeout),
		server.WithWriteTimeout(cfg.Server.WriteTimeout),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
	)

	// Setup routes
	router.Setup(h, userHandler, chatHandler, generationHandler, fileHandler, wsHandler, healthHandler, store.BaseDir())

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	// Graceful shutdown
	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	// Drain in-flight generation jobs before closing the database
	pool.Shutdown()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		} else {
			slog.Info("database closed successfully")
		}
	}

	slog.Info("server stopped gracefully")
}
