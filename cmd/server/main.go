package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/moo-zh/battlemon/internal/battle"
	"github.com/moo-zh/battlemon/internal/config"
	"github.com/moo-zh/battlemon/internal/repository"
	"github.com/moo-zh/battlemon/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting battlemon server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Battle records are optional: no database URL, no persistence.
	var records *repository.BattleRepository
	if cfg.Database.URL != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		records = repository.NewBattleRepository(db)
		if err := records.Migrate(ctx); err != nil {
			logger.Fatal("failed to migrate battle records", zap.Error(err))
		}
	} else {
		logger.Info("no database configured; battle records disabled")
	}

	manager := battle.NewManager(logger)
	logger.Info("battle manager initialized")

	restServer := server.NewServer(cfg.Server, manager, records, cfg.Battle.Level, logger)
	wsServer := server.NewWSServer(cfg.Server.WebSocket, manager, logger)

	go func() {
		if serveErr := restServer.ListenAndServe(ctx); serveErr != nil {
			logger.Error("http server error", zap.Error(serveErr))
		}
	}()
	go func() {
		if serveErr := wsServer.ListenAndServe(ctx); serveErr != nil {
			logger.Error("websocket server error", zap.Error(serveErr))
		}
	}()

	logger.Info("battlemon server initialized",
		zap.String("http_address", cfg.Server.HTTP.Address),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Uint8("battle_level", cfg.Battle.Level),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	logger.Info("battlemon server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
