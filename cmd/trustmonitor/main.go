package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trustmonitor/server"
	"trustmonitor/shared"

	"go.uber.org/zap"
)

func main() {
	config, envErr := server.LoadConfig()

	logger, err := shared.NewLogger(shared.LoggerConfig{
		ServiceName: "trustmonitor",
		Development: config.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Debug("No .env file loaded", zap.Error(envErr))
	}
	logger.Info("Configuration loaded",
		zap.Int("port", config.Port),
		zap.String("public_dir", config.PublicDir),
		zap.Bool("tls", config.TLSEnabled()),
		zap.String("version", config.Version))

	srv, err := server.New(config, logger)
	if err != nil {
		logger.Critical("Failed to initialise server", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Critical("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
}
